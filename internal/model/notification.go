package model

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationAppointmentBooked    NotificationType = "appointment_booked"
	NotificationAppointmentAccepted  NotificationType = "appointment_accepted"
	NotificationAppointmentCompleted NotificationType = "appointment_completed"
	NotificationAppointmentCancelled NotificationType = "appointment_cancelled"
	NotificationPrescriptionIssued   NotificationType = "prescription_issued"
	NotificationDoctorEnabled        NotificationType = "doctor_enabled"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationAppointmentBooked, NotificationAppointmentAccepted,
		NotificationAppointmentCompleted, NotificationAppointmentCancelled,
		NotificationPrescriptionIssued, NotificationDoctorEnabled:
		return true
	}
	return false
}

// Notification is an in-app message; only Read and EmailSent change after creation.
type Notification struct {
	Base
	UserID    uuid.UUID        `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	EmailSent bool             `json:"emailSent" db:"email_sent"`
	RelatedID *uuid.UUID       `json:"relatedId,omitempty" db:"related_id"`
}

// NotificationPrefs are the per-profile delivery switches.
type NotificationPrefs struct {
	Email bool `json:"email" bson:"email"`
	SMS   bool `json:"sms" bson:"sms"`
}

func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{Email: true, SMS: false}
}

// PreferenceHolder is anything carrying an email opt-in.
type PreferenceHolder interface {
	EmailNotificationsEnabled() bool
}
