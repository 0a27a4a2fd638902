package model

import (
	"github.com/google/uuid"
)

type EmergencyContact struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
}

type PatientProfile struct {
	Base
	UserID           uuid.UUID         `json:"userId" db:"user_id"`
	DOB              string            `json:"dob" db:"dob"`
	Phone            string            `json:"phone" db:"phone"`
	Address          string            `json:"address" db:"address"`
	EmergencyContact EmergencyContact  `json:"emergencyContact" db:"emergency_contact"`
	Notifications    NotificationPrefs `json:"notifications" db:"notifications"`
}

func (p *PatientProfile) EmailNotificationsEnabled() bool {
	return p.Notifications.Email
}

func NewPatientProfile(userID uuid.UUID, phone string) *PatientProfile {
	return &PatientProfile{
		Base:          NewBase(),
		UserID:        userID,
		Phone:         phone,
		Notifications: DefaultNotificationPrefs(),
	}
}

// PatientWithUser is a profile joined with its identity summary.
type PatientWithUser struct {
	*PatientProfile
	User *UserSummary `json:"user,omitempty"`
}

type UpdatePatientRequest struct {
	DOB              *string            `json:"dob"`
	Phone            *string            `json:"phone"`
	Address          *string            `json:"address"`
	EmergencyContact *EmergencyContact  `json:"emergencyContact"`
	Notifications    *NotificationPrefs `json:"notifications"`
}

// Apply copies the non-nil fields onto the profile.
func (r *UpdatePatientRequest) Apply(p *PatientProfile) {
	if r.DOB != nil {
		p.DOB = *r.DOB
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.EmergencyContact != nil {
		p.EmergencyContact = *r.EmergencyContact
	}
	if r.Notifications != nil {
		p.Notifications = *r.Notifications
	}
}
