package model

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusAccepted  AppointmentStatus = "Accepted"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusAccepted,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	Base
	PatientID uuid.UUID         `json:"patientId" db:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctorId" db:"doctor_id"`
	Disease   string            `json:"disease" db:"disease"`
	Specialty string            `json:"specialty" db:"specialty"`
	Date      string            `json:"date" db:"date"`
	Time      string            `json:"time" db:"time"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Notes     string            `json:"notes" db:"notes"`
}

// AppointmentView adds display names for listings.
type AppointmentView struct {
	*Appointment
	DoctorName  string `json:"doctorName"`
	PatientName string `json:"patientName"`
}

type AppointmentFilter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
}

type CreateAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctorId" binding:"required"`
	Disease   string    `json:"disease" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	Time      string    `json:"time" binding:"required"`
	Specialty string    `json:"specialty"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,appointment_status"`
}
