package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Medicine struct {
	Name      string `json:"name" bson:"name" binding:"required"`
	Dosage    string `json:"dosage" bson:"dosage"`
	Frequency string `json:"frequency" bson:"frequency"`
	Duration  string `json:"duration" bson:"duration"`
}

type Medicines []Medicine

// Validate requires at least one medicine and a name on each.
func (m Medicines) Validate() error {
	if len(m) == 0 {
		return errors.New("at least one medicine is required")
	}
	for _, med := range m {
		if strings.TrimSpace(med.Name) == "" {
			return errors.New("medicine name is required")
		}
	}
	return nil
}

// Prescription is immutable once issued.
type Prescription struct {
	Base
	DoctorID  uuid.UUID `json:"doctorId" db:"doctor_id"`
	PatientID uuid.UUID `json:"patientId" db:"patient_id"`
	Medicines Medicines `json:"medicines" db:"medicines"`
	Notes     string    `json:"notes" db:"notes"`
}

type PrescriptionView struct {
	*Prescription
	DoctorName  string `json:"doctorName"`
	PatientName string `json:"patientName"`
}

type PrescriptionFilter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
}

type CreatePrescriptionRequest struct {
	PatientID uuid.UUID `json:"patientId" binding:"required"`
	Medicines Medicines `json:"medicines" binding:"required,min=1,dive"`
	Notes     string    `json:"notes"`
}
