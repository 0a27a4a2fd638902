package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	// UserRepository is the identity store
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context, filter model.UserFilter) ([]*model.User, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
		// Delete only undoes a registration whose profile could not be created.
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.DoctorProfile) error
		Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
		List(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorProfile, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.DoctorStatus) error
		UpdateAvailability(ctx context.Context, id uuid.UUID, availability model.Availability) error
		UpdateProfile(ctx context.Context, doctor *model.DoctorProfile) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.PatientProfile) error
		Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
		List(ctx context.Context) ([]*model.PatientProfile, error)
		Update(ctx context.Context, patient *model.PatientProfile) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		List(ctx context.Context, filter model.PrescriptionFilter) ([]*model.Prescription, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
		CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		MarkAllRead(ctx context.Context, userID uuid.UUID) error
		MarkEmailSent(ctx context.Context, id uuid.UUID) error
	}
)

// Store bundles the repositories of one backend.
type Store struct {
	Users         UserRepository
	Doctors       DoctorRepository
	Patients      PatientRepository
	Appointments  AppointmentRepository
	Prescriptions PrescriptionRepository
	Notifications NotificationRepository

	// Ping reports backend health; Close releases connections.
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}
