package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/internal/service/directory"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

type Notifier interface {
	PrescriptionIssued(ctx context.Context, patientID, prescriptionID uuid.UUID, doctorName string, medicineCount int)
}

type Service struct {
	repo     repository.PrescriptionRepository
	users    repository.UserRepository
	dir      *directory.Directory
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(repo repository.PrescriptionRepository, users repository.UserRepository, doctors repository.DoctorRepository, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		dir:      directory.New(users, doctors),
		notifier: notifier,
		logger:   logger.With().Str("component", "prescription").Logger(),
	}
}

// Create issues a prescription from the calling doctor to a patient and notifies the patient.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if !actor.Is(model.RoleDoctor) {
		return nil, apperrors.Forbidden("only doctors can issue prescriptions")
	}
	if req == nil || req.PatientID == uuid.Nil {
		return nil, apperrors.BadRequest("patientId and medicines are required", nil)
	}
	if err := req.Medicines.Validate(); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	doctor, err := s.dir.ProfileOf(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor profile", err)
		}
		return nil, apperrors.Internal(err)
	}

	patient, err := s.users.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get patient: %w", err))
	}
	if patient.Role != model.RolePatient {
		return nil, apperrors.BadRequest("patientId does not belong to a patient", nil)
	}

	rx := &model.Prescription{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Medicines: req.Medicines,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, rx); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create prescription: %w", err))
	}

	s.logger.Info().
		Str("prescription_id", rx.ID.String()).
		Int("medicines", len(rx.Medicines)).
		Msg("prescription issued")

	s.notifier.PrescriptionIssued(ctx, patient.ID, rx.ID, s.dir.UserName(ctx, actor.UserID), len(rx.Medicines))
	return rx, nil
}

func (s *Service) List(ctx context.Context, actor model.Actor) ([]*model.PrescriptionView, error) {
	var filter model.PrescriptionFilter
	switch actor.Role {
	case model.RolePatient:
		filter.PatientID = actor.UserID
	case model.RoleDoctor:
		doctor, err := s.dir.ProfileOf(ctx, actor.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return []*model.PrescriptionView{}, nil
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		filter.DoctorID = doctor.ID
	case model.RoleAdmin:
	default:
		return nil, apperrors.Forbidden("")
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list prescriptions: %w", err))
	}

	names := s.dir.Names()
	views := make([]*model.PrescriptionView, 0, len(list))
	for _, rx := range list {
		views = append(views, &model.PrescriptionView{
			Prescription: rx,
			DoctorName:   names.Doctor(ctx, rx.DoctorID),
			PatientName:  names.User(ctx, rx.PatientID),
		})
	}
	return views, nil
}

// Get returns a prescription to an admin, its patient or its issuing doctor.
func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.PrescriptionView, error) {
	rx, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("prescription", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get prescription: %w", err))
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RolePatient:
		if rx.PatientID != actor.UserID {
			return nil, apperrors.Forbidden("not authorized")
		}
	case model.RoleDoctor:
		doctor, err := s.dir.ProfileOf(ctx, actor.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal(err)
		}
		if doctor == nil || doctor.ID != rx.DoctorID {
			return nil, apperrors.Forbidden("not authorized")
		}
	default:
		return nil, apperrors.Forbidden("not authorized")
	}

	return &model.PrescriptionView{
		Prescription: rx,
		DoctorName:   s.dir.DoctorName(ctx, rx.DoctorID),
		PatientName:  s.dir.UserName(ctx, rx.PatientID),
	}, nil
}
