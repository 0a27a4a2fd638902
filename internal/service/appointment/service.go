package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/internal/service/directory"
	"github.com/jwalitptl/medibook-api/internal/service/notification"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

// Notifier is the part of the notification service appointments drive.
type Notifier interface {
	AppointmentBooked(ctx context.Context, a notification.AppointmentParties)
	AppointmentAccepted(ctx context.Context, a notification.AppointmentParties)
	AppointmentCompleted(ctx context.Context, a notification.AppointmentParties)
	AppointmentCancelled(ctx context.Context, a notification.AppointmentParties, by notification.CancelledBy, actorName string)
}

type Service struct {
	repo     repository.AppointmentRepository
	doctors  repository.DoctorRepository
	dir      *directory.Directory
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, users repository.UserRepository, doctors repository.DoctorRepository, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		doctors:  doctors,
		dir:      directory.New(users, doctors),
		notifier: notifier,
		logger:   logger.With().Str("component", "appointment").Logger(),
	}
}

// Book creates a Pending appointment for the calling patient against an Enabled doctor.
func (s *Service) Book(ctx context.Context, actor model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !actor.Is(model.RolePatient) {
		return nil, apperrors.Forbidden("only patients can book appointments")
	}
	if err := validateBooking(req); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	// An unknown doctor reads the same as one that is not Enabled.
	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadRequest("doctor is not available", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get doctor: %w", err))
	}
	if doctor.Status != model.DoctorStatusEnabled {
		return nil, apperrors.BadRequest("doctor is not available", nil)
	}

	specialty := strings.TrimSpace(req.Specialty)
	if specialty == "" {
		specialty = doctor.Specialty
	}

	apt := &model.Appointment{
		PatientID: actor.UserID,
		DoctorID:  doctor.ID,
		Disease:   strings.TrimSpace(req.Disease),
		Specialty: specialty,
		Date:      strings.TrimSpace(req.Date),
		Time:      strings.TrimSpace(req.Time),
		Status:    model.AppointmentStatusPending,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create appointment: %w", err))
	}

	s.logger.Info().
		Str("appointment_id", apt.ID.String()).
		Str("doctor_id", doctor.ID.String()).
		Msg("appointment booked")

	parties := s.parties(ctx, apt, doctor.UserID)
	s.notifier.AppointmentBooked(ctx, parties)

	return apt, nil
}

func validateBooking(req *model.CreateAppointmentRequest) error {
	switch {
	case req == nil:
		return errors.New("invalid request body")
	case req.DoctorID == uuid.Nil:
		return errors.New("doctorId is required")
	case strings.TrimSpace(req.Disease) == "":
		return errors.New("disease is required")
	case strings.TrimSpace(req.Date) == "":
		return errors.New("date is required")
	case strings.TrimSpace(req.Time) == "":
		return errors.New("time is required")
	}
	return nil
}

// List returns the appointments visible to the actor, newest first.
func (s *Service) List(ctx context.Context, actor model.Actor, status model.AppointmentStatus) ([]*model.AppointmentView, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.BadRequest("invalid status", nil)
	}
	filter := model.AppointmentFilter{Status: status}

	switch actor.Role {
	case model.RolePatient:
		filter.PatientID = actor.UserID
	case model.RoleDoctor:
		profile, err := s.dir.ProfileOf(ctx, actor.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return []*model.AppointmentView{}, nil
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		filter.DoctorID = profile.ID
	case model.RoleAdmin:
	default:
		return nil, apperrors.Forbidden("")
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list appointments: %w", err))
	}

	names := s.dir.Names()
	views := make([]*model.AppointmentView, 0, len(list))
	for _, apt := range list {
		views = append(views, &model.AppointmentView{
			Appointment: apt,
			DoctorName:  names.Doctor(ctx, apt.DoctorID),
			PatientName: names.User(ctx, apt.PatientID),
		})
	}
	return views, nil
}

// Get returns one appointment to an admin or to one of its parties.
func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.AppointmentView, error) {
	apt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RolePatient:
		if apt.PatientID != actor.UserID {
			return nil, apperrors.Forbidden("not authorized")
		}
	case model.RoleDoctor:
		if err := s.ownedByDoctor(ctx, actor, apt); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.Forbidden("not authorized")
	}

	return &model.AppointmentView{
		Appointment: apt,
		DoctorName:  s.dir.DoctorName(ctx, apt.DoctorID),
		PatientName: s.dir.UserName(ctx, apt.PatientID),
	}, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get appointment: %w", err))
	}
	return apt, nil
}

// ownedByDoctor fails with 403 unless the actor's profile is the appointment's doctor.
func (s *Service) ownedByDoctor(ctx context.Context, actor model.Actor, apt *model.Appointment) error {
	profile, err := s.dir.ProfileOf(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.Forbidden("not authorized")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	if profile.ID != apt.DoctorID {
		return apperrors.Forbidden("not authorized")
	}
	return nil
}

func (s *Service) parties(ctx context.Context, apt *model.Appointment, doctorUserID uuid.UUID) notification.AppointmentParties {
	return notification.AppointmentParties{
		AppointmentID: apt.ID,
		PatientID:     apt.PatientID,
		DoctorUserID:  doctorUserID,
		PatientName:   s.dir.UserName(ctx, apt.PatientID),
		DoctorName:    s.dir.UserName(ctx, doctorUserID),
		Date:          apt.Date,
		Time:          apt.Time,
		Disease:       apt.Disease,
	}
}
