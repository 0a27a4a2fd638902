package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/internal/service/notification"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

const fallbackAdminName = "An administrator"

// UpdateStatus moves an appointment to any status. Only admins and the
// appointment's own doctor may do so. Rejected calls neither write nor notify.
func (s *Service) UpdateStatus(ctx context.Context, actor model.Actor, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.BadRequest("invalid status", nil)
	}
	if !actor.Is(model.RoleAdmin) && !actor.Is(model.RoleDoctor) {
		return nil, apperrors.Forbidden("not authorized to update appointment status")
	}

	apt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(model.RoleDoctor) {
		if err := s.ownedByDoctor(ctx, actor, apt); err != nil {
			return nil, err
		}
	}

	previous := apt.Status
	if err := s.repo.UpdateStatus(ctx, apt.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to update appointment status: %w", err))
	}
	apt.Status = status
	apt.Touch()

	s.logger.Info().
		Str("appointment_id", apt.ID.String()).
		Str("from", string(previous)).
		Str("to", string(status)).
		Str("actor_role", string(actor.Role)).
		Msg("appointment status changed")

	s.notifyTransition(ctx, actor, apt, previous)
	return apt, nil
}

func (s *Service) notifyTransition(ctx context.Context, actor model.Actor, apt *model.Appointment, previous model.AppointmentStatus) {
	if !transitionNotifies(previous, apt.Status) {
		return
	}

	doctor, err := s.doctors.Get(ctx, apt.DoctorID)
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", apt.ID.String()).Msg("skipping notification, doctor profile unavailable")
		return
	}
	parties := s.parties(ctx, apt, doctor.UserID)

	switch apt.Status {
	case model.AppointmentStatusAccepted:
		s.notifier.AppointmentAccepted(ctx, parties)
	case model.AppointmentStatusCompleted:
		s.notifier.AppointmentCompleted(ctx, parties)
	case model.AppointmentStatusCancelled:
		by, name := s.canceller(ctx, actor, parties)
		s.notifier.AppointmentCancelled(ctx, parties, by, name)
	}
}

// transitionNotifies reports whether moving from previous to next emits a notification.
func transitionNotifies(previous, next model.AppointmentStatus) bool {
	switch next {
	case model.AppointmentStatusAccepted:
		return previous == model.AppointmentStatusPending
	case model.AppointmentStatusCompleted, model.AppointmentStatusCancelled:
		return true
	}
	return false
}

func (s *Service) canceller(ctx context.Context, actor model.Actor, parties notification.AppointmentParties) (notification.CancelledBy, string) {
	if actor.Is(model.RoleDoctor) {
		return notification.CancelledByDoctor, "Dr. " + parties.DoctorName
	}
	if name := s.dir.UserName(ctx, actor.UserID); name != "" {
		return notification.CancelledByAdmin, name
	}
	return notification.CancelledByAdmin, fallbackAdminName
}
