package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

// UpdateStatus lets an admin move a doctor profile to any status. Approval
// (anything to Enabled) notifies the doctor.
func (s *Service) UpdateStatus(ctx context.Context, actor model.Actor, id uuid.UUID, status model.DoctorStatus) (*model.DoctorProfile, error) {
	if !status.Valid() {
		return nil, apperrors.BadRequest("invalid status", nil)
	}
	if !actor.Is(model.RoleAdmin) {
		return nil, apperrors.Forbidden("only admins can change doctor status")
	}

	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := p.Status
	if err := s.repo.UpdateStatus(ctx, p.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to update doctor status: %w", err))
	}
	p.Status = status
	p.Touch()
	s.cache.Flush()

	s.logger.Info().
		Str("doctor_id", p.ID.String()).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("doctor status changed")

	if previous != model.DoctorStatusEnabled && status == model.DoctorStatusEnabled {
		s.notifier.DoctorEnabled(ctx, p.UserID)
	}
	return p, nil
}
