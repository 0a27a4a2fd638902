package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

type Service struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

func NewService(repo repository.UserRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "user").Logger(),
	}
}

// List returns all users, optionally narrowed to one role. Admin only.
func (s *Service) List(ctx context.Context, actor model.Actor, filter model.UserFilter) ([]*model.User, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, apperrors.Forbidden("")
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.BadRequest("invalid role", nil)
	}

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}

// SetActive activates or deactivates an account. Deactivated users cannot log in.
func (s *Service) SetActive(ctx context.Context, actor model.Actor, id uuid.UUID, active bool) (*model.User, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, apperrors.Forbidden("")
	}
	if id == actor.UserID && !active {
		return nil, apperrors.BadRequest("you cannot deactivate your own account", nil)
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to update user status: %w", err))
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}

	s.logger.Info().Str("user_id", id.String()).Bool("active", active).Msg("user status changed")
	return u, nil
}
