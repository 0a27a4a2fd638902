package patient

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
	repo   repository.PatientRepository
	users  repository.UserRepository
	logger zerolog.Logger
}

func NewService(repo repository.PatientRepository, users repository.UserRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger.With().Str("component", "patient").Logger(),
	}
}

func (s *Service) List(ctx context.Context, actor model.Actor) ([]*model.PatientWithUser, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, apperrors.Forbidden("")
	}
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list patients: %w", err))
	}

	out := make([]*model.PatientWithUser, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, s.withUser(ctx, p))
	}
	return out, nil
}

func (s *Service) GetMyProfile(ctx context.Context, actor model.Actor) (*model.PatientWithUser, error) {
	if !actor.Is(model.RolePatient) {
		return nil, apperrors.Forbidden("")
	}
	p, err := s.repo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient profile", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get patient profile: %w", err))
	}
	return s.withUser(ctx, p), nil
}

func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.PatientWithUser, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.withUser(ctx, p), nil
}

// Update applies the owner's or an admin's edits to a patient profile.
func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdatePatientRequest) (*model.PatientProfile, error) {
	if req == nil {
		return nil, apperrors.BadRequest("invalid request body", nil)
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update patient: %w", err))
	}
	return p, nil
}

func (s *Service) owned(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.PatientProfile, error) {
	if !actor.Is(model.RoleAdmin) && !actor.Is(model.RolePatient) {
		return nil, apperrors.Forbidden("not authorized")
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get patient: %w", err))
	}
	if actor.Is(model.RolePatient) && p.UserID != actor.UserID {
		return nil, apperrors.Forbidden("not authorized")
	}
	return p, nil
}

func (s *Service) withUser(ctx context.Context, p *model.PatientProfile) *model.PatientWithUser {
	out := &model.PatientWithUser{PatientProfile: p}
	if u, err := s.users.Get(ctx, p.UserID); err == nil {
		out.User = u.Summary()
	}
	return out
}
