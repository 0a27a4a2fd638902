package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

const DefaultListTTL = 30 * time.Second

// Notifier is the part of the notification service doctor approval drives.
type Notifier interface {
	DoctorEnabled(ctx context.Context, doctorUserID uuid.UUID)
}

type Service struct {
	repo     repository.DoctorRepository
	users    repository.UserRepository
	notifier Notifier
	cache    *cache.Cache
	logger   zerolog.Logger
}

func NewService(repo repository.DoctorRepository, users repository.UserRepository, notifier Notifier, listTTL time.Duration, logger zerolog.Logger) *Service {
	if listTTL <= 0 {
		listTTL = DefaultListTTL
	}
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		cache:    cache.New(listTTL, 2*listTTL),
		logger:   logger.With().Str("component", "doctor").Logger(),
	}
}

func listKey(filter model.DoctorFilter) string {
	return fmt.Sprintf("doctors:%s:%s", filter.Specialty, filter.Status)
}

// List returns doctor profiles joined with their user summaries. Results are
// cached per filter until the TTL lapses or any doctor is mutated.
func (s *Service) List(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorWithUser, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.BadRequest("invalid status", nil)
	}

	key := listKey(filter)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.DoctorWithUser), nil
	}

	profiles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list doctors: %w", err))
	}

	out := make([]*model.DoctorWithUser, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, s.withUser(ctx, p))
	}
	s.cache.SetDefault(key, out)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DoctorWithUser, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withUser(ctx, p), nil
}

// GetMyProfile returns the calling doctor's own profile.
func (s *Service) GetMyProfile(ctx context.Context, actor model.Actor) (*model.DoctorWithUser, error) {
	if !actor.Is(model.RoleDoctor) {
		return nil, apperrors.Forbidden("")
	}
	p, err := s.repo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor profile", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get doctor profile: %w", err))
	}
	return s.withUser(ctx, p), nil
}

// UpdateAvailability merges the given days into the owner's weekly schedule.
func (s *Service) UpdateAvailability(ctx context.Context, actor model.Actor, id uuid.UUID, availability model.Availability) (*model.DoctorProfile, error) {
	if len(availability) == 0 {
		return nil, apperrors.BadRequest("availability is required", nil)
	}
	if err := availability.Validate(); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	p.Availability = p.Availability.Merge(availability)
	if err := s.repo.UpdateAvailability(ctx, p.ID, p.Availability); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update availability: %w", err))
	}
	p.Touch()
	s.cache.Flush()
	return p, nil
}

// UpdateProfile applies the owner's edits to contact, bio and notification settings.
func (s *Service) UpdateProfile(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.DoctorProfile, error) {
	if req == nil {
		return nil, apperrors.BadRequest("invalid request body", nil)
	}
	if req.Experience != nil && *req.Experience < 0 {
		return nil, apperrors.BadRequest("experience must not be negative", nil)
	}

	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update doctor profile: %w", err))
	}
	s.cache.Flush()
	return p, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get doctor: %w", err))
	}
	return p, nil
}

func (s *Service) owned(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.DoctorProfile, error) {
	if !actor.Is(model.RoleDoctor) {
		return nil, apperrors.Forbidden("not authorized")
	}
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor.UserID {
		return nil, apperrors.Forbidden("not authorized")
	}
	return p, nil
}

func (s *Service) withUser(ctx context.Context, p *model.DoctorProfile) *model.DoctorWithUser {
	out := &model.DoctorWithUser{DoctorProfile: p}
	u, err := s.users.Get(ctx, p.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("doctor_id", p.ID.String()).Msg("doctor profile without user")
		return out
	}
	out.User = u.Summary()
	return out
}

// InvalidateList drops cached listings, for profiles written outside this service.
func (s *Service) InvalidateList() {
	s.cache.Flush()
}
