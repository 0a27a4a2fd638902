package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/pkg/auth"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
	"github.com/jwalitptl/medibook-api/pkg/security"
)

const rollbackTimeout = 5 * time.Second

type Config struct {
	AllowAdminRegistration bool
}

// DoctorListCache is told when registration adds a doctor profile.
type DoctorListCache interface {
	InvalidateList()
}

type Service struct {
	users      repository.UserRepository
	doctors    repository.DoctorRepository
	patients   repository.PatientRepository
	hasher     security.PasswordHasher
	jwtSvc     auth.JWTService
	doctorList DoctorListCache
	cfg        Config
	logger     zerolog.Logger
}

func NewService(users repository.UserRepository, doctors repository.DoctorRepository, patients repository.PatientRepository,
	hasher security.PasswordHasher, jwtSvc auth.JWTService, doctorList DoctorListCache, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		users:      users,
		doctors:    doctors,
		patients:   patients,
		hasher:     hasher,
		jwtSvc:     jwtSvc,
		doctorList: doctorList,
		cfg:        cfg,
		logger:     logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates the identity plus its role profile and signs the caller in.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	if req.Role == model.RoleAdmin && !s.cfg.AllowAdminRegistration {
		return nil, apperrors.Forbidden("admin registration is disabled")
	}

	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}

	if err := s.createProfile(ctx, user, req); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create role profile")
		s.rollbackUser(ctx, user)
		return nil, apperrors.Internal(err)
	}
	if user.Role == model.RoleDoctor && s.doctorList != nil {
		s.doctorList.InvalidateList()
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user registered")
	return s.issue(user)
}

// CreateAdmin provisions an admin account regardless of the registration switch.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	req := &model.RegisterRequest{Name: name, Email: email, Password: password, Role: model.RoleAdmin}
	if err := validateRegistration(req); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	return s.createUser(ctx, req.Name, req.Email, req.Password, model.RoleAdmin)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.BadRequest("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("your account has been deactivated")
	}

	return s.issue(user)
}

// Me returns the caller's identity.
func (s *Service) Me(ctx context.Context, actor model.Actor) (*model.User, error) {
	user, err := s.users.Get(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

func validateRegistration(req *model.RegisterRequest) error {
	switch {
	case req == nil:
		return errors.New("invalid request body")
	case strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "":
		return errors.New("name, email, password and role are required")
	case !req.Role.Valid():
		return errors.New("role must be admin, doctor or patient")
	case req.Role == model.RoleDoctor && strings.TrimSpace(req.Specialty) == "":
		return errors.New("specialty is required for doctors")
	}
	return nil
}

func (s *Service) createUser(ctx context.Context, name, email string, password string, role model.Role) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(fmt.Errorf("failed to check email: %w", err))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.BadRequest(err.Error(), err)
		}
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to create user: %w", err))
	}
	return user, nil
}

func (s *Service) createProfile(ctx context.Context, user *model.User, req *model.RegisterRequest) error {
	switch user.Role {
	case model.RoleDoctor:
		p := model.NewDoctorProfile(user.ID, strings.TrimSpace(req.Specialty), req.LicenseNumber, req.Phone)
		if err := s.doctors.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create doctor profile: %w", err)
		}
	case model.RolePatient:
		if err := s.patients.Create(ctx, model.NewPatientProfile(user.ID, req.Phone)); err != nil {
			return fmt.Errorf("failed to create patient profile: %w", err)
		}
	}
	return nil
}

// rollbackUser removes an identity whose profile was never written, so the
// email can register again. Detached from ctx's cancellation.
func (s *Service) rollbackUser(ctx context.Context, user *model.User) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to roll back user without profile")
	}
}

func (s *Service) issue(user *model.User) (*model.AuthResponse, error) {
	token, err := s.jwtSvc.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}
