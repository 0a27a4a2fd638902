package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

// PreferenceSource resolves the delivery preferences of a user of one role.
type PreferenceSource interface {
	PreferencesFor(ctx context.Context, userID uuid.UUID) (model.PreferenceHolder, error)
}

type PreferenceSourceFunc func(ctx context.Context, userID uuid.UUID) (model.PreferenceHolder, error)

func (f PreferenceSourceFunc) PreferencesFor(ctx context.Context, userID uuid.UUID) (model.PreferenceHolder, error) {
	return f(ctx, userID)
}

func DoctorPreferences(repo repository.DoctorRepository) PreferenceSource {
	return PreferenceSourceFunc(func(ctx context.Context, userID uuid.UUID) (model.PreferenceHolder, error) {
		profile, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return profile, nil
	})
}

func PatientPreferences(repo repository.PatientRepository) PreferenceSource {
	return PreferenceSourceFunc(func(ctx context.Context, userID uuid.UUID) (model.PreferenceHolder, error) {
		profile, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return profile, nil
	})
}

// ProfilePreferences keys the doctor and patient profile stores by role. Admins have no source.
func ProfilePreferences(doctors repository.DoctorRepository, patients repository.PatientRepository) map[model.Role]PreferenceSource {
	return map[model.Role]PreferenceSource{
		model.RoleDoctor:  DoctorPreferences(doctors),
		model.RolePatient: PatientPreferences(patients),
	}
}
