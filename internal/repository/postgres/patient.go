package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

const patientColumns = `id, user_id, dob, phone, address, emergency_contact, notifications, created_at, updated_at`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.PatientProfile) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	patient.Stamp()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.UserID,
		patient.DOB,
		patient.Phone,
		patient.Address,
		patient.EmergencyContact,
		patient.Notifications,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient profile: %w", duplicate(err))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.PatientProfile
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient profile: %w", notFound(err))
	}
	return &patient, nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE user_id = $1`

	var patient model.PatientProfile
	if err := r.db.GetContext(ctx, &patient, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get patient profile by user: %w", notFound(err))
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.PatientProfile, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at DESC`

	patients := []*model.PatientProfile{}
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.PatientProfile) error {
	query := `
		UPDATE patients
		SET dob = $1, phone = $2, address = $3, emergency_contact = $4,
			notifications = $5, updated_at = $6
		WHERE id = $7
	`

	patient.Touch()
	err := r.exec(ctx, query,
		patient.DOB,
		patient.Phone,
		patient.Address,
		patient.EmergencyContact,
		patient.Notifications,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient profile: %w", err)
	}
	return nil
}
