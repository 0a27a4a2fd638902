package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

const prescriptionColumns = `id, doctor_id, patient_id, medicines, notes, created_at, updated_at`

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(base BaseRepository) repository.PrescriptionRepository {
	return &prescriptionRepository{base}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (` + prescriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	prescription.Stamp()

	_, err := r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.DoctorID,
		prescription.PatientID,
		prescription.Medicines,
		prescription.Notes,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1`

	var prescription model.Prescription
	if err := r.db.GetContext(ctx, &prescription, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", notFound(err))
	}
	return &prescription, nil
}

func (r *prescriptionRepository) List(ctx context.Context, filter model.PrescriptionFilter) ([]*model.Prescription, error) {
	query := `
		SELECT ` + prescriptionColumns + ` FROM prescriptions
		WHERE ($1::uuid IS NULL OR patient_id = $1)
		  AND ($2::uuid IS NULL OR doctor_id = $2)
		ORDER BY created_at DESC
	`

	prescriptions := []*model.Prescription{}
	err := r.db.SelectContext(ctx, &prescriptions, query,
		nullableID(filter.PatientID),
		nullableID(filter.DoctorID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}
