package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

const doctorColumns = `id, user_id, specialty, license_number, experience, phone, bio,
	status, availability, notifications, created_at, updated_at`

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.DoctorProfile) error {
	query := `
		INSERT INTO doctors (` + doctorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	doctor.Stamp()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.Specialty,
		doctor.LicenseNumber,
		doctor.Experience,
		doctor.Phone,
		doctor.Bio,
		doctor.Status,
		doctor.Availability,
		doctor.Notifications,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", duplicate(err))
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	var doctor model.DoctorProfile
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", notFound(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE user_id = $1`

	var doctor model.DoctorProfile
	if err := r.db.GetContext(ctx, &doctor, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get doctor profile by user: %w", notFound(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorProfile, error) {
	query := `
		SELECT ` + doctorColumns + ` FROM doctors
		WHERE ($1 = '' OR specialty = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`

	doctors := []*model.DoctorProfile{}
	if err := r.db.SelectContext(ctx, &doctors, query, filter.Specialty, string(filter.Status)); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DoctorStatus) error {
	query := `UPDATE doctors SET status = $1, updated_at = $2 WHERE id = $3`

	if err := r.exec(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to update doctor status: %w", err)
	}
	return nil
}

func (r *doctorRepository) UpdateAvailability(ctx context.Context, id uuid.UUID, availability model.Availability) error {
	query := `UPDATE doctors SET availability = $1, updated_at = $2 WHERE id = $3`

	if err := r.exec(ctx, query, availability, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	return nil
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, doctor *model.DoctorProfile) error {
	query := `
		UPDATE doctors
		SET phone = $1, bio = $2, experience = $3, license_number = $4,
			notifications = $5, updated_at = $6
		WHERE id = $7
	`

	doctor.Touch()
	err := r.exec(ctx, query,
		doctor.Phone,
		doctor.Bio,
		doctor.Experience,
		doctor.LicenseNumber,
		doctor.Notifications,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	return nil
}
