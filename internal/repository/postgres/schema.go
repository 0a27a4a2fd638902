package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	role           TEXT NOT NULL,
	email_verified BOOLEAN NOT NULL DEFAULT FALSE,
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_role ON users (role);

CREATE TABLE IF NOT EXISTS doctors (
	id             UUID PRIMARY KEY,
	user_id        UUID NOT NULL UNIQUE REFERENCES users (id),
	specialty      TEXT NOT NULL,
	license_number TEXT NOT NULL DEFAULT '',
	experience     INTEGER NOT NULL DEFAULT 0,
	phone          TEXT NOT NULL DEFAULT '',
	bio            TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'Pending',
	availability   JSONB NOT NULL DEFAULT '{}',
	notifications  JSONB NOT NULL DEFAULT '{"email": true, "sms": false}',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_doctors_specialty_status ON doctors (specialty, status);

CREATE TABLE IF NOT EXISTS patients (
	id                UUID PRIMARY KEY,
	user_id           UUID NOT NULL UNIQUE REFERENCES users (id),
	dob               TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	address           TEXT NOT NULL DEFAULT '',
	emergency_contact JSONB NOT NULL DEFAULT '{}',
	notifications     JSONB NOT NULL DEFAULT '{"email": true, "sms": false}',
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id         UUID PRIMARY KEY,
	patient_id UUID NOT NULL REFERENCES users (id),
	doctor_id  UUID NOT NULL REFERENCES doctors (id),
	disease    TEXT NOT NULL,
	specialty  TEXT NOT NULL DEFAULT '',
	date       TEXT NOT NULL,
	time       TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'Pending',
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id);
CREATE INDEX IF NOT EXISTS idx_appointments_doctor ON appointments (doctor_id);

CREATE TABLE IF NOT EXISTS prescriptions (
	id         UUID PRIMARY KEY,
	doctor_id  UUID NOT NULL REFERENCES doctors (id),
	patient_id UUID NOT NULL REFERENCES users (id),
	medicines  JSONB NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions (patient_id);
CREATE INDEX IF NOT EXISTS idx_prescriptions_doctor ON prescriptions (doctor_id);

CREATE TABLE IF NOT EXISTS notifications (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users (id),
	type       TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	read       BOOLEAN NOT NULL DEFAULT FALSE,
	email_sent BOOLEAN NOT NULL DEFAULT FALSE,
	related_id UUID,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications (user_id, created_at DESC);
`

// Migrate applies the schema; every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
