// Package directory resolves the display names and doctor profiles that
// appointment and prescription views are decorated with.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

type Directory struct {
	users   repository.UserRepository
	doctors repository.DoctorRepository
}

func New(users repository.UserRepository, doctors repository.DoctorRepository) *Directory {
	return &Directory{users: users, doctors: doctors}
}

// UserName returns the user's name, or "" when the user cannot be loaded.
func (d *Directory) UserName(ctx context.Context, userID uuid.UUID) string {
	u, err := d.users.Get(ctx, userID)
	if err != nil {
		return ""
	}
	return u.Name
}

// DoctorName returns the name of the user behind a doctor profile.
func (d *Directory) DoctorName(ctx context.Context, profileID uuid.UUID) string {
	p, err := d.doctors.Get(ctx, profileID)
	if err != nil {
		return ""
	}
	return d.UserName(ctx, p.UserID)
}

// ProfileOf returns the doctor profile owned by a doctor user.
// repository.ErrNotFound is passed through unwrapped.
func (d *Directory) ProfileOf(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	p, err := d.doctors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return p, nil
}

// Names memoizes lookups across one listing.
type Names struct {
	dir     *Directory
	users   map[uuid.UUID]string
	doctors map[uuid.UUID]string
}

func (d *Directory) Names() *Names {
	return &Names{
		dir:     d,
		users:   make(map[uuid.UUID]string),
		doctors: make(map[uuid.UUID]string),
	}
}

func (n *Names) User(ctx context.Context, userID uuid.UUID) string {
	if name, ok := n.users[userID]; ok {
		return name
	}
	name := n.dir.UserName(ctx, userID)
	n.users[userID] = name
	return name
}

func (n *Names) Doctor(ctx context.Context, profileID uuid.UUID) string {
	if name, ok := n.doctors[profileID]; ok {
		return name
	}
	name := n.dir.DoctorName(ctx, profileID)
	n.doctors[profileID] = name
	return name
}
