package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

func TestListAndSetActive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	svc := NewService(repo, zerolog.Nop())

	admin := &model.User{Name: "Root", Email: "root@x.io", Role: model.RoleAdmin, IsActive: true}
	jane := &model.User{Name: "Jane", Email: "jane@x.io", Role: model.RolePatient, IsActive: true}
	doc := &model.User{Name: "House", Email: "house@x.io", Role: model.RoleDoctor, IsActive: true}
	for _, u := range []*model.User{admin, jane, doc} {
		require.NoError(t, repo.Create(ctx, u))
	}
	adminActor := model.Actor{UserID: admin.ID, Role: model.RoleAdmin}

	all, err := svc.List(ctx, adminActor, model.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	patients, err := svc.List(ctx, adminActor, model.UserFilter{Role: model.RolePatient})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Jane", patients[0].Name)

	_, err = svc.List(ctx, model.Actor{UserID: jane.ID, Role: model.RolePatient}, model.UserFilter{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))

	updated, err := svc.SetActive(ctx, adminActor, jane.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.SetActive(ctx, adminActor, uuid.New(), false)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	_, err = svc.SetActive(ctx, adminActor, admin.ID, false)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}
