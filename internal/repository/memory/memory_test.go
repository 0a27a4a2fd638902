package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

func TestUserEmailIsUniqueCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "Jane", Email: "Jane@Example.com", Role: model.RolePatient}))
	err := repo.Create(ctx, &model.User{Name: "Other", Email: " jane@example.com", Role: model.RoleDoctor})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, err := repo.GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
}

func TestUserListFiltersByRole(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &model.User{Email: "a@x.io", Role: model.RoleAdmin}))
	require.NoError(t, repo.Create(ctx, &model.User{Email: "d@x.io", Role: model.RoleDoctor}))

	doctors, err := repo.List(ctx, model.UserFilter{Role: model.RoleDoctor})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "d@x.io", doctors[0].Email)

	assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), false), repository.ErrNotFound)
}

func TestUserDeleteFreesEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := &model.User{Name: "Jane", Email: "jane@x.io", Role: model.RoleDoctor}
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err := repo.Get(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), repository.ErrNotFound)

	require.NoError(t, repo.Create(ctx, &model.User{Name: "Jane", Email: "JANE@x.io", Role: model.RoleDoctor}))
}

func TestDoctorOnePerUser(t *testing.T) {
	ctx := context.Background()
	repo := NewDoctorRepository()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, model.NewDoctorProfile(userID, "ENT", "", "")))
	assert.ErrorIs(t, repo.Create(ctx, model.NewDoctorProfile(userID, "ENT", "", "")), repository.ErrDuplicate)
}

func TestDoctorReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewDoctorRepository()
	d := model.NewDoctorProfile(uuid.New(), "ENT", "", "")
	require.NoError(t, repo.Create(ctx, d))

	got, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	got.Availability[model.Monday] = model.DaySchedule{On: true}

	again, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, again.Availability[model.Monday].On)
}

func TestNotificationListIsNewestFirstAndLimited(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()
	userID := uuid.New()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		n := &model.Notification{
			Base:   model.Base{CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			UserID: userID,
			Type:   model.NotificationAppointmentBooked,
			Title:  "t",
		}
		require.NoError(t, repo.Create(ctx, n))
	}
	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: uuid.New(), Title: "other"}))

	list, err := repo.ListByUser(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	count, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	require.NoError(t, repo.MarkRead(ctx, list[0].ID))
	count, _ = repo.CountUnread(ctx, userID)
	assert.EqualValues(t, 4, count)

	require.NoError(t, repo.MarkAllRead(ctx, userID))
	count, _ = repo.CountUnread(ctx, userID)
	assert.Zero(t, count)
}

func TestAppointmentUpdateStatusMissing(t *testing.T) {
	repo := NewAppointmentRepository()
	err := repo.UpdateStatus(context.Background(), uuid.New(), model.AppointmentStatusAccepted)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
