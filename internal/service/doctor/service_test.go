package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) DoctorEnabled(ctx context.Context, doctorUserID uuid.UUID) {
	m.Called(ctx, doctorUserID)
}

type testEnv struct {
	store    *repository.Store
	notifier *mockNotifier
	svc      *Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	n := &mockNotifier{}
	return &testEnv{
		store:    store,
		notifier: n,
		svc:      NewService(store.Doctors, store.Users, n, time.Minute, zerolog.Nop()),
	}
}

func (e *testEnv) addUser(t *testing.T, role model.Role, name string) model.Actor {
	t.Helper()
	u := &model.User{Name: name, Email: uuid.NewString() + "@x.io", Role: role, IsActive: true}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return model.Actor{UserID: u.ID, Role: role, Email: u.Email}
}

func (e *testEnv) addDoctor(t *testing.T, name, specialty string, status model.DoctorStatus) (model.Actor, *model.DoctorProfile) {
	t.Helper()
	actor := e.addUser(t, model.RoleDoctor, name)
	p := model.NewDoctorProfile(actor.UserID, specialty, "", "")
	p.Status = status
	require.NoError(t, e.store.Doctors.Create(context.Background(), p))
	return actor, p
}

func TestListJoinsUsersAndFilters(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.addDoctor(t, "House", "Diagnostics", model.DoctorStatusEnabled)
	e.addDoctor(t, "Wilson", "Oncology", model.DoctorStatusEnabled)
	e.addDoctor(t, "New", "Oncology", model.DoctorStatusPending)

	all, err := e.svc.List(ctx, model.DoctorFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, d := range all {
		require.NotNil(t, d.User)
		assert.NotEmpty(t, d.User.Name)
	}

	onc, err := e.svc.List(ctx, model.DoctorFilter{Specialty: "Oncology", Status: model.DoctorStatusEnabled})
	require.NoError(t, err)
	require.Len(t, onc, 1)
	assert.Equal(t, "Wilson", onc[0].User.Name)

	_, err = e.svc.List(ctx, model.DoctorFilter{Status: "enabled"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}

func TestListCacheFlushedOnMutation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	admin := e.addUser(t, model.RoleAdmin, "Root")
	doc, p := e.addDoctor(t, "House", "Diagnostics", model.DoctorStatusPending)
	filter := model.DoctorFilter{Status: model.DoctorStatusEnabled}

	enabled, err := e.svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	e.notifier.On("DoctorEnabled", mock.Anything, doc.UserID).Once()
	_, err = e.svc.UpdateStatus(ctx, admin, p.ID, model.DoctorStatusEnabled)
	require.NoError(t, err)

	enabled, err = e.svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, enabled, 1)

	// A write behind the service's back is masked by the cache until the next flush.
	_, late := e.addDoctor(t, "Late", "Diagnostics", model.DoctorStatusEnabled)
	enabled, _ = e.svc.List(ctx, filter)
	assert.Len(t, enabled, 1)

	lateActor := model.Actor{UserID: late.UserID, Role: model.RoleDoctor}
	_, err = e.svc.UpdateProfile(ctx, lateActor, late.ID, &model.UpdateDoctorProfileRequest{})
	require.NoError(t, err)
	enabled, _ = e.svc.List(ctx, filter)
	assert.Len(t, enabled, 2)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		from     model.DoctorStatus
		to       model.DoctorStatus
		notifies bool
	}{
		{"approve pending", model.DoctorStatusPending, model.DoctorStatusEnabled, true},
		{"re-enable disabled", model.DoctorStatusDisabled, model.DoctorStatusEnabled, true},
		{"enable enabled", model.DoctorStatusEnabled, model.DoctorStatusEnabled, false},
		{"disable", model.DoctorStatusEnabled, model.DoctorStatusDisabled, false},
		{"back to pending", model.DoctorStatusDisabled, model.DoctorStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			ctx := context.Background()
			admin := e.addUser(t, model.RoleAdmin, "Root")
			doc, p := e.addDoctor(t, "House", "Diagnostics", tt.from)
			if tt.notifies {
				e.notifier.On("DoctorEnabled", mock.Anything, doc.UserID).Once()
			}

			updated, err := e.svc.UpdateStatus(ctx, admin, p.ID, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)

			stored, err := e.store.Doctors.Get(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.to, stored.Status)

			e.notifier.AssertExpectations(t)
			if !tt.notifies {
				assert.Empty(t, e.notifier.Calls)
			}
		})
	}
}

func TestUpdateStatusRejections(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	admin := e.addUser(t, model.RoleAdmin, "Root")
	doc, p := e.addDoctor(t, "House", "Diagnostics", model.DoctorStatusPending)

	_, err := e.svc.UpdateStatus(ctx, admin, p.ID, "Active")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	_, err = e.svc.UpdateStatus(ctx, doc, p.ID, model.DoctorStatusEnabled)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))

	_, err = e.svc.UpdateStatus(ctx, admin, uuid.New(), model.DoctorStatusEnabled)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	stored, err := e.store.Doctors.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DoctorStatusPending, stored.Status)
	assert.Empty(t, e.notifier.Calls)
}

func TestUpdateAvailability(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	doc, p := e.addDoctor(t, "House", "Diagnostics", model.DoctorStatusEnabled)
	other, _ := e.addDoctor(t, "Wilson", "Oncology", model.DoctorStatusEnabled)

	update := model.Availability{model.Monday: {On: true, Slots: []string{"09:00 AM", "10:00 AM"}}}

	updated, err := e.svc.UpdateAvailability(ctx, doc, p.ID, update)
	require.NoError(t, err)
	assert.Len(t, updated.Availability, 7)
	assert.True(t, updated.Availability[model.Monday].On)
	assert.False(t, updated.Availability[model.Tuesday].On)

	stored, err := e.store.Doctors.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM", "10:00 AM"}, stored.Availability[model.Monday].Slots)

	_, err = e.svc.UpdateAvailability(ctx, other, p.ID, update)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))

	_, err = e.svc.UpdateAvailability(ctx, doc, p.ID, model.Availability{"Funday": {On: true}})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	_, err = e.svc.UpdateAvailability(ctx, doc, uuid.New(), update)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestUpdateProfileAndMyProfile(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	doc, p := e.addDoctor(t, "House", "Diagnostics", model.DoctorStatusEnabled)
	admin := e.addUser(t, model.RoleAdmin, "Root")

	bio := "Board certified"
	years := 12
	updated, err := e.svc.UpdateProfile(ctx, doc, p.ID, &model.UpdateDoctorProfileRequest{
		Bio:           &bio,
		Experience:    &years,
		Notifications: &model.NotificationPrefs{Email: false},
	})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.False(t, updated.EmailNotificationsEnabled())

	mine, err := e.svc.GetMyProfile(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 12, mine.Experience)
	assert.Equal(t, "House", mine.User.Name)

	_, err = e.svc.UpdateProfile(ctx, admin, p.ID, &model.UpdateDoctorProfileRequest{Bio: &bio})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))

	negative := -1
	_, err = e.svc.UpdateProfile(ctx, doc, p.ID, &model.UpdateDoctorProfileRequest{Experience: &negative})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	orphan := e.addUser(t, model.RoleDoctor, "No Profile")
	_, err = e.svc.GetMyProfile(ctx, orphan)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}
