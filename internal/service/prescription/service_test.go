package prescription

import (
	"context"
	"testing"

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

func (m *mockNotifier) PrescriptionIssued(ctx context.Context, patientID, prescriptionID uuid.UUID, doctorName string, medicineCount int) {
	m.Called(ctx, patientID, prescriptionID, doctorName, medicineCount)
}

func addUser(t *testing.T, store *repository.Store, role model.Role, name string) model.Actor {
	t.Helper()
	u := &model.User{Name: name, Email: uuid.NewString() + "@x.io", Role: role, IsActive: true}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return model.Actor{UserID: u.ID, Role: role}
}

func addDoctor(t *testing.T, store *repository.Store, name string) model.Actor {
	t.Helper()
	actor := addUser(t, store, model.RoleDoctor, name)
	p := model.NewDoctorProfile(actor.UserID, "General", "", "")
	p.Status = model.DoctorStatusEnabled
	require.NoError(t, store.Doctors.Create(context.Background(), p))
	return actor
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	notifier := &mockNotifier{}
	svc := NewService(store.Prescriptions, store.Users, store.Doctors, notifier, zerolog.Nop())

	doc := addDoctor(t, store, "House")
	jane := addUser(t, store, model.RolePatient, "Jane")
	medicines := model.Medicines{
		{Name: "Paracetamol", Dosage: "500mg", Frequency: "3x daily", Duration: "5 days"},
		{Name: "ORS"},
	}

	notifier.On("PrescriptionIssued", mock.Anything, jane.UserID, mock.AnythingOfType("uuid.UUID"), "House", 2).Once()

	rx, err := svc.Create(ctx, doc, &model.CreatePrescriptionRequest{PatientID: jane.UserID, Medicines: medicines, Notes: "rest"})
	require.NoError(t, err)
	assert.Len(t, rx.Medicines, 2)
	notifier.AssertExpectations(t)

	view, err := svc.Get(ctx, jane, rx.ID)
	require.NoError(t, err)
	assert.Equal(t, "House", view.DoctorName)
	assert.Equal(t, "Jane", view.PatientName)
}

func TestCreateRejections(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	notifier := &mockNotifier{}
	svc := NewService(store.Prescriptions, store.Users, store.Doctors, notifier, zerolog.Nop())

	doc := addDoctor(t, store, "House")
	orphan := addUser(t, store, model.RoleDoctor, "No Profile")
	jane := addUser(t, store, model.RolePatient, "Jane")
	meds := model.Medicines{{Name: "Paracetamol"}}

	tests := []struct {
		name  string
		actor model.Actor
		req   *model.CreatePrescriptionRequest
		code  apperrors.ErrorCode
	}{
		{"patient caller", jane, &model.CreatePrescriptionRequest{PatientID: jane.UserID, Medicines: meds}, apperrors.ErrForbidden},
		{"no medicines", doc, &model.CreatePrescriptionRequest{PatientID: jane.UserID}, apperrors.ErrBadRequest},
		{"blank medicine", doc, &model.CreatePrescriptionRequest{PatientID: jane.UserID, Medicines: model.Medicines{{Dosage: "1"}}}, apperrors.ErrBadRequest},
		{"doctor without profile", orphan, &model.CreatePrescriptionRequest{PatientID: jane.UserID, Medicines: meds}, apperrors.ErrNotFound},
		{"unknown patient", doc, &model.CreatePrescriptionRequest{PatientID: uuid.New(), Medicines: meds}, apperrors.ErrNotFound},
		{"patient is a doctor", doc, &model.CreatePrescriptionRequest{PatientID: orphan.UserID, Medicines: meds}, apperrors.ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.actor, tt.req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}

	list, err := store.Prescriptions.List(ctx, model.PrescriptionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, notifier.Calls)
}

func TestListAndGetScoping(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	notifier := &mockNotifier{}
	notifier.On("PrescriptionIssued", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc := NewService(store.Prescriptions, store.Users, store.Doctors, notifier, zerolog.Nop())

	house := addDoctor(t, store, "House")
	wilson := addDoctor(t, store, "Wilson")
	jane := addUser(t, store, model.RolePatient, "Jane")
	bob := addUser(t, store, model.RolePatient, "Bob")
	admin := addUser(t, store, model.RoleAdmin, "Root")
	meds := model.Medicines{{Name: "Paracetamol"}}

	rx, err := svc.Create(ctx, house, &model.CreatePrescriptionRequest{PatientID: jane.UserID, Medicines: meds})
	require.NoError(t, err)
	_, err = svc.Create(ctx, wilson, &model.CreatePrescriptionRequest{PatientID: bob.UserID, Medicines: meds})
	require.NoError(t, err)

	counts := map[string]struct {
		actor model.Actor
		n     int
	}{
		"admin":  {admin, 2},
		"house":  {house, 1},
		"jane":   {jane, 1},
		"bob":    {bob, 1},
		"wilson": {wilson, 1},
	}
	for name, c := range counts {
		list, err := svc.List(ctx, c.actor)
		require.NoError(t, err, name)
		assert.Len(t, list, c.n, name)
	}

	for _, actor := range []model.Actor{bob, wilson} {
		_, err := svc.Get(ctx, actor, rx.ID)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))
	}
	for _, actor := range []model.Actor{admin, house, jane} {
		_, err := svc.Get(ctx, actor, rx.ID)
		assert.NoError(t, err)
	}

	_, err = svc.Get(ctx, admin, uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}
