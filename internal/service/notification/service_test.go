package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medibook-api/internal/email"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
	"github.com/jwalitptl/medibook-api/pkg/messaging"
	"github.com/jwalitptl/medibook-api/pkg/metrics"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

type fixture struct {
	store   *repository.Store
	broker  *messaging.MemoryBroker
	mailer  *mockMailer
	metrics *metrics.Metrics
	svc     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	broker := messaging.NewMemoryBroker(10)
	t.Cleanup(func() { broker.Close() })

	f := &fixture{
		store:   store,
		broker:  broker,
		mailer:  &mockMailer{},
		metrics: metrics.NewMetrics("test", prometheus.NewRegistry()),
	}
	f.svc = NewService(Deps{
		Users:         store.Users,
		Notifications: store.Notifications,
		Preferences:   ProfilePreferences(store.Doctors, store.Patients),
		Mailer:        f.mailer,
		Renderer:      email.NewRenderer("http://localhost:5173"),
		Broker:        broker,
		Metrics:       f.metrics,
		Logger:        zerolog.Nop(),
	})
	return f
}

func (f *fixture) user(t *testing.T, role model.Role, name, addr string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: addr, Role: role, IsActive: true}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) patient(t *testing.T, name, addr string, emailOn bool) *model.User {
	t.Helper()
	u := f.user(t, model.RolePatient, name, addr)
	p := model.NewPatientProfile(u.ID, "")
	p.Notifications.Email = emailOn
	require.NoError(t, f.store.Patients.Create(context.Background(), p))
	return u
}

func (f *fixture) doctor(t *testing.T, name, addr string) *model.User {
	t.Helper()
	u := f.user(t, model.RoleDoctor, name, addr)
	require.NoError(t, f.store.Doctors.Create(context.Background(), model.NewDoctorProfile(u.ID, "General", "", "")))
	return u
}

func (f *fixture) inbox(t *testing.T, userID uuid.UUID) []*model.Notification {
	t.Helper()
	list, err := f.store.Notifications.ListByUser(context.Background(), userID, 0)
	require.NoError(t, err)
	return list
}

func TestNotifyCreatesRecordAndSendsEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pat := f.patient(t, "Jane", "jane@x.io", true)

	f.mailer.On("Send", mock.Anything, "jane@x.io", "Appointment Confirmed", mock.MatchedBy(func(html string) bool {
		return strings.Contains(html, "Dr. House has accepted")
	})).Return(nil).Once()

	f.svc.Notify(ctx, Message{
		RecipientID: pat.ID,
		Type:        model.NotificationAppointmentAccepted,
		Title:       "Appointment Confirmed",
		Message:     "Dr. House has accepted your appointment on 2026-02-15 at 11:00 AM.",
	})

	list := f.inbox(t, pat.ID)
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)
	assert.True(t, list[0].EmailSent)
	f.mailer.AssertExpectations(t)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.NotificationsCreated.WithLabelValues("appointment_accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.NotificationEmails.WithLabelValues(metrics.EmailSent)))
}

func TestNotifyRespectsEmailPreference(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", false)

	f.svc.Notify(context.Background(), Message{
		RecipientID: pat.ID,
		Type:        model.NotificationAppointmentCompleted,
		Title:       "Appointment Completed",
		Message:     "done",
	})

	list := f.inbox(t, pat.ID)
	require.Len(t, list, 1)
	assert.False(t, list[0].EmailSent)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyMailFailureStillKeepsRecord(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", true)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	assert.NotPanics(t, func() {
		f.svc.Notify(context.Background(), Message{
			RecipientID: pat.ID,
			Type:        model.NotificationPrescriptionIssued,
			Title:       "New Prescription",
			Message:     "x",
		})
	})

	list := f.inbox(t, pat.ID)
	require.Len(t, list, 1)
	assert.False(t, list[0].EmailSent)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.NotificationEmails.WithLabelValues(metrics.EmailFailed)))
}

func TestNotifyWithDisabledMailer(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", true)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(email.ErrMailerDisabled)

	f.svc.Notify(context.Background(), Message{
		RecipientID: pat.ID,
		Type:        model.NotificationAppointmentBooked,
		Title:       "Appointment Booked",
		Message:     "x",
	})

	list := f.inbox(t, pat.ID)
	require.Len(t, list, 1)
	assert.False(t, list[0].EmailSent)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.NotificationEmails.WithLabelValues(metrics.EmailDisabled)))
}

func TestNotifyAdminDefaultsToEmail(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, model.RoleAdmin, "Root", "root@x.io")
	f.mailer.On("Send", mock.Anything, "root@x.io", "Account Approved", mock.Anything).Return(nil).Once()

	f.svc.Notify(context.Background(), Message{
		RecipientID: admin.ID,
		Type:        model.NotificationDoctorEnabled,
		Title:       "Account Approved",
		Message:     "x",
	})

	f.mailer.AssertExpectations(t)
	assert.True(t, f.inbox(t, admin.ID)[0].EmailSent)
}

func TestNotifyDoctorWithoutProfileDefaultsToEmail(t *testing.T) {
	f := newFixture(t)
	doc := f.user(t, model.RoleDoctor, "House", "house@x.io")
	f.mailer.On("Send", mock.Anything, "house@x.io", mock.Anything, mock.Anything).Return(nil).Once()

	f.svc.DoctorEnabled(context.Background(), doc.ID)

	f.mailer.AssertExpectations(t)
}

func TestNotifyDropsInvalidInput(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", true)

	cases := []Message{
		{RecipientID: uuid.Nil, Type: model.NotificationAppointmentBooked, Title: "t", Message: "m"},
		{RecipientID: pat.ID, Type: "appointment_rescheduled", Title: "t", Message: "m"},
		{RecipientID: pat.ID, Type: model.NotificationAppointmentBooked, Title: " ", Message: "m"},
		{RecipientID: pat.ID, Type: model.NotificationAppointmentBooked, Title: "t", Message: ""},
		{RecipientID: uuid.New(), Type: model.NotificationAppointmentBooked, Title: "t", Message: "m"},
	}
	for _, msg := range cases {
		f.svc.Notify(context.Background(), msg)
	}

	assert.Empty(t, f.inbox(t, pat.ID))
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyTwiceCreatesTwoRecords(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", false)
	msg := Message{RecipientID: pat.ID, Type: model.NotificationAppointmentBooked, Title: "t", Message: "m"}

	f.svc.Notify(context.Background(), msg)
	f.svc.Notify(context.Background(), msg)

	list := f.inbox(t, pat.ID)
	require.Len(t, list, 2)
	assert.NotEqual(t, list[0].ID, list[1].ID)
}

func TestNotifyPublishesToRecipientChannel(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := f.svc.Subscribe(ctx, model.Actor{UserID: pat.ID, Role: model.RolePatient})
	require.NoError(t, err)

	f.svc.Notify(ctx, Message{RecipientID: pat.ID, Type: model.NotificationAppointmentBooked, Title: "Appointment Booked", Message: "m"})

	select {
	case raw := <-stream:
		var msg struct {
			Type    string             `json:"type"`
			Payload model.Notification `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "notification", msg.Type)
		assert.Equal(t, "Appointment Booked", msg.Payload.Title)
		assert.Equal(t, pat.ID, msg.Payload.UserID)
	case <-time.After(time.Second):
		t.Fatal("notification not relayed")
	}
}

func TestAppointmentBookedNotifiesBothParties(t *testing.T) {
	f := newFixture(t)
	doc := f.doctor(t, "House", "house@x.io")
	pat := f.patient(t, "Jane", "jane@x.io", true)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	apptID := uuid.New()
	f.svc.AppointmentBooked(context.Background(), AppointmentParties{
		AppointmentID: apptID,
		PatientID:     pat.ID,
		DoctorUserID:  doc.ID,
		PatientName:   "Jane",
		DoctorName:    "House",
		Date:          "2026-02-15",
		Time:          "11:00 AM",
		Disease:       "Fever",
	})

	docInbox := f.inbox(t, doc.ID)
	require.Len(t, docInbox, 1)
	assert.Equal(t, "New Appointment Request", docInbox[0].Title)
	assert.Equal(t, "Jane has booked an appointment with you on 2026-02-15 at 11:00 AM for Fever.", docInbox[0].Message)
	require.NotNil(t, docInbox[0].RelatedID)
	assert.Equal(t, apptID, *docInbox[0].RelatedID)

	patInbox := f.inbox(t, pat.ID)
	require.Len(t, patInbox, 1)
	assert.Equal(t, "Appointment Booked", patInbox[0].Title)
	assert.Equal(t, "Your appointment with Dr. House on 2026-02-15 at 11:00 AM is pending confirmation.", patInbox[0].Message)
	assert.Equal(t, model.NotificationAppointmentBooked, patInbox[0].Type)

	f.mailer.AssertNumberOfCalls(t, "Send", 2)
}

func TestAppointmentCancelledGoesToOtherParty(t *testing.T) {
	f := newFixture(t)
	doc := f.doctor(t, "House", "house@x.io")
	pat := f.patient(t, "Jane", "jane@x.io", false)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	parties := AppointmentParties{
		AppointmentID: uuid.New(),
		PatientID:     pat.ID,
		DoctorUserID:  doc.ID,
		Date:          "2026-02-15",
		Time:          "11:00 AM",
	}

	f.svc.AppointmentCancelled(context.Background(), parties, CancelledByDoctor, "Dr. House")
	patInbox := f.inbox(t, pat.ID)
	require.Len(t, patInbox, 1)
	assert.Equal(t, "Dr. House has cancelled the appointment scheduled for 2026-02-15 at 11:00 AM.", patInbox[0].Message)
	assert.Empty(t, f.inbox(t, doc.ID))

	f.svc.AppointmentCancelled(context.Background(), parties, CancelledByAdmin, "Root Admin")
	docInbox := f.inbox(t, doc.ID)
	require.Len(t, docInbox, 1)
	assert.Equal(t, model.NotificationAppointmentCancelled, docInbox[0].Type)
	assert.Contains(t, docInbox[0].Message, "Root Admin has cancelled")
}

func TestPrescriptionAndDoctorEnabledMessages(t *testing.T) {
	f := newFixture(t)
	doc := f.doctor(t, "House", "house@x.io")
	pat := f.patient(t, "Jane", "jane@x.io", false)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rxID := uuid.New()
	f.svc.PrescriptionIssued(context.Background(), pat.ID, rxID, "House", 2)
	rx := f.inbox(t, pat.ID)
	require.Len(t, rx, 1)
	assert.Equal(t, "New Prescription", rx[0].Title)
	assert.Equal(t, "Dr. House has issued a prescription for you with 2 medicine(s).", rx[0].Message)
	assert.Equal(t, rxID, *rx[0].RelatedID)

	f.svc.DoctorEnabled(context.Background(), doc.ID)
	enabled := f.inbox(t, doc.ID)
	require.Len(t, enabled, 1)
	assert.Equal(t, "Account Approved", enabled[0].Title)
	assert.Nil(t, enabled[0].RelatedID)
}

func TestMarkReadChecksOwnership(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", false)
	other := f.patient(t, "Bob", "bob@x.io", false)

	f.svc.Notify(context.Background(), Message{RecipientID: pat.ID, Type: model.NotificationAppointmentBooked, Title: "t", Message: "m"})
	n := f.inbox(t, pat.ID)[0]

	_, err := f.svc.MarkRead(context.Background(), model.Actor{UserID: other.ID, Role: model.RolePatient}, n.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))

	_, err = f.svc.MarkRead(context.Background(), model.Actor{UserID: pat.ID}, uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	read, err := f.svc.MarkRead(context.Background(), model.Actor{UserID: pat.ID}, n.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	count, err := f.svc.UnreadCount(context.Background(), model.Actor{UserID: pat.ID})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListAndMarkAllRead(t *testing.T) {
	f := newFixture(t)
	pat := f.patient(t, "Jane", "jane@x.io", false)
	actor := model.Actor{UserID: pat.ID, Role: model.RolePatient}

	for i := 0; i < ListLimit+3; i++ {
		f.svc.Notify(context.Background(), Message{RecipientID: pat.ID, Type: model.NotificationAppointmentBooked, Title: "t", Message: "m"})
	}

	list, err := f.svc.List(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, list, ListLimit)

	count, err := f.svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.EqualValues(t, ListLimit+3, count)

	require.NoError(t, f.svc.MarkAllRead(context.Background(), actor))
	count, _ = f.svc.UnreadCount(context.Background(), actor)
	assert.Zero(t, count)
}
