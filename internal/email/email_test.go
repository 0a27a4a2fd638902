package email

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func testConfig() Config {
	return Config{From: "noreply@medibook.com", FromName: "MediBook"}
}

func TestSMTPMailerSend(t *testing.T) {
	d := &fakeDialer{}
	m := newSMTPMailer(d, testConfig(), zerolog.Nop())

	require.NoError(t, m.Send(context.Background(), "pat@x.io", "Appointment Booked", "<p>hi</p>"))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"Appointment Booked"}, d.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"pat@x.io"}, d.sent[0].GetHeader("To"))
	assert.Contains(t, d.sent[0].GetHeader("From")[0], "noreply@medibook.com")
}

func TestSMTPMailerOpensBreakerAfterRepeatedFailures(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	m := newSMTPMailer(d, testConfig(), zerolog.Nop())

	for i := 0; i < 5; i++ {
		assert.Error(t, m.Send(context.Background(), "a@x.io", "s", "b"))
	}

	err := m.Send(context.Background(), "a@x.io", "s", "b")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestSMTPMailerHonoursCancelledContext(t *testing.T) {
	d := &fakeDialer{}
	m := newSMTPMailer(d, testConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, "a@x.io", "s", "b"), context.Canceled)
	assert.Empty(t, d.sent)
}

func TestDisabledMailer(t *testing.T) {
	assert.ErrorIs(t, Disabled{}.Send(context.Background(), "a", "b", "c"), ErrMailerDisabled)
}

func TestRenderNotification(t *testing.T) {
	r := NewRenderer("http://localhost:5173/")

	html, err := r.Render("Appointment Confirmed", "Dr. House has accepted your appointment on 2026-02-15 at 11:00 AM.")
	require.NoError(t, err)

	assert.Contains(t, html, "<h2 style=\"color: #2563eb;\">Appointment Confirmed</h2>")
	assert.Contains(t, html, "Dr. House has accepted your appointment")
	assert.Contains(t, html, `href="http://localhost:5173/notifications"`)
	assert.Contains(t, html, "This is an automated notification from MediBook.")
}

func TestRenderEscapesMessage(t *testing.T) {
	html, err := NewRenderer("http://app").Render("t", "<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
