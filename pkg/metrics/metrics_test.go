package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("medibook", reg)

	m.NotificationsCreated.WithLabelValues("appointment_booked").Inc()
	m.NotificationEmails.WithLabelValues(EmailSent).Inc()
	m.NotificationEmails.WithLabelValues(EmailSent).Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsCreated.WithLabelValues("appointment_booked")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.NotificationEmails.WithLabelValues(EmailSent)))

	// a second registry accepts the same names
	assert.NotPanics(t, func() { NewMetrics("medibook", prometheus.NewRegistry()) })
}
