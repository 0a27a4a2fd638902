package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/email"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/pkg/messaging"
	"github.com/jwalitptl/medibook-api/pkg/metrics"
)

const (
	// ListLimit caps an inbox listing.
	ListLimit = 50

	messageTypeNotification = "notification"
)

// Message is one notification addressed to one user.
type Message struct {
	RecipientID uuid.UUID
	Type        model.NotificationType
	Title       string
	Message     string
	RelatedID   *uuid.UUID
}

func (m Message) validate() error {
	switch {
	case m.RecipientID == uuid.Nil:
		return errors.New("missing recipient")
	case !m.Type.Valid():
		return fmt.Errorf("unknown notification type %q", m.Type)
	case strings.TrimSpace(m.Title) == "":
		return errors.New("missing title")
	case strings.TrimSpace(m.Message) == "":
		return errors.New("missing message")
	}
	return nil
}

type Service interface {
	// Notify persists, relays and emails a notification. Failures are logged, never returned.
	Notify(ctx context.Context, msg Message)

	AppointmentBooked(ctx context.Context, a AppointmentParties)
	AppointmentAccepted(ctx context.Context, a AppointmentParties)
	AppointmentCompleted(ctx context.Context, a AppointmentParties)
	AppointmentCancelled(ctx context.Context, a AppointmentParties, by CancelledBy, actorName string)
	PrescriptionIssued(ctx context.Context, patientID, prescriptionID uuid.UUID, doctorName string, medicineCount int)
	DoctorEnabled(ctx context.Context, doctorUserID uuid.UUID)

	List(ctx context.Context, actor model.Actor) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, actor model.Actor) (int64, error)
	MarkRead(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Notification, error)
	MarkAllRead(ctx context.Context, actor model.Actor) error
	Subscribe(ctx context.Context, actor model.Actor) (<-chan []byte, error)
}

// Renderer produces the email body for a notification.
type Renderer interface {
	Render(title, message string) (string, error)
}

type Deps struct {
	Users         repository.UserRepository
	Notifications repository.NotificationRepository
	Preferences   map[model.Role]PreferenceSource
	Mailer        email.Mailer
	Renderer      Renderer
	Broker        messaging.Broker
	Metrics       *metrics.Metrics
	Logger        zerolog.Logger
}

type service struct {
	users    repository.UserRepository
	repo     repository.NotificationRepository
	prefs    map[model.Role]PreferenceSource
	mailer   email.Mailer
	renderer Renderer
	broker   messaging.Broker
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewService(deps Deps) Service {
	mailer := deps.Mailer
	if mailer == nil {
		mailer = email.Disabled{}
	}
	return &service{
		users:    deps.Users,
		repo:     deps.Notifications,
		prefs:    deps.Preferences,
		mailer:   mailer,
		renderer: deps.Renderer,
		broker:   deps.Broker,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With().Str("component", "notification").Logger(),
	}
}

func (s *service) Notify(ctx context.Context, msg Message) {
	logger := s.logger.With().
		Str("recipient_id", msg.RecipientID.String()).
		Str("type", string(msg.Type)).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("notification dispatch panicked")
		}
	}()

	if err := msg.validate(); err != nil {
		logger.Warn().Err(err).Msg("dropping invalid notification")
		return
	}

	recipient, err := s.users.Get(ctx, msg.RecipientID)
	if err != nil {
		logger.Warn().Err(err).Msg("dropping notification for unknown recipient")
		return
	}

	n := &model.Notification{
		UserID:    recipient.ID,
		Type:      msg.Type,
		Title:     msg.Title,
		Message:   msg.Message,
		RelatedID: msg.RelatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Error().Err(err).Msg("failed to create notification")
		return
	}
	if s.metrics != nil {
		s.metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	}

	s.publish(ctx, n, logger)

	if !s.emailEnabled(ctx, recipient, logger) {
		s.countEmail(metrics.EmailSkipped)
		return
	}
	s.sendEmail(ctx, recipient, n, logger)
}

func (s *service) publish(ctx context.Context, n *model.Notification, logger zerolog.Logger) {
	if s.broker == nil {
		return
	}
	err := s.broker.Publish(ctx, messaging.UserChannel(n.UserID), messaging.Message{
		Type:    messageTypeNotification,
		Payload: n,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to publish notification")
	}
}

func (s *service) emailEnabled(ctx context.Context, recipient *model.User, logger zerolog.Logger) bool {
	source, ok := s.prefs[recipient.Role]
	if !ok || source == nil {
		return true
	}

	holder, err := source.PreferencesFor(ctx, recipient.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Warn().Err(err).Msg("failed to load notification preferences")
		}
		return true
	}
	if holder == nil {
		return true
	}
	return holder.EmailNotificationsEnabled()
}

func (s *service) sendEmail(ctx context.Context, recipient *model.User, n *model.Notification, logger zerolog.Logger) {
	if s.renderer == nil {
		s.countEmail(metrics.EmailDisabled)
		return
	}

	html, err := s.renderer.Render(n.Title, n.Message)
	if err != nil {
		logger.Error().Err(err).Msg("failed to render notification email")
		s.countEmail(metrics.EmailFailed)
		return
	}

	if err := s.mailer.Send(ctx, recipient.Email, n.Title, html); err != nil {
		if errors.Is(err, email.ErrMailerDisabled) {
			s.countEmail(metrics.EmailDisabled)
			return
		}
		logger.Error().Err(err).Msg("failed to send notification email")
		s.countEmail(metrics.EmailFailed)
		return
	}

	if err := s.repo.MarkEmailSent(ctx, n.ID); err != nil {
		logger.Error().Err(err).Str("notification_id", n.ID.String()).Msg("failed to mark email sent")
	}
	s.countEmail(metrics.EmailSent)
}

func (s *service) countEmail(result string) {
	if s.metrics != nil {
		s.metrics.NotificationEmails.WithLabelValues(result).Inc()
	}
}
