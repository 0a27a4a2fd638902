package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
	apperrors "github.com/jwalitptl/medibook-api/pkg/errors"
	"github.com/jwalitptl/medibook-api/pkg/messaging"
)

func (s *service) List(ctx context.Context, actor model.Actor) ([]*model.Notification, error) {
	list, err := s.repo.ListByUser(ctx, actor.UserID, ListLimit)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list notifications: %w", err))
	}
	return list, nil
}

func (s *service) UnreadCount(ctx context.Context, actor model.Actor) (int64, error) {
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, apperrors.Internal(fmt.Errorf("failed to count notifications: %w", err))
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("notification", err)
		}
		return nil, apperrors.Internal(err)
	}
	if n.UserID != actor.UserID {
		return nil, apperrors.Forbidden("not authorized")
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to mark notification read: %w", err))
	}
	n.Read = true
	return n, nil
}

func (s *service) MarkAllRead(ctx context.Context, actor model.Actor) error {
	if err := s.repo.MarkAllRead(ctx, actor.UserID); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to mark notifications read: %w", err))
	}
	return nil
}

// Subscribe streams the caller's relay channel until ctx ends.
func (s *service) Subscribe(ctx context.Context, actor model.Actor) (<-chan []byte, error) {
	if s.broker == nil {
		return nil, apperrors.Internal(errors.New("notification relay not configured"))
	}
	ch, err := s.broker.Subscribe(ctx, messaging.UserChannel(actor.UserID))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to subscribe: %w", err))
	}
	return ch, nil
}
