package inapp

import (
	"context"

	"crm_backend/internal/notification/sse"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// Pusher delivers a persisted notification to connected clients.
type Pusher interface {
	Publish(userID uuid.UUID, event sse.Event)
	Broadcast(event sse.Event)
}

type Service struct {
	store Store
	push  Pusher
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// SetPusher injects the SSE service.
func (s *Service) SetPusher(p Pusher) {
	s.push = p
}

type SendParams struct {
	// UserID is the recipient; nil addresses the whole team.
	UserID       *uuid.UUID
	Type         string
	Title        string
	Message      string
	ResourceType string
	ResourceID   *uuid.UUID
}

// Send persists the notification and pushes it over SSE.
func (s *Service) Send(ctx context.Context, p SendParams) (Notification, error) {
	if s == nil || s.store == nil {
		return Notification{}, apperr.Internal("in-app notification service not configured")
	}

	var resourceType *string
	if p.ResourceType != "" {
		resourceType = &p.ResourceType
	}

	notif, err := s.store.Create(ctx, CreateParams{
		UserID:       p.UserID,
		Type:         p.Type,
		Title:        p.Title,
		Message:      p.Message,
		ResourceType: resourceType,
		ResourceID:   p.ResourceID,
	})
	if err != nil {
		s.log.Error("failed to persist in-app notification", "error", err, "type", p.Type)
		return Notification{}, err
	}

	if s.push != nil {
		event := sse.Event{Type: sse.EventNotification, Message: notif.Title, Data: notif}
		if notif.UserID != nil {
			s.push.Publish(*notif.UserID, event)
		} else {
			s.push.Broadcast(event)
		}
	}
	return notif, nil
}

// Page is a normalized inbox page.
type Page struct {
	Number int
	Size   int
}

// NormalizePage clamps paging input: page starts at 1, size defaults to 50
// and is capped at 100.
func NormalizePage(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Page{Number: page, Size: size}
}

// List pages through the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, int, error) {
	p := NormalizePage(page, pageSize)
	return s.store.List(ctx, userID, p.Size, (p.Number-1)*p.Size)
}

func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.Delete(ctx, userID, id)
}
