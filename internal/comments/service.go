package comments

import (
	"context"
	"errors"

	"crm_backend/internal/events"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ErrLeadNotFound is returned by LeadDirectory for unknown or deleted leads.
var ErrLeadNotFound = errors.New("lead not found")

// LeadRef is what a note notification needs to know about its lead.
type LeadRef struct {
	Name       string
	AssignedTo *uuid.UUID
}

// LeadDirectory resolves the lead a comment is written on.
type LeadDirectory interface {
	LeadRef(ctx context.Context, id uuid.UUID) (LeadRef, error)
}

// AuthorDirectory resolves display names of comment authors.
type AuthorDirectory interface {
	MemberName(ctx context.Context, id uuid.UUID) (string, error)
}

type Service struct {
	store    Store
	leads    LeadDirectory
	authors  AuthorDirectory
	eventBus events.Publisher
	log      *logger.Logger
}

func NewService(store Store, leads LeadDirectory, authors AuthorDirectory, eventBus events.Publisher, log *logger.Logger) *Service {
	return &Service{store: store, leads: leads, authors: authors, eventBus: eventBus, log: log}
}

// Create stores a comment. Comments on leads publish NoteAdded.
func (s *Service) Create(ctx context.Context, authorID *uuid.UUID, req CreateCommentRequest) (CommentResponse, error) {
	if (req.LeadID == nil) == (req.DealID == nil) {
		return CommentResponse{}, apperr.Validation("exactly one of leadId and dealId is required")
	}
	text := sanitize.Text(req.Text)
	if text == "" {
		return CommentResponse{}, apperr.Validation("text is required")
	}

	var lead LeadRef
	if req.LeadID != nil {
		ref, err := s.leads.LeadRef(ctx, *req.LeadID)
		if errors.Is(err, ErrLeadNotFound) {
			return CommentResponse{}, apperr.NotFound("lead not found")
		}
		if err != nil {
			return CommentResponse{}, apperr.ExternalCall("resolve lead", err)
		}
		lead = ref
	}

	c, err := s.store.Create(ctx, CreateParams{
		LeadID:     req.LeadID,
		DealID:     req.DealID,
		AuthorID:   authorID,
		AuthorName: s.authorName(ctx, authorID),
		Text:       text,
	})
	if err != nil {
		return CommentResponse{}, s.translate(err, "create comment")
	}

	if c.LeadID != nil {
		s.eventBus.Publish(ctx, events.NoteAdded{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     *c.LeadID,
			LeadName:   lead.Name,
			CommentID:  c.ID,
			AuthorID:   authorID,
			AssignedTo: lead.AssignedTo,
		})
	}
	return toCommentResponse(c), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCommentRequest) (CommentResponse, error) {
	text := sanitize.Text(req.Text)
	if text == "" {
		return CommentResponse{}, apperr.Validation("text is required")
	}

	c, err := s.store.UpdateText(ctx, id, text)
	if err != nil {
		return CommentResponse{}, s.translate(err, "update comment")
	}
	return toCommentResponse(c), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.translate(err, "delete comment")
	}
	return nil
}

// List returns the comments of one lead or deal, newest first.
func (s *Service) List(ctx context.Context, req ListCommentsRequest) (CommentListResponse, error) {
	if (req.LeadID == "") == (req.DealID == "") {
		return CommentListResponse{}, apperr.Validation("exactly one of leadId and dealId is required")
	}

	var (
		items []Comment
		err   error
	)
	if req.LeadID != "" {
		leadID, perr := uuid.Parse(req.LeadID)
		if perr != nil {
			return CommentListResponse{}, apperr.Validation("invalid leadId")
		}
		items, err = s.store.ListByLead(ctx, leadID)
	} else {
		dealID, perr := uuid.Parse(req.DealID)
		if perr != nil {
			return CommentListResponse{}, apperr.Validation("invalid dealId")
		}
		items, err = s.store.ListByDeal(ctx, dealID)
	}
	if err != nil {
		return CommentListResponse{}, s.translate(err, "list comments")
	}

	resp := make([]CommentResponse, len(items))
	for i, c := range items {
		resp[i] = toCommentResponse(c)
	}
	return CommentListResponse{Items: resp}, nil
}

func (s *Service) authorName(ctx context.Context, authorID *uuid.UUID) string {
	if authorID == nil || s.authors == nil {
		return ""
	}
	name, err := s.authors.MemberName(ctx, *authorID)
	if err != nil {
		s.log.Warn("comment author lookup failed", "authorId", *authorID, "error", err)
		return ""
	}
	return name
}

func (s *Service) translate(err error, op string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("comment not found")
	}
	s.log.DatabaseError(op, err)
	return apperr.ExternalCall(op, err)
}
