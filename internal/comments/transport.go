package comments

import (
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest targets exactly one of leadId and dealId.
type CreateCommentRequest struct {
	LeadID *uuid.UUID `json:"leadId,omitempty"`
	DealID *uuid.UUID `json:"dealId,omitempty"`
	Text   string     `json:"text" validate:"required,min=1,max=5000"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=5000"`
}

type ListCommentsRequest struct {
	LeadID string `form:"leadId" validate:"omitempty,uuid"`
	DealID string `form:"dealId" validate:"omitempty,uuid"`
}

type CommentResponse struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	DealID     *uuid.UUID `json:"dealId,omitempty"`
	AuthorID   *uuid.UUID `json:"authorId,omitempty"`
	AuthorName string     `json:"authorName"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CommentListResponse struct {
	Items []CommentResponse `json:"items"`
}

func toCommentResponse(c Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		LeadID:     c.LeadID,
		DealID:     c.DealID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
