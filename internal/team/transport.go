package team

import (
	"time"

	"github.com/google/uuid"
)

type CreateMemberRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Territory string `json:"territory" validate:"max=100"`
}

type UpdateMemberRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Territory *string `json:"territory,omitempty" validate:"omitempty,max=100"`
	Position  *int    `json:"position,omitempty" validate:"omitempty,min=0"`
	Active    *bool   `json:"active,omitempty"`
}

type ListMembersRequest struct {
	Territory       string `form:"territory" validate:"max=100"`
	IncludeInactive bool   `form:"includeInactive"`
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Territory string    `json:"territory"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MemberListResponse struct {
	Items []MemberResponse `json:"items"`
	Total int              `json:"total"`
}

type WorkloadEntry struct {
	MemberID      uuid.UUID `json:"memberId"`
	Name          string    `json:"name"`
	Territory     string    `json:"territory"`
	AssignedLeads int       `json:"assignedLeads"`
}

type WorkloadResponse struct {
	Items []WorkloadEntry `json:"items"`
}

func toMemberResponse(m Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Territory: m.Territory,
		Position:  m.Position,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
