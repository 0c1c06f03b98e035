package contacts

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	StatusTrial   = "trial"
	StatusActive  = "active"
	StatusChurned = "churned"
)

type CreateContactRequest struct {
	FirstName string     `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string     `json:"lastName" validate:"required,min=1,max=100"`
	Email     string     `json:"email" validate:"required,email,max=254"`
	Phone     string     `json:"phone" validate:"max=50"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
	Company   string     `json:"company" validate:"required_without=CompanyID,max=200"`
	Status    string     `json:"status" validate:"omitempty,oneof=trial active churned"`
	MRR       float64    `json:"mrr" validate:"min=0"`
}

// OptionalUUID distinguishes an absent companyId from an explicit null.
type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

type UpdateContactRequest struct {
	FirstName *string      `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string      `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string      `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     *string      `json:"phone,omitempty" validate:"omitempty,max=50"`
	CompanyID OptionalUUID `json:"companyId,omitempty"`
	Company   *string      `json:"company,omitempty" validate:"omitempty,max=200"`
	Status    *string      `json:"status,omitempty" validate:"omitempty,oneof=trial active churned"`
	MRR       *float64     `json:"mrr,omitempty" validate:"omitempty,min=0"`
}

type ListContactsRequest struct {
	CompanyID string `form:"companyId" validate:"omitempty,uuid"`
	Status    string `form:"status" validate:"omitempty,oneof=trial active churned"`
	Search    string `form:"search" validate:"max=100"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ContactResponse struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
	Company   string     `json:"company"`
	Status    string     `json:"status"`
	MRR       float64    `json:"mrr"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ContactListResponse struct {
	Items    []ContactResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

func toContactResponse(c Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		CompanyID: c.CompanyID,
		Company:   c.CompanyName,
		Status:    c.Status,
		MRR:       c.MRR,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
