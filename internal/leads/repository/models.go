package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("lead not found")
	ErrAlreadyConverted = errors.New("lead already converted")
)

type Lead struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Title           string
	CompanyName     string
	CompanySize     string
	Industry        string
	Website         string
	Source          string
	EngagementLevel string
	Score           Score
	Status          string
	AssignedTo      *uuid.UUID
	AssignedToName  string
	Territory       string
	NextFollowUp    *time.Time
	Notes           string
	Tags            []string
	LostReason      string
	ConvertedDealID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	default:
		return l.FirstName + " " + l.LastName
	}
}

// Score is the persisted qualification score and its breakdown.
type Score struct {
	Total       int
	CompanySize int
	IndustryFit int
	Engagement  int
	BudgetFit   int
}

type CreateLeadParams struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Title           string
	CompanyName     string
	CompanySize     string
	Industry        string
	Website         string
	Source          string
	EngagementLevel string
	Score           Score
	Status          string
	NextFollowUp    *time.Time
	Notes           string
	Tags            []string
	// Owner fields are set when the lead is assigned on create.
	AssignedTo     *uuid.UUID
	AssignedToName string
	Territory      string
}

// UpdateLeadParams carries a partial update. Nil pointers leave columns
// untouched; the *Set flags allow clearing nullable columns.
type UpdateLeadParams struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	Title           *string
	CompanyName     *string
	CompanySize     *string
	Industry        *string
	Website         *string
	Source          *string
	EngagementLevel *string
	Score           *Score
	Status          *string
	LostReason      *string
	Notes           *string
	Tags            []string
	TagsSet         bool

	AssignedTo     *uuid.UUID
	AssignedToName *string
	Territory      *string
	AssignedToSet  bool

	NextFollowUp    *time.Time
	NextFollowUpSet bool
}

type ListParams struct {
	Status     *string
	Source     *string
	Territory  *string
	AssignedTo *uuid.UUID
	Search     string
	SortBy     string
	SortOrder  string
	Offset     int
	Limit      int
}

// SourceRow is the projection used by source analytics.
type SourceRow struct {
	Source string
	Score  int
	Status string
}
