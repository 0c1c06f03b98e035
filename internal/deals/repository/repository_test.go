package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateWriteErr(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"company fk", &pgconn.PgError{Code: "23503", ConstraintName: "deals_company_id_fkey"}, ErrUnknownCompany},
		{"assignee fk", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503", ConstraintName: "deals_assigned_to_fkey"}), ErrUnknownAssignee},
	}
	for _, tc := range cases {
		if got := translateWriteErr(tc.in); !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	other := &pgconn.PgError{Code: "23505"}
	if got := translateWriteErr(other); got != other {
		t.Fatalf("expected unrelated error to pass through, got %v", got)
	}
}
