package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("lead not found"), http.StatusNotFound},
		{Validation("probability must be between 0 and 100"), http.StatusBadRequest},
		{ExternalCall("record store call failed", errors.New("conn refused")), http.StatusBadGateway},
		{Conflict("lead already converted"), http.StatusConflict},
		{Unauthorized("unauthorized"), http.StatusUnauthorized},
		{Internal("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("%q: expected %d, got %d", tc.err.Message, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrappedErrors(t *testing.T) {
	base := NotFound("deal not found").WithOp("deals.service.get")
	wrapped := fmt.Errorf("move deal: %w", base)

	if GetKind(wrapped) != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", GetKind(wrapped))
	}
	if !Is(wrapped, KindNotFound) {
		t.Fatal("expected Is to match KindNotFound")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain errors to report KindUnknown")
	}
}

func TestErrorMessageIncludesOpAndCause(t *testing.T) {
	err := ExternalCall("create deal failed", errors.New("timeout")).WithOp("deals.repository.create")
	want := "deals.repository.create: create deal failed: timeout"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
