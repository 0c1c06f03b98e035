package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm_backend/internal/deals"
	"crm_backend/internal/deals/handler"
	"crm_backend/internal/deals/service"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	val := validator.New()
	if err := deals.RegisterValidations(val); err != nil {
		t.Fatalf("register validations: %v", err)
	}

	// Requests in these tests never reach the store.
	h := handler.New(service.New(nil, nil, logger.Discard()), val)
	r := gin.New()
	h.RegisterRoutes(r.Group("/deals"))
	return r
}

func TestCreateRejectsUnknownStage(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deals", strings.NewReader(`{"title":"Acme","stage":"won","value":10}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation failed" || body.Details["stage"] != "dealstage" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestCreateRejectsProbabilityOutOfRange(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deals", strings.NewReader(`{"title":"Acme","probability":101}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "probability") {
		t.Fatalf("expected probability validation error, got %d %s", w.Code, w.Body.String())
	}
}

func TestMoveRejectsMalformedID(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/deals/not-a-uuid/stage", strings.NewReader(`{"stage":"demo"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
