package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crm_backend/internal/notification/handler"
	"crm_backend/internal/notification/inapp"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	items       []inapp.Notification
	limit       int
	offset      int
	markedFor   uuid.UUID
	markedID    uuid.UUID
	deleteCalls int
}

func (s *inbox) Create(context.Context, inapp.CreateParams) (inapp.Notification, error) {
	return inapp.Notification{}, nil
}

func (s *inbox) List(_ context.Context, _ uuid.UUID, limit, offset int) ([]inapp.Notification, int, error) {
	s.limit, s.offset = limit, offset
	return s.items, len(s.items), nil
}

func (s *inbox) CountUnread(context.Context, uuid.UUID) (int, error) { return 3, nil }

func (s *inbox) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	s.markedFor, s.markedID = userID, id
	return nil
}

func (s *inbox) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func (s *inbox) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	s.deleteCalls++
	return nil
}

func newRouter(store *inbox, caller *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewHTTPHandler(inapp.NewService(store, logger.Discard()), validator.New())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			c.Set(httpkit.ContextUserIDKey, *caller)
		}
		c.Next()
	})
	h.RegisterRoutes(r.Group("/notifications"))
	return r
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestListPagesAndClampsPageSize(t *testing.T) {
	me := uuid.New()
	store := &inbox{items: []inapp.Notification{{ID: uuid.New(), Title: "Status Changed"}}}
	r := newRouter(store, &me)

	w := serve(r, http.MethodGet, "/notifications?page=3&pageSize=20")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, store.limit)
	assert.Equal(t, 40, store.offset)

	var body handler.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Page)
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Items, 1)

	w = serve(r, http.MethodGet, "/notifications?pageSize=500")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDefaultsToFiftyAndEmptyItems(t *testing.T) {
	me := uuid.New()
	store := &inbox{}
	r := newRouter(store, &me)

	w := serve(r, http.MethodGet, "/notifications")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, store.limit)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"pageSize":50}`, w.Body.String())
}

func TestAnonymousCallerIsRejected(t *testing.T) {
	r := newRouter(&inbox{}, nil)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/notifications").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/notifications/unread").Code)
}

func TestMarkReadScopesToCaller(t *testing.T) {
	me := uuid.New()
	store := &inbox{}
	r := newRouter(store, &me)
	id := uuid.New()

	w := serve(r, http.MethodPatch, "/notifications/"+id.String()+"/read")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, me, store.markedFor)
	assert.Equal(t, id, store.markedID)

	w = serve(r, http.MethodDelete, "/notifications/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, store.deleteCalls)
}

func TestCountUnread(t *testing.T) {
	me := uuid.New()
	w := serve(newRouter(&inbox{}, &me), http.MethodGet, "/notifications/unread")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread":3}`, w.Body.String())
}
