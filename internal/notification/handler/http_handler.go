// Package handler serves the in-app notification inbox of the signed-in
// team member.
package handler

import (
	"net/http"

	"crm_backend/internal/notification/inapp"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid notification id"
)

// ListRequest pages through the inbox. Zero values fall back to the
// service defaults.
type ListRequest struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ListResponse struct {
	Items    []inapp.Notification `json:"items"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}

type UnreadResponse struct {
	Unread int `json:"unread"`
}

type HTTPHandler struct {
	svc *inapp.Service
	val *validator.Validator
}

func NewHTTPHandler(svc *inapp.Service, val *validator.Validator) *HTTPHandler {
	return &HTTPHandler{svc: svc, val: val}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread", h.CountUnread)
	rg.PATCH("/read-all", h.MarkAllRead)
	rg.PATCH("/:id/read", h.MarkRead)
	rg.DELETE("/:id", h.Delete)
}

// List returns the caller's notifications plus team-wide ones, newest first.
func (h *HTTPHandler) List(c *gin.Context) {
	member := httpkit.MustGetIdentity(c)
	if member == nil {
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	page := inapp.NormalizePage(req.Page, req.PageSize)
	items, total, err := h.svc.List(c.Request.Context(), member.UserID(), page.Number, page.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	if items == nil {
		items = []inapp.Notification{}
	}

	httpkit.OK(c, ListResponse{Items: items, Total: total, Page: page.Number, PageSize: page.Size})
}

func (h *HTTPHandler) CountUnread(c *gin.Context) {
	member := httpkit.MustGetIdentity(c)
	if member == nil {
		return
	}

	unread, err := h.svc.CountUnread(c.Request.Context(), member.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, UnreadResponse{Unread: unread})
}

func (h *HTTPHandler) MarkRead(c *gin.Context) {
	member, id, ok := h.target(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.MarkRead(c.Request.Context(), member, id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *HTTPHandler) MarkAllRead(c *gin.Context) {
	member := httpkit.MustGetIdentity(c)
	if member == nil {
		return
	}
	if httpkit.HandleError(c, h.svc.MarkAllRead(c.Request.Context(), member.UserID())) {
		return
	}
	httpkit.NoContent(c)
}

func (h *HTTPHandler) Delete(c *gin.Context) {
	member, id, ok := h.target(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), member, id)) {
		return
	}
	httpkit.NoContent(c)
}

// target resolves the caller and the notification id from the path.
func (h *HTTPHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	member := httpkit.MustGetIdentity(c)
	if member == nil {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, uuid.Nil, false
	}
	return member.UserID(), id, true
}
