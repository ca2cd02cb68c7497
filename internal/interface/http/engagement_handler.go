package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forumhq/internal/application"
	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/pkg/response"
	"github.com/forumhq/forumhq/pkg/validation"
)

// EngagementHandler serves topic read-state, likes and notifications.
type EngagementHandler struct {
	Svc *application.EngagementService
}

func NewEngagementHandler(svc *application.EngagementService) *EngagementHandler {
	return &EngagementHandler{Svc: svc}
}

func topicIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid topic id", nil)
		return 0, false
	}
	return id, true
}

func (h *EngagementHandler) MarkTopicRead(c *gin.Context) {
	uid := c.GetString("userID")
	id, ok := topicIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.MarkTopicRead(c.Request.Context(), uid, id); err != nil {
		status := http.StatusInternalServerError
		if err == application.ErrTopicNotFound {
			status = http.StatusNotFound
		}
		response.Error[any](c, status, "failed to mark read", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"read": true}, "topic marked read", nil)
}

func (h *EngagementHandler) TopicReadState(c *gin.Context) {
	uid := c.GetString("userID")
	id, ok := topicIDParam(c)
	if !ok {
		return
	}
	read, err := h.Svc.IsTopicRead(c.Request.Context(), uid, id)
	if err != nil {
		status := http.StatusInternalServerError
		if err == application.ErrTopicNotFound {
			status = http.StatusNotFound
		}
		response.Error[any](c, status, "failed to read state", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"read": read}, "read state", nil)
}

type likeRequest struct {
	Type entity.LikeableType `json:"type" binding:"required,oneof=topic reply"`
	ID   int64               `json:"id" binding:"required"`
}

func (h *EngagementHandler) Like(c *gin.Context) {
	uid := c.GetString("userID")
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	l, err := h.Svc.Like(req.Type, req.ID, uid)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to like", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": l.ID, "type": l.LikeableType, "likeable_id": l.LikeableID}, "liked", nil)
}

func (h *EngagementHandler) Unlike(c *gin.Context) {
	uid := c.GetString("userID")
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Unlike(req.Type, req.ID, uid); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to unlike", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"liked": false}, "unliked", nil)
}

func (h *EngagementHandler) Notifications(c *gin.Context) {
	uid := c.GetString("userID")
	ns, err := h.Svc.ListNotifications(uid)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list notifications", nil)
		return
	}
	out := make([]gin.H, 0, len(ns))
	for _, n := range ns {
		out = append(out, gin.H{
			"id":         n.ID,
			"kind":       n.Kind,
			"read":       n.Read,
			"created_at": n.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "notifications", nil)
}

type readNotificationsRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

func (h *EngagementHandler) ReadNotifications(c *gin.Context) {
	uid := c.GetString("userID")
	var req readNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ReadNotifications(uid, req.IDs); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to mark notifications", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"read": len(req.IDs)}, "notifications marked read", nil)
}
