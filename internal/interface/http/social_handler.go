package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forumhq/internal/application"
	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/pkg/response"
)

// SocialHandler serves the follow graph.
type SocialHandler struct {
	Svc *application.SocialService
}

func NewSocialHandler(svc *application.SocialService) *SocialHandler {
	return &SocialHandler{Svc: svc}
}

func userSummaries(users []entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, gin.H{
			"id":         u.ID,
			"login":      u.Login,
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"tagline":    u.Tagline,
		})
	}
	return out
}

func (h *SocialHandler) Follow(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.Follow(uid, c.Param("id")); err != nil {
		status := http.StatusBadRequest
		if err == application.ErrUserNotFound {
			status = http.StatusNotFound
		}
		response.Error[any](c, status, "failed to follow", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"following": true}, "followed", nil)
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.Unfollow(uid, c.Param("id")); err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to unfollow", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"following": false}, "unfollowed", nil)
}

func (h *SocialHandler) Following(c *gin.Context) {
	users, err := h.Svc.Following(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list following", nil)
		return
	}
	response.Success(c, http.StatusOK, userSummaries(users), "following", nil)
}

func (h *SocialHandler) Followers(c *gin.Context) {
	users, err := h.Svc.Followers(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list followers", nil)
		return
	}
	response.Success(c, http.StatusOK, userSummaries(users), "followers", nil)
}

func nodeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid node id", nil)
		return 0, false
	}
	return id, true
}

func (h *SocialHandler) FollowNode(c *gin.Context) {
	uid := c.GetString("userID")
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.FollowNode(uid, id); err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to follow node", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"following": true}, "node followed", nil)
}

func (h *SocialHandler) UnfollowNode(c *gin.Context) {
	uid := c.GetString("userID")
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.UnfollowNode(uid, id); err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to unfollow node", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"following": false}, "node unfollowed", nil)
}

func (h *SocialHandler) FollowingNodes(c *gin.Context) {
	uid := c.GetString("userID")
	nodes, err := h.Svc.FollowingNodes(uid)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list nodes", nil)
		return
	}
	out := make([]gin.H, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, gin.H{"id": n.ID, "name": n.Name, "summary": n.Summary})
	}
	response.Success(c, http.StatusOK, out, "following nodes", nil)
}
