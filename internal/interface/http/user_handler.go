package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/forumhq/forumhq/config"
	"github.com/forumhq/forumhq/internal/application"
	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/pkg/helpers"
	"github.com/forumhq/forumhq/pkg/response"
	"github.com/forumhq/forumhq/pkg/validation"
)

// UserHandler serves profiles, role checks, OAuth binding, avatar upload,
// GitHub repository listings and the admin lifecycle actions.
type UserHandler struct {
	Svc       *application.UserService
	Github    *application.GithubService
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	Cfg       *config.Config
}

func NewUserHandler(svc *application.UserService, gh *application.GithubService,
	gcs *storage.Client, gcsBucket string, logger *logrus.Logger, cfg *config.Config) *UserHandler {
	return &UserHandler{Svc: svc, Github: gh, GCS: gcs, GCSBucket: gcsBucket, Logger: logger, Cfg: cfg}
}

func profileJSON(u *entity.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"login":         u.Login,
		"email":         u.Email,
		"name":          u.Name,
		"location":      u.Location,
		"bio":           u.Bio,
		"website":       u.Website,
		"github":        u.Github,
		"github_url":    u.GithubProfileURL(),
		"tagline":       u.Tagline,
		"avatar_url":    u.AvatarURL,
		"verified":      u.Verified,
		"state":         u.State,
		"topics_count":  u.TopicsCount,
		"replies_count": u.RepliesCount,
		"likes_count":   u.LikesCount,
		"created_at":    u.CreatedAt,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	m := profileJSON(u)
	m["roles"] = rolesOf(h.Svc, u)
	response.Success(c, http.StatusOK, m, "profile", nil)
}

func rolesOf(svc *application.UserService, u *entity.User) []entity.Role {
	roles := []entity.Role{entity.RoleMember}
	if svc.HasRole(u, entity.RoleWikiEditor) {
		roles = append(roles, entity.RoleWikiEditor)
	}
	if svc.HasRole(u, entity.RoleAdmin) {
		roles = append(roles, entity.RoleAdmin)
	}
	return roles
}

func (h *UserHandler) GetByLogin(c *gin.Context) {
	u, err := h.Svc.GetByLogin(c.Param("login"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(u), "user", nil)
}

type updateProfileRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`

	Name     string `json:"name"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Website  string `json:"website" binding:"omitempty,url"`
	Github   string `json:"github"`
	Tagline  string `json:"tagline"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateWithPassword(c.Request.Context(), uid, application.UpdateWithPasswordInput{
		CurrentPassword:      req.CurrentPassword,
		NewPassword:          req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Name:                 req.Name,
		Location:             req.Location,
		Bio:                  req.Bio,
		Website:              req.Website,
		Github:               req.Github,
		Tagline:              req.Tagline,
	})
	if err != nil {
		if fe, ok := application.IsValidation(err); ok {
			response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", fe)
			return
		}
		response.Error[any](c, http.StatusBadRequest, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(u), "profile updated", nil)
}

type bindRequest struct {
	Provider string `json:"provider" binding:"required"`
	UID      string `json:"uid" binding:"required"`
}

func (h *UserHandler) Bind(c *gin.Context) {
	uid := c.GetString("userID")
	var req bindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Bind(uid, req.Provider, req.UID)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to bind provider", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":       a.ID,
		"provider": a.Provider,
		"uid":      a.UID,
	}, "provider bound", nil)
}

// Repositories lists a member's GitHub repositories; always 200 with a
// possibly empty list.
func (h *UserHandler) Repositories(c *gin.Context) {
	u, err := h.Svc.GetByLogin(c.Param("login"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	repos := h.Github.Repositories(c.Request.Context(), u)
	response.Success(c, http.StatusOK, repos, "repositories", nil)
}

func (h *UserHandler) HotUsers(c *gin.Context) {
	users, err := h.Svc.HotUsers(20)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, profileJSON(&users[i]))
	}
	response.Success(c, http.StatusOK, out, "hot users", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, 10)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "results", nil)
}

// UploadAvatar stores the uploaded image in GCS and saves its public URL.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if h.GCS == nil || h.GCSBucket == "" {
		response.Error[any](c, http.StatusServiceUnavailable, "uploads not configured", nil)
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", uid, uuid.NewString()+ext))
	url, err := helpers.UploadPublicObject(c.Request.Context(), h.GCS, h.GCSBucket, objectPath,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Error("avatar upload failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	u.AvatarURL = url
	if err := h.Svc.Repo.Update(u); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to save avatar", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

// Block is an admin action moving a user to the blocked state.
func (h *UserHandler) Block(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	if err := h.Svc.Block(c.Request.Context(), c.Param("id")); err != nil {
		status := http.StatusBadRequest
		if err == application.ErrUserNotFound {
			status = http.StatusNotFound
		}
		response.Error[any](c, status, "failed to block user", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"blocked": true}, "user blocked", nil)
}

// SoftDelete is an admin action scrubbing a user record.
func (h *UserHandler) SoftDelete(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	if err := h.Svc.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		status := http.StatusBadRequest
		if err == application.ErrUserNotFound {
			status = http.StatusNotFound
		}
		response.Error[any](c, status, "failed to delete user", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "user deleted", nil)
}

func (h *UserHandler) requireAdmin(c *gin.Context) bool {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(uid)
	if err != nil || !h.Svc.HasRole(u, entity.RoleAdmin) {
		response.Error[any](c, http.StatusForbidden, "admin required", nil)
		c.Abort()
		return false
	}
	return true
}
