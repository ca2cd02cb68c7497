package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/forumhq/forumhq/config"
	"github.com/forumhq/forumhq/internal/application"
	"github.com/forumhq/forumhq/pkg/helpers"
	"github.com/forumhq/forumhq/pkg/mailer"
	"github.com/forumhq/forumhq/pkg/response"
	"github.com/forumhq/forumhq/pkg/validation"
)

// AuthHandler owns registration, login/logout and password recovery.
type AuthHandler struct {
	Svc     *application.UserService
	Cache   application.Cache
	Pub     application.Publisher
	Logger  *logrus.Logger
	Cfg     *config.Config
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.UserService, cache application.Cache, pub application.Publisher,
	logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Svc:     svc,
		Cache:   cache,
		Pub:     pub,
		Logger:  logger,
		Cfg:     cfg,
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

func keyResetToken(t string) string { return "pwd:reset:token:" + t }

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type registerRequest struct {
	Login    string `json:"login" binding:"required,login"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Login:    req.Login,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		if fe, ok := application.IsValidation(err); ok {
			response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", fe)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to register", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":    u.ID,
		"login": u.Login,
		"email": u.Email,
	}, "registered", nil)
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"` // login or email
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Login, req.Password, clientIP(c))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful",
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed",
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetInit issues a reset token and enqueues the recovery mail. The
// response is identical whether or not the email exists.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ctx := c.Request.Context()
	u, err := h.Svc.FindForAuthentication(req.Email)
	if err == nil {
		token, terr := genToken(32)
		if terr == nil {
			ttl := 30 * time.Minute
			if cerr := h.Cache.Set(ctx, keyResetToken(token), u.ID, ttl); cerr == nil && h.Pub != nil {
				expires := time.Now().Add(ttl).UTC()
				job := mailer.EmailJob{
					To:       u.Email,
					Template: "password_reset",
					Data: map[string]any{
						"Name":          u.Name,
						"Login":         u.Login,
						"ResetURL":      h.Cfg.SiteURL + "/reset-password?token=" + token,
						"ExpiresAtText": expires.Format("02 January 2006, 15:04 MST"),
						"IP":            clientIP(c),
					},
				}
				if perr := h.Pub.PublishJSON(ctx, job); perr != nil && h.Logger != nil {
					h.Logger.WithError(perr).WithField("user_id", u.ID).Warn("reset mail enqueue failed")
				}
			}
		}
	}

	response.Success[any](c, http.StatusOK, map[string]any{"sent": true},
		"if the address exists, a reset email has been sent", nil)
}

type resetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ctx := c.Request.Context()
	userID, ok, err := h.Cache.Get(ctx, keyResetToken(req.Token))
	if err != nil || !ok {
		response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
		return
	}
	if err := h.Svc.ResetPassword(ctx, userID, req.Password); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to reset password", nil)
		return
	}
	_ = h.Cache.Del(ctx, keyResetToken(req.Token))
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password updated", nil)
}
