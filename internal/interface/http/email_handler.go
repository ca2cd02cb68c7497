package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/forumhq/forumhq/internal/application"
	"github.com/forumhq/forumhq/pkg/mailer"
	"github.com/forumhq/forumhq/pkg/response"
	"github.com/forumhq/forumhq/pkg/validation"
)

// EmailHandler enqueues ad-hoc email jobs (admin tooling).
type EmailHandler struct {
	Pub    application.Publisher
	Logger *logrus.Logger
}

func NewEmailHandler(pub application.Publisher, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Pub: pub, Logger: logger}
}

type sendEmailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
	Subject  string         `json:"subject"`
	Text     string         `json:"text"`
	HTML     string         `json:"html"`
}

// Send enqueues an email job to RabbitMQ.
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.Template == "" && (req.Subject == "" || (req.Text == "" && req.HTML == "")) {
		response.Error[any](c, http.StatusBadRequest, "either template or subject with a body is required", nil)
		return
	}
	if h.Pub == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "mail queue not configured", nil)
		return
	}

	job := mailer.EmailJob{
		To:       req.To,
		Subject:  req.Subject,
		Text:     req.Text,
		HTML:     req.HTML,
		Template: req.Template,
		Data:     req.Data,
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("to", req.To).Error("email enqueue failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to enqueue email", nil)
		return
	}
	response.Success[any](c, http.StatusAccepted, map[string]any{"queued": true}, "email queued", nil)
}
