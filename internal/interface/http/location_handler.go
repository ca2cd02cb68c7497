package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forumhq/internal/application"
	"github.com/forumhq/forumhq/pkg/response"
)

// LocationHandler serves the materialized location-popularity report.
type LocationHandler struct {
	Svc   *application.LocationService
	Limit int
}

func NewLocationHandler(svc *application.LocationService, limit int) *LocationHandler {
	return &LocationHandler{Svc: svc, Limit: limit}
}

func (h *LocationHandler) HotLocations(c *gin.Context) {
	limit := h.Limit
	if q := c.Query("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	ranks, err := h.Svc.TopLocations(limit)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load locations", nil)
		return
	}
	out := make([]gin.H, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, gin.H{
			"location":      r.Location,
			"user_count":    r.UserCount,
			"sample_logins": r.SampleLogins,
		})
	}
	response.Success(c, http.StatusOK, out, "hot locations", nil)
}
