package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamproductions/eventernote-report/internal/apierror"
	"github.com/hamproductions/eventernote-report/internal/service"
)

type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetArtistStats handles GET /api/v1/stats/artists/:userId
func (h *StatsHandler) GetArtistStats(c *gin.Context) {
	userID := c.Param("userId")
	ctx := withUser(c, userID)

	q, fieldErrors := parseQuery(c)
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
		return
	}

	stats, err := h.statsService.GetArtistStats(ctx, userID, q)
	if err != nil {
		writeServiceError(c, err, "user", userID)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetVenueStats handles GET /api/v1/stats/venues/:userId
func (h *StatsHandler) GetVenueStats(c *gin.Context) {
	userID := c.Param("userId")
	ctx := withUser(c, userID)

	q, fieldErrors := parseQuery(c)
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
		return
	}

	stats, err := h.statsService.GetVenueStats(ctx, userID, q)
	if err != nil {
		writeServiceError(c, err, "user", userID)
		return
	}

	c.JSON(http.StatusOK, stats)
}
