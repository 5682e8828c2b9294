package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamproductions/eventernote-report/internal/apierror"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/service"
)

type AnalyticsHandler struct {
	statsService service.StatsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(statsService service.StatsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		statsService: statsService,
	}
}

// GetAnalytics handles GET /api/v1/analytics/:userId
// limit is the number of artists drawn in the charts (default 10).
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	userID := c.Param("userId")
	ctx := withUser(c, userID)

	q, fieldErrors := parseQuery(c)
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
		return
	}

	report, err := h.statsService.GetAnalytics(ctx, userID, q)
	if err != nil {
		writeServiceError(c, err, "user", userID)
		return
	}

	log.Debug("returning analytics",
		logger.String("eventernote_user", userID),
		logger.String("preset", string(q.Preset)),
		logger.Int("events", report.EventCount),
	)

	c.Header("Cache-Control", "private, max-age=300")
	c.JSON(http.StatusOK, report)
}
