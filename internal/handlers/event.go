package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamproductions/eventernote-report/internal/apierror"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/service"
)

type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// GetUserEvents handles GET /api/v1/events/user/:userId
// Query params:
//   - details: also scrape every event page (slow, default false)
func (h *EventHandler) GetUserEvents(c *gin.Context) {
	userID := c.Param("userId")
	ctx := withUser(c, userID)

	withDetails, err := optionalBool(c, "details")
	if err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "details", Message: "must be a boolean value", Code: "invalid_type"},
		}))
		return
	}

	result, err := h.eventService.GetUserEvents(ctx, userID, service.EventsOptions{WithDetails: withDetails})
	if err != nil {
		writeServiceError(c, err, "user", userID)
		return
	}

	logger.Ctx(ctx).Debug("Returning user events",
		logger.Int("count", result.TotalCount),
		logger.Bool("cached", result.Cached),
	)

	c.JSON(http.StatusOK, result)
}

// GetEvent handles GET /api/v1/events/:eventId
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	details, err := h.eventService.GetEventDetails(c.Request.Context(), eventID)
	if err != nil {
		writeServiceError(c, err, "event", eventID)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, details)
}

// GetFavoriteArtists handles GET /api/v1/favorite-artists/user/:userId
func (h *EventHandler) GetFavoriteArtists(c *gin.Context) {
	userID := c.Param("userId")
	ctx := withUser(c, userID)

	artists, err := h.eventService.GetFavoriteArtists(ctx, userID)
	if err != nil {
		writeServiceError(c, err, "user", userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artists":    artists,
		"totalCount": len(artists),
	})
}
