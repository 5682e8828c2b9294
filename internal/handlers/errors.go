package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hamproductions/eventernote-report/internal/apierror"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/scraper"
	"github.com/hamproductions/eventernote-report/internal/service"
)

// writeServiceError maps a service error onto a problem response.
// resource and id name what was requested for 404 details.
func writeServiceError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, service.ErrInvalidUserID):
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "userId", Message: "must be an Eventernote user name", Code: "invalid_format"},
		}))
	case errors.Is(err, service.ErrInvalidEventID):
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "eventId", Message: "must be a numeric event ID", Code: "invalid_format"},
		}))
	case errors.Is(err, service.ErrInvalidRange):
		apierror.WriteProblem(c, apierror.NewInvalidRangeError(requestID, err.Error()))
	case errors.Is(err, scraper.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, scraper.ErrUpstream):
		logger.Ctx(c.Request.Context()).Warn("Eventernote request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewUpstreamError(requestID))
	case errors.Is(err, context.DeadlineExceeded):
		logger.Ctx(c.Request.Context()).Warn("Request timed out", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewServiceUnavailableError(requestID, 30))
	default:
		logger.Ctx(c.Request.Context()).Error("Request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}

// withUser tags the request context with the Eventernote user being served
func withUser(c *gin.Context, userID string) context.Context {
	ctx := logger.WithEventernoteUser(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)
	return ctx
}
