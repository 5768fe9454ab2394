package server

import (
	"errors"
	"net/http"

	approvaldomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/approval/domain"
	auditdomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/domain"
	ratedomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate/domain"
	registrydomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/scheduler"
	"github.com/gin-gonic/gin"
)

var ErrInvalidRequest = errors.New("invalid_request")

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware converts the last handler error into a JSON
// response. Handlers push errors with AbortWithError and never write error
// bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, approvaldomain.ErrInvalidPayload),
		errors.Is(err, approvaldomain.ErrUnknownEntityType),
		errors.Is(err, approvaldomain.ErrUnknownActionType),
		errors.Is(err, approvaldomain.ErrUnknownDecision),
		errors.Is(err, approvaldomain.ErrUnsupportedAction),
		errors.Is(err, approvaldomain.ErrMissingEntityID),
		errors.Is(err, approvaldomain.ErrUnroutableRole),
		errors.Is(err, approvaldomain.ErrInvalidAcquiredAt),
		errors.Is(err, approvaldomain.ErrNoSubdivideTargets),
		errors.Is(err, ratedomain.ErrInvalidRateType),
		errors.Is(err, ratedomain.ErrInvalidEffectiveWindow),
		errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, approvaldomain.ErrForbiddenApprover):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "checker role cannot decide this request",
		}
	case errors.Is(err, approvaldomain.ErrDuplicatePending),
		errors.Is(err, approvaldomain.ErrAlreadyDecided):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, approvaldomain.ErrRequestNotFound),
		errors.Is(err, registrydomain.ErrParcelNotFound),
		errors.Is(err, registrydomain.ErrLeaseNotFound),
		errors.Is(err, registrydomain.ErrEncumbranceNotFound),
		errors.Is(err, scheduler.ErrUnknownTask):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, registrydomain.ErrParcelRetired):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unprocessable",
			Message: err.Error(),
		}
	case errors.Is(err, ratedomain.ErrNoActiveRate):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "no_active_rate",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}
