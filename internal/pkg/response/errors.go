package response

import (
	"errors"
	"net/http"

	"foodgram/internal/domain"

	"github.com/gin-gonic/gin"
)

// FromError maps domain errors onto the error envelope. Anything unknown is
// attached to the context for the error logger and reported as a 500.
func FromError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), gin.H{ve.Field: ve.Message})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrConflict):
		Error(c, http.StatusBadRequest, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
