package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/service"
	"github.com/Promise30/Event-Management-System-sub000/pkg/response"
)

// handleError maps service and domain errors to API error responses.
// Unrecognized errors become opaque 500s so internals never leak.
func handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(verr.Reason))
		return
	}

	var code, message string
	switch {
	case errors.Is(err, domain.ErrVenueNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrTicketTypeNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		code = response.ErrCodeNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrVenueConflict):
		code = response.ErrCodeVenueConflict
		message = err.Error()
	case errors.Is(err, domain.ErrInventoryExhausted):
		code = response.ErrCodeInventoryExhausted
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		code = response.ErrCodeInvalidTransition
		message = err.Error()
	case errors.Is(err, domain.ErrPaymentInitFailed):
		code = response.ErrCodePaymentFailed
		message = err.Error()
	case errors.Is(err, domain.ErrNotOwner):
		code = response.ErrCodeForbidden
		message = err.Error()
	case errors.Is(err, domain.ErrVenueInactive),
		errors.Is(err, domain.ErrEventEnded),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidCapacity):
		code = response.ErrCodeValidationFailed
		message = err.Error()
	case errors.Is(err, domain.ErrPaymentAlreadyExists):
		code = response.ErrCodeDuplicateEntry
		message = err.Error()
	default:
		code = response.ErrCodeInternalError
		message = "Something went wrong"
	}

	c.JSON(response.GetHTTPStatus(code), response.Error(code, message))
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
