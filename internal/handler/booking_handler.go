package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/service"
	"github.com/Promise30/Event-Management-System-sub000/pkg/middleware"
	"github.com/Promise30/Event-Management-System-sub000/pkg/response"
	"github.com/Promise30/Event-Management-System-sub000/pkg/telemetry"
)

// BookingHandler handles venue booking HTTP requests
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /bookings - books a venue for a span (Organizer only)
func (h *BookingHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "booking.create")
	defer span.End()

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok || organizerID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}

	booking, err := h.bookingService.CreateBooking(ctx, organizerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(booking))
}

// Get handles GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromBooking(booking)))
}

// List handles GET /bookings - lists the caller's bookings
func (h *BookingHandler) List(c *gin.Context) {
	organizerID, ok := middleware.GetUserID(c)
	if !ok || organizerID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}

	limit, offset := paginationParams(c)

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), organizerID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	bookingResponses := make([]*dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = dto.FromBooking(booking)
	}

	c.JSON(http.StatusOK, response.Paginated(bookingResponses, offset/limit+1, limit, int64(total)))
}

// Approve handles POST /bookings/:id/approve (Admin only)
func (h *BookingHandler) Approve(c *gin.Context) {
	booking, err := h.bookingService.ApproveBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromBooking(booking)))
}

// Reject handles POST /bookings/:id/reject (Admin only)
func (h *BookingHandler) Reject(c *gin.Context) {
	booking, err := h.bookingService.RejectBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromBooking(booking)))
}

// Cancel handles POST /bookings/:id/cancel - cancels the caller's booking
func (h *BookingHandler) Cancel(c *gin.Context) {
	organizerID, ok := middleware.GetUserID(c)
	if !ok || organizerID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"), organizerID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromBooking(booking)))
}
