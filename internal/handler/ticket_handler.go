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

// TicketHandler handles ticket purchase HTTP requests
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Purchase handles POST /tickets - purchases one ticket
func (h *TicketHandler) Purchase(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "ticket.purchase")
	defer span.End()

	var req dto.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	attendeeID, ok := middleware.GetUserID(c)
	if !ok || attendeeID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}

	ticket, err := h.ticketService.PurchaseTicket(ctx, attendeeID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(ticket))
}

// Get handles GET /tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.ticketService.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromTicket(ticket)))
}

// Cancel handles POST /tickets/:id/cancel - cancels the caller's ticket
func (h *TicketHandler) Cancel(c *gin.Context) {
	attendeeID, ok := middleware.GetUserID(c)
	if !ok || attendeeID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}

	ticket, err := h.ticketService.CancelTicket(c.Request.Context(), c.Param("id"), attendeeID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromTicket(ticket)))
}

// CheckIn handles POST /tickets/:id/check-in (Organizer/Admin only)
func (h *TicketHandler) CheckIn(c *gin.Context) {
	ticket, err := h.ticketService.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromTicket(ticket)))
}
