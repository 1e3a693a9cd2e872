package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/service"
	"github.com/Promise30/Event-Management-System-sub000/pkg/middleware"
	"github.com/Promise30/Event-Management-System-sub000/pkg/response"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /events - creates an event (Organizer only)
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok || organizerID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), organizerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.FromEvent(event)))
}

// Get handles GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromEvent(event)))
}

// CreateTicketType handles POST /events/:id/ticket-types (Organizer only)
func (h *EventHandler) CreateTicketType(c *gin.Context) {
	var req dto.CreateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	tt, err := h.eventService.CreateTicketType(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.FromTicketType(tt)))
}

// ListTicketTypes handles GET /events/:id/ticket-types
func (h *EventHandler) ListTicketTypes(c *gin.Context) {
	types, err := h.eventService.ListTicketTypes(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	typeResponses := make([]*dto.TicketTypeResponse, len(types))
	for i, tt := range types {
		typeResponses[i] = dto.FromTicketType(tt)
	}

	c.JSON(http.StatusOK, response.Success(typeResponses))
}
