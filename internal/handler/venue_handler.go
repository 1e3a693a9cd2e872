package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/service"
	"github.com/Promise30/Event-Management-System-sub000/pkg/response"
	"github.com/Promise30/Event-Management-System-sub000/pkg/telemetry"
)

// VenueHandler handles venue-related HTTP requests
type VenueHandler struct {
	venueService service.VenueService
}

// NewVenueHandler creates a new VenueHandler
func NewVenueHandler(venueService service.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// Create handles POST /venues - creates a venue (Admin only)
func (h *VenueHandler) Create(c *gin.Context) {
	var req dto.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	venue, err := h.venueService.CreateVenue(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.FromVenue(venue)))
}

// Get handles GET /venues/:id
func (h *VenueHandler) Get(c *gin.Context) {
	venue, err := h.venueService.GetVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromVenue(venue)))
}

// List handles GET /venues
func (h *VenueHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)

	venues, total, err := h.venueService.ListVenues(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	venueResponses := make([]*dto.VenueResponse, len(venues))
	for i, venue := range venues {
		venueResponses[i] = dto.FromVenue(venue)
	}

	c.JSON(http.StatusOK, response.Paginated(venueResponses, offset/limit+1, limit, int64(total)))
}

// CheckAvailability handles POST /venues/:id/availability - reports
// whether the venue could host the requested span
func (h *VenueHandler) CheckAvailability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "venue.check_availability")
	defer span.End()

	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	result, err := h.venueService.CheckAvailability(ctx, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
