package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"covoit/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/bookings")
	{
		g.POST("", h.CreateBooking)
		g.GET("/mine", h.GetMyBookings)
		g.POST("/:id/accept", h.AcceptBooking)
		g.POST("/:id/reject", h.RejectBooking)
		g.POST("/:id/cancel", h.CancelBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	offset := parseIntDefault(c.Query("offset"), 0)
	limit := parseIntDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	bookings, total, err := h.service.GetMyBookings(c.Request.Context(), c.GetInt64("user_id"), offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	response.Paginated(c, http.StatusOK, bookings, offset, limit, total)
}

func (h *Handler) AcceptBooking(c *gin.Context) {
	h.answer(c, true)
}

func (h *Handler) RejectBooking(c *gin.Context) {
	h.answer(c, false)
}

func (h *Handler) answer(c *gin.Context, accept bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var b any
	if accept {
		b, err = h.service.AcceptBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	} else {
		b, err = h.service.RejectBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	}
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func writeBookingError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or travel not found")
	case ErrInvalidOperation:
		response.Error(c, http.StatusBadRequest, "INVALID_OPERATION", "Drivers cannot book their own travel")
	case ErrInvalidSteps:
		response.Error(c, http.StatusBadRequest, "INVALID_STEPS", "Steps do not form a valid segment of this travel")
	case ErrTooSoon:
		response.Error(c, http.StatusBadRequest, "TOO_SOON", "Too close to departure")
	case ErrConflict:
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "An overlapping booking already exists")
	case ErrNoSeats:
		response.Error(c, http.StatusConflict, "NO_SEATS", "No seats left on this segment")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the travel's driver may do this")
	case ErrInvalidState:
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Booking is not pending")
	case ErrAlreadyTerminal:
		response.Error(c, http.StatusConflict, "ALREADY_TERMINAL", "Booking already cancelled or rejected")
	case ErrTravelClosed:
		response.Error(c, http.StatusConflict, "TRAVEL_CLOSED", "Travel is not open")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return def
	}
	return v
}
