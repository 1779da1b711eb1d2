package travel

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"covoit/internal/domain"
	"covoit/internal/pkg/response"
	"covoit/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/travels")
	{
		g.POST("", h.CreateTravel)
		g.GET("", h.SearchTravels)
		g.GET("/mine", h.GetMyTravels)
		g.GET("/:id", h.GetTravel)
		g.PUT("/:id", h.UpdateTravel)
		g.POST("/:id/cancel", h.CancelTravel)
		g.POST("/:id/end", h.EndTravel)
		g.GET("/:id/bookings", h.ListBookings)
	}
}

func actor(c *gin.Context) (int64, bool) {
	return c.GetInt64("user_id"), c.GetString("role") == string(domain.RoleAdmin)
}

func (h *Handler) CreateTravel(c *gin.Context) {
	var req CreateTravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.CreateTravel(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeTravelError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"travel": t})
}

func (h *Handler) SearchTravels(c *gin.Context) {
	offset := parseIntDefault(c.Query("offset"), 0)
	limit := parseIntDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	params := repository.SearchParams{
		FromCity: c.Query("from"),
		ToCity:   c.Query("to"),
		ViewerID: c.GetInt64("user_id"),
	}
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
			return
		}
		params.Date = &d
	}

	travels, total, err := h.service.Search(c.Request.Context(), params, offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search travels")
		return
	}

	response.Paginated(c, http.StatusOK, travels, offset, limit, total)
}

func (h *Handler) GetMyTravels(c *gin.Context) {
	travels, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list travels")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"travels": travels})
}

func (h *Handler) GetTravel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID, isAdmin := actor(c)
	t, err := h.service.GetTravel(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		writeTravelError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"travel": t})
}

func (h *Handler) UpdateTravel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateTravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID, isAdmin := actor(c)
	t, err := h.service.UpdateTravel(c.Request.Context(), id, userID, req, isAdmin)
	if err != nil {
		writeTravelError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"travel": t})
}

func (h *Handler) CancelTravel(c *gin.Context) {
	h.close(c, true)
}

func (h *Handler) EndTravel(c *gin.Context) {
	h.close(c, false)
}

func (h *Handler) close(c *gin.Context, cancel bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CloseTravelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	userID, isAdmin := actor(c)
	var (
		t   *domain.Travel
		err error
	)
	if cancel {
		t, err = h.service.CancelTravel(c.Request.Context(), id, userID, req.Reason, isAdmin)
	} else {
		t, err = h.service.EndTravel(c.Request.Context(), id, userID, req.Reason, isAdmin)
	}
	if err != nil {
		writeTravelError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"travel": t})
}

func (h *Handler) ListBookings(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID, isAdmin := actor(c)
	bookings, err := h.service.ListBookings(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		writeTravelError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid travel ID")
		return 0, false
	}
	return id, true
}

func writeTravelError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Travel failed validation")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Travel not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed on this travel")
	case ErrInvalidSteps:
		response.Error(c, http.StatusBadRequest, "INVALID_STEPS", "Steps must be at least two, in chronological order")
	case ErrPastDeparture:
		response.Error(c, http.StatusBadRequest, "PAST_DEPARTURE", "First step must be in the future")
	case ErrInvalidState:
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Travel is not open")
	case ErrTooSoon:
		response.Error(c, http.StatusBadRequest, "TOO_SOON", "Too close to departure")
	case ErrNotStarted:
		response.Error(c, http.StatusBadRequest, "NOT_STARTED", "Travel has not departed yet")
	case ErrTooManyPassengers:
		response.Error(c, http.StatusConflict, "TOO_MANY_PASSENGERS", "Accepted passengers exceed the new capacity")
	case ErrNotGroupMember:
		response.Error(c, http.StatusForbidden, "NOT_GROUP_MEMBER", "You are not a member of this group")
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
