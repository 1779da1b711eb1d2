package admin

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

// RegisterRoutes mounts the admin surface; the caller wraps the group with
// the admin-only middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/admin")
	{
		g.GET("/users", h.ListUsers)
		g.POST("/users/:id/ban", h.BanUser)
		g.POST("/users/:id/unban", h.UnbanUser)
		g.DELETE("/users/:id", h.DeleteUser)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	offset := parseIntDefault(c.Query("offset"), 0)
	limit := parseIntDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	response.Paginated(c, http.StatusOK, users, offset, limit, total)
}

func (h *Handler) BanUser(c *gin.Context) {
	h.setBanned(c, true)
}

func (h *Handler) UnbanUser(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *Handler) setBanned(c *gin.Context, banned bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	u, err := h.service.SetBanned(c.Request.Context(), c.GetInt64("user_id"), id, banned)
	if err != nil {
		writeAdminError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		writeAdminError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

func writeAdminError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case ErrSelfAction:
		response.Error(c, http.StatusBadRequest, "SELF_ACTION", "You cannot target your own account")
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
