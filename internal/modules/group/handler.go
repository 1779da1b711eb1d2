package group

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"covoit/internal/domain"
	"covoit/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/groups")
	{
		g.POST("", h.CreateGroup)
		g.GET("", h.ListMyGroups)
		g.GET("/:id", h.GetGroup)
		g.POST("/:id/members", h.AddMember)
		g.DELETE("/:id/members/:userID", h.RemoveMember)
		g.DELETE("/:id", h.DeleteGroup)
	}
}

func actor(c *gin.Context) (int64, bool) {
	return c.GetInt64("user_id"), c.GetString("role") == string(domain.RoleAdmin)
}

func (h *Handler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	g, err := h.service.CreateGroup(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeGroupError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group": g})
}

func (h *Handler) ListMyGroups(c *gin.Context) {
	groups, err := h.service.ListMyGroups(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list groups")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"groups": groups})
}

func (h *Handler) GetGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, isAdmin := actor(c)
	g, err := h.service.GetGroup(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		writeGroupError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": g})
}

func (h *Handler) AddMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	g, err := h.service.AddMember(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		writeGroupError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": g})
}

func (h *Handler) RemoveMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	g, err := h.service.RemoveMember(c.Request.Context(), id, c.GetInt64("user_id"), memberID)
	if err != nil {
		writeGroupError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": g})
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, isAdmin := actor(c)
	if err := h.service.DeleteGroup(c.Request.Context(), id, userID, isAdmin); err != nil {
		writeGroupError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func writeGroupError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Group not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the group's creator may do this")
	case ErrUserNotFound:
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "No user with this email")
	case ErrCreatorLeaves:
		response.Error(c, http.StatusBadRequest, "CREATOR_LEAVES", "The creator cannot be removed")
	case ErrNotMember:
		response.Error(c, http.StatusNotFound, "NOT_MEMBER", "User is not a member of this group")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
