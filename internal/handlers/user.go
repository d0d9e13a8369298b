package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// UserHandler serves account administration. Every route is admin-only.
type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.users.ListUsers(c.Request.Context(), user, services.ListUsersInput{
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		Status:     c.Query("status"),
		Pagination: params,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.NewPage(dto.ToUserDTOs(users), params, total))
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.users.CreateUser(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusCreated, "User created successfully", dto.ToUserDTO(*created))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.users.GetUser(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.ToUserDTO(*found))
}

// UpdateUser applies a partial update; an empty password keeps the current one.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.users.UpdateUser(c.Request.Context(), user, id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "User updated successfully", dto.ToUserDTO(*updated))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), user, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) ToggleStatus(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	updated, err := h.users.ToggleStatus(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "User status updated successfully", dto.ToUserDTO(*updated))
}
