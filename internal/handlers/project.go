package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// ProjectHandler serves projects and their membership.
type ProjectHandler struct {
	projects    *services.ProjectService
	memberships *services.MembershipService
	tasks       *services.TaskService
	log         *zap.Logger
}

func NewProjectHandler(projects *services.ProjectService, memberships *services.MembershipService, tasks *services.TaskService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:    projects,
		memberships: memberships,
		tasks:       tasks,
		log:         log,
	}
}

// ListProjects returns the projects visible to the caller.
// Supports search and status filters.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	projects, total, err := h.projects.ListProjects(c.Request.Context(), user, services.ListProjectsInput{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		Pagination: params,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.NewPage(dto.ToProjectDTOs(projects), params, total))
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusCreated, "Project created successfully", dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.ToProjectDTO(*project))
}

// UpdateProject applies a partial update. A member_ids key replaces the
// membership; leaving it out keeps the current members.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), user, id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "Project updated successfully", dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), user, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "Project deleted successfully", nil)
}

func (h *ProjectHandler) ListMembers(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.projects.ListMembers(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.ToUserDTOs(members))
}

// AddMembers attaches users without removing existing members.
func (h *ProjectHandler) AddMembers(c *gin.Context) {
	h.changeMembers(c, "Members added successfully", h.memberships.Attach)
}

// SyncMembers replaces the membership with exactly the given users.
func (h *ProjectHandler) SyncMembers(c *gin.Context) {
	h.changeMembers(c, "Members updated successfully", h.memberships.Sync)
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.memberships.Detach(c.Request.Context(), user, id, []uint64{memberID}); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.respondMembers(c, id, "Member removed successfully")
}

func (h *ProjectHandler) changeMembers(
	c *gin.Context,
	message string,
	apply func(ctx context.Context, actor *models.User, projectID uint64, userIDs []uint64) error,
) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.MembersRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := apply(c.Request.Context(), user, id, req.UserIDs); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.respondMembers(c, id, message)
}

func (h *ProjectHandler) respondMembers(c *gin.Context, projectID uint64, message string) {
	user, _ := principal(c)
	members, err := h.projects.ListMembers(c.Request.Context(), user, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, message, dto.ToUserDTOs(members))
}

// ListProjectTasks returns one project's tasks, latest first.
func (h *ProjectHandler) ListProjectTasks(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.tasks.ListProjectTasks(c.Request.Context(), user, id, params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.NewPage(dto.ToTaskDTOs(tasks, time.Now()), params, total))
}
