package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/validation"
)

type TaskHandler struct {
	tasks *services.TaskService
	log   *zap.Logger
}

func NewTaskHandler(tasks *services.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
		log:   log,
	}
}

// ListTasks returns the tasks visible to the current user.
// Can filter by search, status, priority, project_id and assigned_to.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	errs := validation.Errors{}
	projectID := queryID(c, errs, "project_id")
	assignedTo := queryID(c, errs, "assigned_to")
	if len(errs) > 0 {
		apierrors.ValidationFailed(c, msgInvalidData, errs)
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.tasks.ListTasks(c.Request.Context(), user, services.ListTasksInput{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		ProjectID:  projectID,
		AssignedTo: assignedTo,
		Pagination: params,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.NewPage(dto.ToTaskDTOs(tasks, time.Now()), params, total))
}

// MyTasks returns the tasks assigned to the current user.
func (h *TaskHandler) MyTasks(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.tasks.ListMyTasks(c.Request.Context(), user, params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.NewPage(dto.ToTaskDTOs(tasks, time.Now()), params, total))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusCreated, "Task created successfully", dto.ToTaskDTO(*task, time.Now()))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.ToTaskDTO(*task, time.Now()))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), user, id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "Task updated successfully", dto.ToTaskDTO(*task, time.Now()))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), user, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "Task deleted successfully", nil)
}

// AssignTask sets the assignee; they must be a member of the task's project.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.AssignTask(c.Request.Context(), user, id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "Task assigned successfully", dto.ToTaskDTO(*task, time.Now()))
}
