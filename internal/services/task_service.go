package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/validation"
)

// taskDetail is what a single-task response needs loaded.
var taskDetail = []string{"Project", "Project.Members", "AssignedUser", "Creator", "Comments", "Comments.User"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Search     string
	Status     string
	Priority   string
	ProjectID  *uint64
	AssignedTo *uint64
	Pagination utils.PaginationParams
}

// ListTasks returns the page of tasks visible to principal
func (s *TaskService) ListTasks(ctx context.Context, principal *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthenticated
	}

	return s.list(ctx, repository.TaskFilter{
		Search:     input.Search,
		Status:     input.Status,
		Priority:   input.Priority,
		ProjectID:  input.ProjectID,
		AssignedTo: input.AssignedTo,
		Viewer:     principal,
		Pagination: input.Pagination,
	})
}

// ListMyTasks returns tasks assigned to principal
func (s *TaskService) ListMyTasks(ctx context.Context, principal *models.User, page utils.PaginationParams) ([]models.Task, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthenticated
	}

	return s.list(ctx, repository.TaskFilter{
		AssignedTo: &principal.ID,
		Pagination: page,
	})
}

// ListProjectTasks returns the tasks of one project the principal can see
func (s *TaskService) ListProjectTasks(ctx context.Context, principal *models.User, projectID uint64, page utils.PaginationParams) ([]models.Task, int64, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}
	if !policy.CanViewProject(principal, project) {
		return nil, 0, ErrAccessDenied
	}

	return s.list(ctx, repository.TaskFilter{
		ProjectID:  &projectID,
		Pagination: page,
	})
}

func (s *TaskService) list(ctx context.Context, filter repository.TaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task with its project, people and comments loaded
func (s *TaskService) GetTask(ctx context.Context, principal *models.User, id uint64) (*models.Task, error) {
	task, err := s.findTask(ctx, id, taskDetail...)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTask(principal, task) {
		return nil, ErrAccessDenied
	}
	return task, nil
}

// CreateTask validates req and creates a task in a project the principal belongs to
func (s *TaskService) CreateTask(ctx context.Context, principal *models.User, req dto.CreateTaskRequest) (*models.Task, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	errs := validation.Errors{}
	req.Title = strings.TrimSpace(req.Title)
	errs.Struct(req)

	task := &models.Task{
		ProjectID:  req.ProjectID,
		Title:      req.Title,
		Status:     models.WorkStatus(req.Status),
		Priority:   models.TaskPriority(req.Priority),
		AssignedTo: req.AssignedTo,
		CreatedBy:  principal.ID,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}

	if req.DueDate != nil {
		task.DueDate = parseDateField(errs, "due_date", *req.DueDate)
		if task.DueDate != nil && !task.DueDate.After(startOfDay(s.now())) {
			errs.Add("due_date", msgDueNotFuture)
		}
	}

	var project *models.Project
	if req.ProjectID != 0 {
		var err error
		if project, err = s.lookupProject(ctx, errs, req.ProjectID); err != nil {
			return nil, err
		}
	}
	if err := s.checkAssignee(ctx, errs, task.AssignedTo, project); err != nil {
		return nil, err
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	if !policy.CanCreateTaskIn(principal, project) {
		return nil, ErrAccessDenied
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(ctx, task.ID, taskDetail...)
}

// UpdateTask applies the fields present in req to a task the principal can see
func (s *TaskService) UpdateTask(ctx context.Context, principal *models.User, id uint64, req dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.findTask(ctx, id, "Project", "Project.Members")
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTask(principal, task) {
		return nil, ErrAccessDenied
	}

	errs := validation.Errors{}
	project := &task.Project
	recheckAssignee := false

	if req.Title.Set {
		if title, ok := requireString(errs, "title", req.Title, "max=255"); ok {
			task.Title = title
		}
	}
	if req.Description.Set {
		task.Description = req.Description.Value
	}
	if req.ProjectID.Set {
		switch {
		case req.ProjectID.Null:
			errs.Add("project_id", fmt.Sprintf(msgRequired, "project id"))
		case req.ProjectID.Value != task.ProjectID:
			moved, err := s.lookupProject(ctx, errs, req.ProjectID.Value)
			if err != nil {
				return nil, err
			}
			if moved != nil {
				if !policy.CanCreateTaskIn(principal, moved) {
					return nil, ErrAccessDenied
				}
				project = moved
				task.ProjectID = moved.ID
				recheckAssignee = true
			}
		}
	}
	if req.AssignedTo.Set {
		task.AssignedTo = nil
		if !req.AssignedTo.Null {
			assignee := req.AssignedTo.Value
			task.AssignedTo = &assignee
		}
		recheckAssignee = true
	}
	if req.Status.Set {
		if status, ok := requireString(errs, "status", req.Status, "oneof=pending in_progress completed cancelled"); ok {
			task.Status = models.WorkStatus(status)
		}
	}
	if req.Priority.Set {
		if priority, ok := requireString(errs, "priority", req.Priority, "oneof=low medium high"); ok {
			task.Priority = models.TaskPriority(priority)
		}
	}
	if req.DueDate.Set {
		task.DueDate = nil
		if !req.DueDate.Null {
			task.DueDate = parseDateField(errs, "due_date", req.DueDate.Value)
		}
	}

	if recheckAssignee && !errs.Has("project_id") {
		if err := s.checkAssignee(ctx, errs, task.AssignedTo, project); err != nil {
			return nil, err
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(ctx, task.ID, taskDetail...)
}

// DeleteTask removes a task; only admins and the task's creator may do so
func (s *TaskService) DeleteTask(ctx context.Context, principal *models.User, id uint64) error {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(principal, task) {
		return ErrAccessDenied
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssignTask sets the assignee of a task. The assignee must be a member of the
// task's project; on failure the task is left untouched.
func (s *TaskService) AssignTask(ctx context.Context, principal *models.User, id uint64, req dto.AssignTaskRequest) (*models.Task, error) {
	task, err := s.findTask(ctx, id, "Project", "Project.Members")
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTask(principal, task) {
		return nil, ErrAccessDenied
	}

	errs := validation.Errors{}
	errs.Struct(req)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, errs, req.AssignedTo, &task.Project); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	assignee := *req.AssignedTo
	task.AssignedTo = &assignee
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.findTask(ctx, task.ID, taskDetail...)
}

// lookupProject resolves a referenced project, recording a field error when it
// does not exist.
func (s *TaskService) lookupProject(ctx context.Context, errs validation.Errors, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("project_id", fmt.Sprintf(msgInvalidSelection, "project id"))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// checkAssignee records a field error unless assignee is nil or an existing
// user who is a member of project. project must have Members loaded.
func (s *TaskService) checkAssignee(ctx context.Context, errs validation.Errors, assignee *uint64, project *models.Project) error {
	if assignee == nil {
		return nil
	}

	if _, err := s.userRepo.FindByID(ctx, *assignee); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("assigned_to", fmt.Sprintf(msgInvalidSelection, "assigned to"))
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if project != nil && !project.HasMember(*assignee) {
		errs.Add("assigned_to", msgNotProjectMember)
	}
	return nil
}

func (s *TaskService) findTask(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
