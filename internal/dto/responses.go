package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      models.UserRole   `json:"role"`
	Status    models.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// UserSummaryDTO is the compact user shape embedded in other resources
type UserSummaryDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProjectSummaryDTO is the compact project shape embedded in tasks
type ProjectSummaryDTO struct {
	ID     uint64            `json:"id"`
	Name   string            `json:"name"`
	Status models.WorkStatus `json:"status"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID                uint64            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	StartDate         *string           `json:"start_date"`
	EndDate           *string           `json:"end_date"`
	Status            models.WorkStatus `json:"status"`
	CreatedBy         uint64            `json:"created_by"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Members           []UserSummaryDTO  `json:"members"`
	TaskCount         int               `json:"task_count"`
	Progress          float64           `json:"progress"`
	OverdueTasksCount int               `json:"overdue_tasks_count"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	ProjectID    uint64              `json:"project_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.WorkStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"due_date"`
	AssignedTo   *uint64             `json:"assigned_to"`
	CreatedBy    uint64              `json:"created_by"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	IsOverdue    bool                `json:"is_overdue"`
	DaysUntilDue *int                `json:"days_until_due"`
	Project      *ProjectSummaryDTO  `json:"project,omitempty"`
	AssignedUser *UserSummaryDTO     `json:"assigned_user"`
	Creator      *UserSummaryDTO     `json:"creator,omitempty"`
	Comments     []CommentDTO        `json:"comments,omitempty"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64          `json:"id"`
	TaskID    uint64          `json:"task_id"`
	UserID    uint64          `json:"user_id"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	User      *UserSummaryDTO `json:"user,omitempty"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// PageResponse is a single page of a paginated listing
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewPage wraps already-converted items with pagination metadata
func NewPage[T any](items []T, params utils.PaginationParams, total int64) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
		TotalPages: utils.TotalPages(total, params.Limit),
	}
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

func toUserSummary(user models.User) UserSummaryDTO {
	return UserSummaryDTO{ID: user.ID, Name: user.Name, Email: user.Email}
}

// ToProjectDTO converts a Project model to ProjectDTO. Members are rendered
// from whatever the caller preloaded, task figures from project.Stats.
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:                project.ID,
		Name:              project.Name,
		Description:       project.Description,
		StartDate:         FormatDate(project.StartDate),
		EndDate:           FormatDate(project.EndDate),
		Status:            project.Status,
		CreatedBy:         project.CreatedBy,
		CreatedAt:         project.CreatedAt,
		UpdatedAt:         project.UpdatedAt,
		Members:           make([]UserSummaryDTO, 0, len(project.Members)),
		TaskCount:         project.Stats.Total,
		Progress:          ProjectProgress(project.Stats),
		OverdueTasksCount: project.Stats.Overdue,
	}

	for _, m := range project.Members {
		if m.User.ID == 0 {
			dto.Members = append(dto.Members, UserSummaryDTO{ID: m.UserID})
			continue
		}
		dto.Members = append(dto.Members, toUserSummary(m.User))
	}

	return dto
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, now time.Time) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		ProjectID:    task.ProjectID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		AssignedTo:   task.AssignedTo,
		CreatedBy:    task.CreatedBy,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		IsOverdue:    IsOverdue(task.DueDate, task.Status, now),
		DaysUntilDue: DaysUntilDue(task.DueDate, task.Status, now),
	}

	// Include project if preloaded
	if task.Project.ID != 0 {
		dto.Project = &ProjectSummaryDTO{ID: task.Project.ID, Name: task.Project.Name, Status: task.Project.Status}
	}

	if task.AssignedUser != nil && task.AssignedUser.ID != 0 {
		assignee := toUserSummary(*task.AssignedUser)
		dto.AssignedUser = &assignee
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := toUserSummary(task.Creator)
		dto.Creator = &creator
	}

	if len(task.Comments) > 0 {
		dto.Comments = ToCommentDTOs(task.Comments)
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task, now time.Time) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t, now)
	}
	return out
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User.ID != 0 {
		author := toUserSummary(comment.User)
		dto.User = &author
	}
	return dto
}

func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = ToCommentDTO(c)
	}
	return out
}
