package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// ErrUnknownUsers is returned when a membership or assignment references a user
// id that does not exist. No rows are written when it is returned.
var ErrUnknownUsers = errors.New("one or more users do not exist")

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithMembers creates a project and attaches memberIDs atomically
	CreateWithMembers(ctx context.Context, project *models.Project, memberIDs []uint64) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with search, filters, visibility scoping and pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// UpdateWithMembers saves project fields and, when members is non-nil,
	// replaces the membership set in the same transaction
	UpdateWithMembers(ctx context.Context, project *models.Project, members *MemberSync) error

	// Delete removes a project with its memberships, tasks and comments
	Delete(ctx context.Context, id uint64) error

	// AttachMembers adds the users not already members (idempotent)
	AttachMembers(ctx context.Context, projectID uint64, userIDs []uint64) error

	// SyncMembers makes the membership set exactly userIDs
	SyncMembers(ctx context.Context, projectID uint64, userIDs []uint64) error

	// DetachMembers removes the given users; absent ones are ignored
	DetachMembers(ctx context.Context, projectID uint64, userIDs []uint64) error

	// ListMembers returns the member users of a project ordered by name
	ListMembers(ctx context.Context, projectID uint64) ([]models.User, error)

	// TaskStats counts tasks per project in one grouped query. Projects
	// without tasks are absent from the result.
	TaskStats(ctx context.Context, projectIDs []uint64, now time.Time) (map[uint64]models.TaskStats, error)
}

// MemberSync carries the desired membership set for an update. A nil or empty
// UserIDs detaches every member.
type MemberSync struct {
	UserIDs []uint64
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Search     string
	Status     string
	Viewer     *models.User
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with search, filters, visibility scoping and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update saves a task's own columns
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task and its comments
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Search     string
	Status     string
	Priority   string
	ProjectID  *uint64
	AssignedTo *uint64
	Viewer     *models.User
	Pagination utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// EmailTaken reports whether another user (not exceptID) owns email
	EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error)

	// List retrieves users with search, filters and pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// Update saves a user
	Update(ctx context.Context, user *models.User) error

	// Delete hard-deletes a user, their memberships and comments, and clears
	// their task assignments
	Delete(ctx context.Context, id uint64) error

	// CountAdmins counts admin accounts
	CountAdmins(ctx context.Context) (int64, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Search     string
	Role       string
	Status     string
	Pagination utils.PaginationParams
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// List retrieves comments of one task, optionally only those by UserID
	List(ctx context.Context, filter CommentFilter) ([]models.Comment, int64, error)
}

// CommentFilter holds filtering options for listing comments
type CommentFilter struct {
	TaskID     uint64
	UserID     *uint64
	Pagination utils.PaginationParams
}
