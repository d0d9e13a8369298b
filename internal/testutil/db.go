// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
)

// NewDB opens a migrated in-memory SQLite database. The pool is pinned to a
// single connection because every :memory: connection is its own database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashed",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by creatorID with the given members.
func CreateProject(t *testing.T, db *gorm.DB, name string, creatorID uint64, memberIDs ...uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      name,
		Status:    models.StatusPending,
		CreatedBy: creatorID,
	}
	require.NoError(t, db.Create(project).Error)

	for _, uid := range memberIDs {
		require.NoError(t, db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: uid}).Error)
	}
	return project
}

// CreateTask inserts a pending, medium-priority task.
func CreateTask(t *testing.T, db *gorm.DB, title string, projectID, creatorID uint64, assignedTo *uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID:  projectID,
		Title:      title,
		Status:     models.StatusPending,
		Priority:   models.PriorityMedium,
		AssignedTo: assignedTo,
		CreatedBy:  creatorID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

// CreateTaskAt is CreateTask with a fixed creation time.
func CreateTaskAt(t *testing.T, db *gorm.DB, title string, projectID, creatorID uint64, createdAt time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID: projectID,
		Title:     title,
		Status:    models.StatusPending,
		Priority:  models.PriorityMedium,
		CreatedBy: creatorID,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func Ptr[T any](v T) *T {
	return &v
}
