package repository

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
)

// Search columns per resource.
var (
	projectSearchColumns = []string{"projects.name", "projects.description"}
	taskSearchColumns    = []string{"tasks.title", "tasks.description"}
	userSearchColumns    = []string{"users.name", "users.email"}
)

// ProjectVisibleTo restricts members to projects they belong to. Admins (and a
// nil viewer, used by internal callers) see everything.
func ProjectVisibleTo(viewer *models.User) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewer == nil || viewer.IsAdmin() {
			return db
		}
		return db.Where("EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = projects.id AND pm.user_id = ?)", viewer.ID)
	}
}

// TaskVisibleTo restricts members to tasks assigned to them or belonging to a
// project they are a member of.
func TaskVisibleTo(viewer *models.User) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewer == nil || viewer.IsAdmin() {
			return db
		}
		return db.Where(
			"(tasks.assigned_to = ? OR EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = tasks.project_id AND pm.user_id = ?))",
			viewer.ID, viewer.ID,
		)
	}
}

// projectQuery composes search, equality filters and visibility for projects.
func projectQuery(db *gorm.DB, filter ProjectFilter) *gorm.DB {
	return db.Model(&models.Project{}).Scopes(
		database.Search(filter.Search, projectSearchColumns...),
		database.WhereEq("projects.status", filter.Status),
		ProjectVisibleTo(filter.Viewer),
	)
}

// taskQuery composes search, equality filters and visibility for tasks.
func taskQuery(db *gorm.DB, filter TaskFilter) *gorm.DB {
	return db.Model(&models.Task{}).Scopes(
		database.Search(filter.Search, taskSearchColumns...),
		database.WhereEq("tasks.status", filter.Status),
		database.WhereEq("tasks.priority", filter.Priority),
		database.WhereID("tasks.project_id", filter.ProjectID),
		database.WhereID("tasks.assigned_to", filter.AssignedTo),
		TaskVisibleTo(filter.Viewer),
	)
}

// userQuery composes search and equality filters for users.
func userQuery(db *gorm.DB, filter UserFilter) *gorm.DB {
	return db.Model(&models.User{}).Scopes(
		database.Search(filter.Search, userSearchColumns...),
		database.WhereEq("users.role", filter.Role),
		database.WhereEq("users.status", filter.Status),
	)
}
