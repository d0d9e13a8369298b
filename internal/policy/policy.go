// Package policy holds the authorization rules for projects and tasks. Every
// check is a pure predicate over the principal and already-loaded records; the
// caller is responsible for loading project memberships before asking.
package policy

import "github.com/yukikurage/project-management-api/internal/models"

// CanViewProject: admins always; members only when they belong to the project.
// project.Members must be loaded.
func CanViewProject(user *models.User, project *models.Project) bool {
	if user == nil || project == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return project.HasMember(user.ID)
}

// CanViewTask: admins always; members when the task is assigned to them or they
// belong to the task's project. task.Project.Members must be loaded.
func CanViewTask(user *models.User, task *models.Task) bool {
	if user == nil || task == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return task.IsAssignedTo(user.ID) || task.Project.HasMember(user.ID)
}

// CanCreateTaskIn reports whether user may add tasks to project.
func CanCreateTaskIn(user *models.User, project *models.Project) bool {
	return CanViewProject(user, project)
}

func CanManageProjects(user *models.User) bool {
	return user.IsAdmin()
}

func CanDeleteProject(user *models.User) bool {
	return user.IsAdmin()
}

// CanDeleteTask: admins, or the task's creator.
func CanDeleteTask(user *models.User, task *models.Task) bool {
	if user == nil || task == nil {
		return false
	}
	return user.IsAdmin() || task.CreatedBy == user.ID
}

func CanManageUsers(user *models.User) bool {
	return user.IsAdmin()
}
