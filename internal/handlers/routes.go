package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-management-api/internal/middleware"
)

// Handlers groups every resource handler mounted under /api.
type Handlers struct {
	Auth     *AuthHandler
	Projects *ProjectHandler
	Tasks    *TaskHandler
	Comments *CommentHandler
	Users    *UserHandler
}

// Register mounts the API routes. requireAuth resolves the principal for
// every route except registration, login and logout.
func (h *Handlers) Register(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	protected := api.Group("")
	protected.Use(requireAuth)

	projects := protected.Group("/projects")
	{
		projects.GET("", h.Projects.ListProjects)
		projects.POST("", h.Projects.CreateProject)
		projects.GET("/:id", h.Projects.GetProject)
		projects.PUT("/:id", h.Projects.UpdateProject)
		projects.DELETE("/:id", h.Projects.DeleteProject)
		projects.GET("/:id/members", h.Projects.ListMembers)
		projects.POST("/:id/members", h.Projects.AddMembers)
		projects.PUT("/:id/members", h.Projects.SyncMembers)
		projects.DELETE("/:id/members/:userId", h.Projects.RemoveMember)
		projects.GET("/:id/tasks", h.Projects.ListProjectTasks)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", h.Tasks.ListTasks)
		tasks.POST("", h.Tasks.CreateTask)
		tasks.GET("/:id", h.Tasks.GetTask)
		tasks.PUT("/:id", h.Tasks.UpdateTask)
		tasks.DELETE("/:id", h.Tasks.DeleteTask)
		tasks.POST("/:id/assign", h.Tasks.AssignTask)
		tasks.GET("/:id/comments", h.Comments.ListComments)
		tasks.POST("/:id/comments", h.Comments.CreateComment)
	}

	protected.GET("/my-tasks", h.Tasks.MyTasks)

	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.GET("", h.Users.ListUsers)
		users.POST("", h.Users.CreateUser)
		users.GET("/:id", h.Users.GetUser)
		users.PUT("/:id", h.Users.UpdateUser)
		users.DELETE("/:id", h.Users.DeleteUser)
		users.POST("/:id/toggle-status", h.Users.ToggleStatus)
	}
}
