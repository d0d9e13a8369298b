package dto

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateProjectRequest is the body of POST /projects
type CreateProjectRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description *string  `json:"description"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Status      string   `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
	MemberIDs   []uint64 `json:"member_ids"`
}

// UpdateProjectRequest is the body of PUT /projects/{id}. Absent fields are
// left unchanged; member_ids null or [] detaches every member.
type UpdateProjectRequest struct {
	Name        Optional[string]   `json:"name"`
	Description Optional[string]   `json:"description"`
	StartDate   Optional[string]   `json:"start_date"`
	EndDate     Optional[string]   `json:"end_date"`
	Status      Optional[string]   `json:"status"`
	MemberIDs   Optional[[]uint64] `json:"member_ids"`
}

// MembersRequest is the body of POST /projects/{id}/members
type MembersRequest struct {
	UserIDs []uint64 `json:"user_ids"`
}

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	ProjectID   uint64  `json:"project_id" validate:"required"`
	AssignedTo  *uint64 `json:"assigned_to"`
	Status      string  `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
	Priority    string  `json:"priority" validate:"required,oneof=low medium high"`
	DueDate     *string `json:"due_date"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	ProjectID   Optional[uint64] `json:"project_id"`
	AssignedTo  Optional[uint64] `json:"assigned_to"`
	Status      Optional[string] `json:"status"`
	Priority    Optional[string] `json:"priority"`
	DueDate     Optional[string] `json:"due_date"`
}

// AssignTaskRequest is the body of POST /tasks/{id}/assign
type AssignTaskRequest struct {
	AssignedTo *uint64 `json:"assigned_to" validate:"required"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin member"`
}

// UpdateUserRequest is the body of PUT /users/{id}
type UpdateUserRequest struct {
	Name     Optional[string] `json:"name"`
	Email    Optional[string] `json:"email"`
	Password Optional[string] `json:"password"`
	Role     Optional[string] `json:"role"`
	Status   Optional[string] `json:"status"`
}

// CreateCommentRequest is the body of POST /tasks/{id}/comments
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
