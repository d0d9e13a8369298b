package models

// UserRole is the system-wide role of a user.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// UserStatus marks whether an account may be used. It is unrelated to
// ProjectStatus and TaskStatus.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// WorkStatus is the lifecycle state shared by projects and tasks. Any value may
// replace any other; there is no enforced transition graph.
type WorkStatus string

const (
	StatusPending    WorkStatus = "pending"
	StatusInProgress WorkStatus = "in_progress"
	StatusCompleted  WorkStatus = "completed"
	StatusCancelled  WorkStatus = "cancelled"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

func (s WorkStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Toggled returns the opposite account status.
func (s UserStatus) Toggled() UserStatus {
	if s == UserStatusActive {
		return UserStatusInactive
	}
	return UserStatusActive
}
