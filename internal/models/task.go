package models

import "time"

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	ProjectID   uint64       `gorm:"not null;index" json:"project_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      WorkStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `gorm:"index" json:"due_date"`
	AssignedTo  *uint64      `gorm:"index" json:"assigned_to"`
	CreatedBy   uint64       `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project      Project   `gorm:"foreignKey:ProjectID" json:"-"`
	AssignedUser *User     `gorm:"foreignKey:AssignedTo" json:"-"`
	Creator      User      `gorm:"foreignKey:CreatedBy" json:"-"`
	Comments     []Comment `gorm:"foreignKey:TaskID" json:"-"`
}

// IsAssignedTo reports whether the task is assigned to userID.
func (t *Task) IsAssignedTo(userID uint64) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}
