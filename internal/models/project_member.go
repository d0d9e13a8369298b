package models

import "time"

// ProjectMember is the Project<->User membership pair. The composite primary key
// keeps (project_id, user_id) unique.
type ProjectMember struct {
	ProjectID uint64    `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	UserID    uint64    `gorm:"primarykey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
