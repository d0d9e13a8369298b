package models

import "time"

type Project struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      WorkStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedBy   uint64     `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"-"`

	// Stats is filled by an aggregate query, never persisted.
	Stats TaskStats `gorm:"-" json:"-"`
}

// TaskStats counts the tasks of one project.
type TaskStats struct {
	ProjectID uint64
	Total     int
	Completed int
	Overdue   int
}

// MemberIDs returns the user IDs of the loaded membership rows.
func (p *Project) MemberIDs() []uint64 {
	ids := make([]uint64, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// HasMember reports whether userID appears in the loaded membership rows.
func (p *Project) HasMember(userID uint64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
