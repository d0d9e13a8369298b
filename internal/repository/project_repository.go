package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithMembers creates a project and its memberships atomically.
func (r *GormProjectRepository) CreateWithMembers(ctx context.Context, project *models.Project, memberIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return attachMembers(tx, project.ID, memberIDs)
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves projects newest first, with members preloaded
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := projectQuery(r.db.WithContext(ctx), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.
		Scopes(database.LatestFirst("projects"), database.Paginate(filter.Pagination)).
		Preload("Members.User").
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// UpdateWithMembers saves the project row and optionally syncs memberships
func (r *GormProjectRepository) UpdateWithMembers(ctx context.Context, project *models.Project, members *MemberSync) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}
		if members == nil {
			return nil
		}
		return syncMembers(tx, project.ID, members.UserIDs)
	})
}

// Delete removes a project and everything hanging off it
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AttachMembers adds users to a project, ignoring existing members
func (r *GormProjectRepository) AttachMembers(ctx context.Context, projectID uint64, userIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return attachMembers(tx, projectID, userIDs)
	})
}

// SyncMembers replaces the project's member set
func (r *GormProjectRepository) SyncMembers(ctx context.Context, projectID uint64, userIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return syncMembers(tx, projectID, userIDs)
	})
}

// DetachMembers removes users from a project
func (r *GormProjectRepository) DetachMembers(ctx context.Context, projectID uint64, userIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return detachMembers(tx, projectID, userIDs)
	})
}

// ListMembers returns the users belonging to a project
func (r *GormProjectRepository) ListMembers(ctx context.Context, projectID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.user_id = users.id").
		Where("project_members.project_id = ?", projectID).
		Order("users.name ASC").Order("users.id ASC").
		Find(&users).Error
	return users, err
}

// TaskStats counts total, completed and overdue tasks per project
func (r *GormProjectRepository) TaskStats(ctx context.Context, projectIDs []uint64, now time.Time) (map[uint64]models.TaskStats, error) {
	out := make(map[uint64]models.TaskStats, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	var rows []models.TaskStats
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select(
			"project_id, COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
				"COALESCE(SUM(CASE WHEN due_date IS NOT NULL AND due_date < ? AND status <> ? THEN 1 ELSE 0 END), 0) AS overdue",
			models.StatusCompleted, now.UTC(), models.StatusCompleted,
		).
		Where("project_id IN ?", uniqueIDs(projectIDs)).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.ProjectID] = row
	}
	return out, nil
}
