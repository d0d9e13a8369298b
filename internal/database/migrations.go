package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by list ordering and visibility
// scoping. Single-column indexes come from the model tags.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Latest-first listing with id tie-break
		{"projects", "idx_projects_created_at_id", "created_at, id"},
		{"tasks", "idx_tasks_created_at_id", "created_at, id"},
		{"users", "idx_users_created_at_id", "created_at, id"},
		{"comments", "idx_comments_task_created_at", "task_id, created_at"},

		// Member visibility: EXISTS (project_members WHERE project_id = ? AND user_id = ?)
		{"project_members", "idx_project_members_user_project", "user_id, project_id"},

		// Project task lists
		{"tasks", "idx_tasks_project_created_at", "project_id, created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
