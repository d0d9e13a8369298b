package dto

import (
	"math"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// ProjectProgress is the share of completed tasks as a percentage rounded to
// two decimals. A project without tasks has zero progress.
func ProjectProgress(stats models.TaskStats) float64 {
	if stats.Total == 0 {
		return 0
	}

	pct := float64(stats.Completed) / float64(stats.Total) * 100
	return math.Round(pct*100) / 100
}

func IsOverdue(due *time.Time, status models.WorkStatus, now time.Time) bool {
	return due != nil && due.Before(now) && status != models.StatusCompleted
}

// DaysUntilDue returns whole days from now to the due date, negative once it
// has passed. It is nil for completed tasks and tasks without a due date.
func DaysUntilDue(due *time.Time, status models.WorkStatus, now time.Time) *int {
	if due == nil || status == models.StatusCompleted {
		return nil
	}
	days := int(due.Sub(now).Hours() / 24)
	return &days
}
