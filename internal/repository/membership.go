package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/project-management-api/internal/models"
)

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ensureUsersExist fails with ErrUnknownUsers unless every id names a user.
func ensureUsersExist(tx *gorm.DB, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrUnknownUsers
	}
	return nil
}

// attachMembers inserts membership rows, skipping pairs that already exist.
func attachMembers(tx *gorm.DB, projectID uint64, userIDs []uint64) error {
	userIDs = uniqueIDs(userIDs)
	if len(userIDs) == 0 {
		return nil
	}
	if err := ensureUsersExist(tx, userIDs); err != nil {
		return err
	}

	now := time.Now()
	members := make([]models.ProjectMember, len(userIDs))
	for i, userID := range userIDs {
		members[i] = models.ProjectMember{ProjectID: projectID, UserID: userID, CreatedAt: now}
	}

	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&members).Error
}

// syncMembers replaces the membership set of projectID with userIDs. Tasks of
// the project assigned to a user outside the new set become unassigned.
func syncMembers(tx *gorm.DB, projectID uint64, userIDs []uint64) error {
	userIDs = uniqueIDs(userIDs)
	if err := ensureUsersExist(tx, userIDs); err != nil {
		return err
	}

	remove := tx.Where("project_id = ?", projectID)
	if len(userIDs) > 0 {
		remove = remove.Where("user_id NOT IN ?", userIDs)
	}
	if err := remove.Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}

	unassign := tx.Model(&models.Task{}).Where("project_id = ? AND assigned_to IS NOT NULL", projectID)
	if len(userIDs) > 0 {
		unassign = unassign.Where("assigned_to NOT IN ?", userIDs)
	}
	if err := unassign.Update("assigned_to", gorm.Expr("NULL")).Error; err != nil {
		return err
	}

	return attachMembers(tx, projectID, userIDs)
}

// detachMembers deletes the given memberships; pairs that do not exist are ignored.
// Tasks of the project assigned to a removed user become unassigned.
func detachMembers(tx *gorm.DB, projectID uint64, userIDs []uint64) error {
	userIDs = uniqueIDs(userIDs)
	if len(userIDs) == 0 {
		return nil
	}
	if err := ensureUsersExist(tx, userIDs); err != nil {
		return err
	}
	if err := tx.Where("project_id = ? AND user_id IN ?", projectID, userIDs).
		Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}
	return tx.Model(&models.Task{}).
		Where("project_id = ? AND assigned_to IN ?", projectID, userIDs).
		Update("assigned_to", gorm.Expr("NULL")).Error
}
