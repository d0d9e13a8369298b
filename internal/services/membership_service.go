package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/validation"
)

// Membership operations, as recorded in metrics.
const (
	MembershipAttach = "attach"
	MembershipSync   = "sync"
	MembershipDetach = "detach"
)

// MembershipService adds, replaces and removes project members. Every operation
// runs in a single transaction and writes nothing if any user id is unknown.
type MembershipService struct {
	projectRepo repository.ProjectRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(projectRepo repository.ProjectRepository) *MembershipService {
	return &MembershipService{projectRepo: projectRepo}
}

// Attach adds userIDs to the project. Existing members are left alone.
func (s *MembershipService) Attach(ctx context.Context, principal *models.User, projectID uint64, userIDs []uint64) error {
	return s.mutate(ctx, principal, projectID, userIDs, MembershipAttach, s.projectRepo.AttachMembers)
}

// Sync makes the member set exactly userIDs; nil or empty detaches everyone.
func (s *MembershipService) Sync(ctx context.Context, principal *models.User, projectID uint64, userIDs []uint64) error {
	return s.mutate(ctx, principal, projectID, userIDs, MembershipSync, s.projectRepo.SyncMembers)
}

// Detach removes userIDs from the project. Non-members are ignored.
func (s *MembershipService) Detach(ctx context.Context, principal *models.User, projectID uint64, userIDs []uint64) error {
	return s.mutate(ctx, principal, projectID, userIDs, MembershipDetach, s.projectRepo.DetachMembers)
}

func (s *MembershipService) mutate(
	ctx context.Context,
	principal *models.User,
	projectID uint64,
	userIDs []uint64,
	op string,
	apply func(context.Context, uint64, []uint64) error,
) error {
	if !policy.CanManageProjects(principal) {
		return ErrAccessDenied
	}
	if op != MembershipSync && len(userIDs) == 0 {
		return validation.FieldError("user_ids", fmt.Sprintf(msgRequired, "user ids"))
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	err := apply(ctx, projectID, userIDs)
	metrics.RecordMembershipChange(op, err == nil)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownUsers) {
			return membershipError("user_ids", err)
		}
		return fmt.Errorf("failed to %s members: %w", op, err)
	}
	return nil
}
