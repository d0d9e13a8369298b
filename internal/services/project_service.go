package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/validation"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	now         func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, now: time.Now}
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	Search     string
	Status     string
	Pagination utils.PaginationParams
}

// ListProjects returns the page of projects visible to principal
func (s *ProjectService) ListProjects(ctx context.Context, principal *models.User, input ListProjectsInput) ([]models.Project, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthenticated
	}

	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		Search:     input.Search,
		Status:     input.Status,
		Viewer:     principal,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	if err := s.attachStats(ctx, projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// GetProject returns a project with members and task stats loaded
func (s *ProjectService) GetProject(ctx context.Context, principal *models.User, id uint64) (*models.Project, error) {
	project, err := s.findProject(ctx, id, "Members.User")
	if err != nil {
		return nil, err
	}
	if !policy.CanViewProject(principal, project) {
		return nil, ErrAccessDenied
	}
	return s.withStats(ctx, project)
}

// CreateProject validates req and creates the project with its initial members
func (s *ProjectService) CreateProject(ctx context.Context, principal *models.User, req dto.CreateProjectRequest) (*models.Project, error) {
	if !policy.CanManageProjects(principal) {
		return nil, ErrAccessDenied
	}

	errs := validation.Errors{}
	req.Name = strings.TrimSpace(req.Name)
	errs.Struct(req)

	project := &models.Project{
		Name:      req.Name,
		Status:    models.WorkStatus(req.Status),
		CreatedBy: principal.ID,
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = parseDateField(errs, "start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		project.EndDate = parseDateField(errs, "end_date", *req.EndDate)
	}
	checkDateRange(errs, project.StartDate, project.EndDate)

	if err := errs.Err(); err != nil {
		return nil, err
	}

	err := s.projectRepo.CreateWithMembers(ctx, project, req.MemberIDs)
	if len(req.MemberIDs) > 0 {
		metrics.RecordMembershipChange(MembershipAttach, err == nil)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUnknownUsers) {
			return nil, membershipError("member_ids", err)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.loadDetail(ctx, project.ID)
}

// UpdateProject applies the fields present in req. When member_ids is present
// the membership set is replaced in the same transaction.
func (s *ProjectService) UpdateProject(ctx context.Context, principal *models.User, id uint64, req dto.UpdateProjectRequest) (*models.Project, error) {
	if !policy.CanManageProjects(principal) {
		return nil, ErrAccessDenied
	}

	project, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}

	if req.Name.Set {
		if name, ok := requireString(errs, "name", req.Name, "max=255"); ok {
			project.Name = name
		}
	}
	if req.Description.Set {
		project.Description = req.Description.Value
	}
	if req.StartDate.Set {
		project.StartDate = nil
		if !req.StartDate.Null {
			project.StartDate = parseDateField(errs, "start_date", req.StartDate.Value)
		}
	}
	if req.EndDate.Set {
		project.EndDate = nil
		if !req.EndDate.Null {
			project.EndDate = parseDateField(errs, "end_date", req.EndDate.Value)
		}
	}
	if req.Status.Set {
		if status, ok := requireString(errs, "status", req.Status, "oneof=pending in_progress completed cancelled"); ok {
			project.Status = models.WorkStatus(status)
		}
	}
	checkDateRange(errs, project.StartDate, project.EndDate)

	if err := errs.Err(); err != nil {
		return nil, err
	}

	var members *repository.MemberSync
	if req.MemberIDs.Set {
		members = &repository.MemberSync{UserIDs: req.MemberIDs.Value}
	}

	err = s.projectRepo.UpdateWithMembers(ctx, project, members)
	if members != nil {
		metrics.RecordMembershipChange(MembershipSync, err == nil)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUnknownUsers) {
			return nil, membershipError("member_ids", err)
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.loadDetail(ctx, project.ID)
}

// DeleteProject removes a project together with its tasks and memberships
func (s *ProjectService) DeleteProject(ctx context.Context, principal *models.User, id uint64) error {
	if !policy.CanDeleteProject(principal) {
		return ErrAccessDenied
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListMembers returns the members of a project the principal can see
func (s *ProjectService) ListMembers(ctx context.Context, principal *models.User, id uint64) ([]models.User, error) {
	project, err := s.findProject(ctx, id, "Members")
	if err != nil {
		return nil, err
	}
	if !policy.CanViewProject(principal, project) {
		return nil, ErrAccessDenied
	}

	users, err := s.projectRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return users, nil
}

func (s *ProjectService) findProject(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) loadDetail(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.findProject(ctx, id, "Members.User")
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, project)
}

func (s *ProjectService) withStats(ctx context.Context, project *models.Project) (*models.Project, error) {
	projects := []models.Project{*project}
	if err := s.attachStats(ctx, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

// attachStats fills Stats on every project with a single grouped query.
func (s *ProjectService) attachStats(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]uint64, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	stats, err := s.projectRepo.TaskStats(ctx, ids, s.now())
	if err != nil {
		return fmt.Errorf("failed to count project tasks: %w", err)
	}
	for i := range projects {
		projects[i].Stats = stats[projects[i].ID]
	}
	return nil
}
