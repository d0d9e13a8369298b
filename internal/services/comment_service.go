package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/validation"
)

// CommentService handles task comments. Comments cannot be edited.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// ListComments returns a page of a task's comments, optionally only those
// written by authorID
func (s *CommentService) ListComments(ctx context.Context, principal *models.User, taskID uint64, authorID *uint64, page utils.PaginationParams) ([]models.Comment, int64, error) {
	if _, err := s.visibleTask(ctx, principal, taskID); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.commentRepo.List(ctx, repository.CommentFilter{
		TaskID:     taskID,
		UserID:     authorID,
		Pagination: page,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// AddComment posts a comment by principal on a task they can see
func (s *CommentService) AddComment(ctx context.Context, principal *models.User, taskID uint64, req dto.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.visibleTask(ctx, principal, taskID); err != nil {
		return nil, err
	}

	req.Content = strings.TrimSpace(req.Content)
	errs := validation.Errors{}
	errs.Struct(req)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TaskID:  taskID,
		UserID:  principal.ID,
		Content: req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.User = *principal
	return comment, nil
}

func (s *CommentService) visibleTask(ctx context.Context, principal *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Project", "Project.Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !policy.CanViewTask(principal, task) {
		return nil, ErrAccessDenied
	}
	return task, nil
}
