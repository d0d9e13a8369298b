package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/validation"
)

// UserService handles account administration
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	Search     string
	Role       string
	Status     string
	Pagination utils.PaginationParams
}

// ListUsers returns a page of users
func (s *UserService) ListUsers(ctx context.Context, principal *models.User, input ListUsersInput) ([]models.User, int64, error) {
	if !policy.CanManageUsers(principal) {
		return nil, 0, ErrAccessDenied
	}

	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Search:     input.Search,
		Role:       input.Role,
		Status:     input.Status,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns a single user
func (s *UserService) GetUser(ctx context.Context, principal *models.User, id uint64) (*models.User, error) {
	if !policy.CanManageUsers(principal) {
		return nil, ErrAccessDenied
	}
	return s.findUser(ctx, id)
}

// CreateUser creates an active account with the requested role
func (s *UserService) CreateUser(ctx context.Context, principal *models.User, req dto.CreateUserRequest) (*models.User, error) {
	if !policy.CanManageUsers(principal) {
		return nil, ErrAccessDenied
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	errs := validation.Errors{}
	errs.Struct(req)
	if err := s.checkEmailAvailable(ctx, errs, req.Email, 0); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return s.createUser(ctx, req.Name, req.Email, req.Password, models.UserRole(req.Role))
}

// UpdateUser applies the fields present in req. A blank or null password
// leaves the current one in place.
func (s *UserService) UpdateUser(ctx context.Context, principal *models.User, id uint64, req dto.UpdateUserRequest) (*models.User, error) {
	if !policy.CanManageUsers(principal) {
		return nil, ErrAccessDenied
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}

	if req.Name.Set {
		if name, ok := requireString(errs, "name", req.Name, fmt.Sprintf("max=%d", constants.MaxNameLength)); ok {
			user.Name = name
		}
	}
	if req.Email.Set {
		req.Email.Value = normalizeEmail(req.Email.Value)
		if email, ok := requireString(errs, "email", req.Email, "email,max=255"); ok {
			if err := s.checkEmailAvailable(ctx, errs, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Role.Set {
		if role, ok := requireString(errs, "role", req.Role, "oneof=admin member"); ok {
			user.Role = models.UserRole(role)
		}
	}
	if req.Status.Set {
		if status, ok := requireString(errs, "status", req.Status, "oneof=active inactive"); ok {
			if user.ID == principal.ID && models.UserStatus(status) == models.UserStatusInactive {
				return nil, validation.FieldError("status", msgDeactivateSelf)
			}
			user.Status = models.UserStatus(status)
		}
	}

	var newPassword string
	if req.Password.Present() && req.Password.Value != "" {
		errs.Var("password", req.Password.Value, fmt.Sprintf("min=%d", constants.MinPasswordLength))
		newPassword = req.Password.Value
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	if newPassword != "" {
		hash, err := hashPassword(newPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser hard-deletes an account other than the principal's own
func (s *UserService) DeleteUser(ctx context.Context, principal *models.User, id uint64) error {
	if !policy.CanManageUsers(principal) {
		return ErrAccessDenied
	}

	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	if id == principal.ID {
		return validation.FieldError("id", msgDeleteSelf)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ToggleStatus flips an account between active and inactive
func (s *UserService) ToggleStatus(ctx context.Context, principal *models.User, id uint64) (*models.User, error) {
	if !policy.CanManageUsers(principal) {
		return nil, ErrAccessDenied
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == principal.ID {
		return nil, validation.FieldError("status", msgDeactivateSelf)
	}

	user.Status = user.Status.Toggled()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates an admin account when none exists yet. It reports
// whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	admins, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}

	email = normalizeEmail(email)
	errs := validation.Errors{}
	errs.Var("email", email, "required,email")
	errs.Var("password", password, fmt.Sprintf("required,min=%d", constants.MinPasswordLength))
	if err := errs.Err(); err != nil {
		return false, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Role = models.RoleAdmin
		existing.Status = models.UserStatusActive
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("failed to promote admin: %w", err)
		}
		return true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.createUser(ctx, name, email, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) createUser(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// checkEmailAvailable records a field error when email belongs to another user.
func (s *UserService) checkEmailAvailable(ctx context.Context, errs validation.Errors, email string, exceptID uint64) error {
	if email == "" || errs.Has("email") {
		return nil
	}

	taken, err := s.userRepo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		errs.Add("email", msgEmailTaken)
	}
	return nil
}

func (s *UserService) findUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
