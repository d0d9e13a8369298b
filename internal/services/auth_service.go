package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/validation"
)

const tokenIssuer = "project-management-api"

// AuthService handles registration, login and token verification.
type AuthService struct {
	userRepo repository.UserRepository
	users    *UserService
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		users:    NewUserService(userRepo),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Token is a signed bearer token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Register creates an active member account.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	errs := validation.Errors{}
	errs.Struct(req)
	if err := s.users.checkEmailAvailable(ctx, errs, req.Email, 0); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return s.users.createUser(ctx, req.Name, req.Email, req.Password, models.RoleMember)
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.User, *Token, error) {
	req.Email = normalizeEmail(req.Email)

	errs := validation.Errors{}
	errs.Struct(req)
	if err := errs.Err(); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, nil, ErrAccountInactive
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// IssueToken signs an HS256 token whose subject is the user id.
func (s *AuthService) IssueToken(user *models.User) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(user.ID, 10),
		Issuer:    tokenIssuer,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to its user. Invalid or expired tokens
// and deleted users yield ErrUnauthenticated; deactivated users ErrAccountInactive.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return s.AuthenticateUserID(ctx, userID)
}

// AuthenticateUserID resolves a session's user id to an active user.
func (s *AuthService) AuthenticateUserID(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive() {
		return nil, ErrAccountInactive
	}
	return user, nil
}
