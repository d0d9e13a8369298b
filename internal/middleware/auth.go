package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-management-api/internal/constants"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

const bearerPrefix = "Bearer "

// Authenticator resolves request credentials to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	AuthenticateUserID(ctx context.Context, id uint64) (*models.User, error)
}

// RequireAuth resolves the principal from a bearer token, falling back to the
// session cookie, and stores it in the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolvePrincipal(c, auth)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrAccountInactive):
			apierrors.AbortWithError(c, http.StatusForbidden,
				apierrors.NewAPIError(apierrors.ErrCodeAccountInactive, "Your account is inactive"))
			return
		case errors.Is(err, services.ErrUnauthenticated):
			apierrors.AbortWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		default:
			_ = c.Error(err)
			apierrors.AbortWithError(c, http.StatusInternalServerError,
				apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Internal server error"))
			return
		}

		c.Set(constants.ContextKeyPrincipal, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// RequireAdmin rejects principals that are not admins. It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetPrincipal(c)
		if !ok || !user.IsAdmin() {
			apierrors.AbortWithError(c, http.StatusForbidden,
				apierrors.NewAPIError(apierrors.ErrCodeForbidden, "This action is unauthorized"))
			return
		}
		c.Next()
	}
}

func resolvePrincipal(c *gin.Context, auth Authenticator) (*models.User, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) {
			return nil, services.ErrUnauthenticated
		}
		return auth.Authenticate(c.Request.Context(), strings.TrimSpace(header[len(bearerPrefix):]))
	}

	// Routes mounted without the sessions middleware only accept tokens.
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil, services.ErrUnauthenticated
	}
	userID, ok := toUserID(sessions.Default(c).Get(constants.ContextKeyUserID))
	if !ok {
		return nil, services.ErrUnauthenticated
	}
	return auth.AuthenticateUserID(c.Request.Context(), userID)
}

// GetPrincipal retrieves the authenticated user from context
func GetPrincipal(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
