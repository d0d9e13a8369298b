package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/validation"
)

const msgInvalidData = "The given data was invalid."

// respondError renders a service error as the matching error envelope.
// Anything unrecognised is logged and reported as a 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, msgInvalidData, verr.Fields)
	case errors.Is(err, services.ErrAccessDenied):
		apierrors.Forbidden(c, "This action is unauthorized.")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Invalid email or password"))
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrAccountInactive):
		apierrors.RespondWithError(c, http.StatusForbidden,
			apierrors.NewAPIError(apierrors.ErrCodeAccountInactive, "Your account is inactive"))
	default:
		_ = c.Error(err)
		log.Error("request failed",
			zap.Error(err),
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("path", c.FullPath()),
		)
		apierrors.InternalError(c, "")
	}
}

// bindJSON decodes the request body into dst. An empty body leaves dst
// untouched; a type mismatch is a 422 and malformed JSON a 400.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		apierrors.ValidationFailed(c, msgInvalidData, map[string][]string{
			field: {fmt.Sprintf("The %s field has an invalid type.", field)},
		})
		return false
	}

	apierrors.BadRequest(c, "Malformed JSON body")
	return false
}

// pathID parses a numeric route parameter; anything else cannot name a resource.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Resource not found")
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter, recording a field error
// when it is present but malformed.
func queryID(c *gin.Context, errs validation.Errors, key string) *uint64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		errs.Add(key, fmt.Sprintf("The %s filter must be an integer.", key))
		return nil
	}
	return &id
}

// principal returns the authenticated user, answering 401 when there is none.
func principal(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return user, true
}
