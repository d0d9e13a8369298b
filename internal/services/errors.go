package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/validation"
)

var (
	ErrAccessDenied         = errors.New("access denied")
	ErrProjectNotFound      = errors.New("project not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// Field messages shared by several services.
const (
	msgInvalidDate      = "The %s field must be a valid date."
	msgInvalidSelection = "The selected %s is invalid."
	msgRequired         = "The %s field is required."
	msgEndBeforeStart   = "The end date field must be a date after or equal to start date."
	msgDueNotFuture     = "The due date field must be a date after today."
	msgNotProjectMember = "The assigned user is not a member of this project."
	msgEmailTaken       = "The email has already been taken."
	msgDeleteSelf       = "You cannot delete your own account."
	msgDeactivateSelf   = "You cannot deactivate your own account."
)

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// parseDateField parses raw into a date, recording a field error on failure.
func parseDateField(errs validation.Errors, field, raw string) *time.Time {
	t, err := dto.ParseDate(raw)
	if err != nil {
		errs.Add(field, fmt.Sprintf(msgInvalidDate, label(field)))
		return nil
	}
	return &t
}

// checkDateRange records an error when both dates are set and end precedes start.
func checkDateRange(errs validation.Errors, start, end *time.Time) {
	if start == nil || end == nil || errs.Has("start_date") || errs.Has("end_date") {
		return
	}
	if end.Before(*start) {
		errs.Add("end_date", msgEndBeforeStart)
	}
}

// requireString validates a present Optional string that must not be null or blank.
func requireString(errs validation.Errors, field string, v dto.Optional[string], tag string) (string, bool) {
	value := strings.TrimSpace(v.Value)
	if v.Null || value == "" {
		errs.Add(field, fmt.Sprintf(msgRequired, label(field)))
		return "", false
	}
	if tag != "" {
		before := len(errs[field])
		errs.Var(field, value, tag)
		if len(errs[field]) > before {
			return "", false
		}
	}
	return value, true
}

// membershipError turns an unknown-user failure into a field error.
func membershipError(field string, err error) error {
	if errors.Is(err, repository.ErrUnknownUsers) {
		return validation.FieldError(field, fmt.Sprintf(msgInvalidSelection, label(field)))
	}
	return err
}
