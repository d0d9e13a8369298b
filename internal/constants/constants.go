package constants

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "pm_session"
)

// Pagination
const (
	PageSize = 10
	MinPage  = 1
)

// Validation limits
const (
	MinPasswordLength = 6
	MaxNameLength     = 255
	MaxCommentLength  = 5000
)
