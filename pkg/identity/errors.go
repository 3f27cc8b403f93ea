package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Provider error codes the API surfaces to users
const (
	CodeEmailNotFound           = "EMAIL_NOT_FOUND"
	CodeInvalidPassword         = "INVALID_PASSWORD"
	CodeInvalidLoginCredentials = "INVALID_LOGIN_CREDENTIALS"
	CodeUserDisabled            = "USER_DISABLED"
	CodeTooManyAttempts         = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeInvalidEmail            = "INVALID_EMAIL"
	CodeMissingPassword         = "MISSING_PASSWORD"
	CodeWeakPassword            = "WEAK_PASSWORD"
	CodeExpiredOOBCode          = "EXPIRED_OOB_CODE"
	CodeInvalidOOBCode          = "INVALID_OOB_CODE"
	CodeInvalidIDToken          = "INVALID_ID_TOKEN"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeOperationNotAllowed     = "OPERATION_NOT_ALLOWED"
	CodeUnknown                 = "UNKNOWN"
)

// ErrNotConfigured is returned when the provider credentials are missing
var ErrNotConfigured = errors.New("identity provider not configured")

// Error is a provider-side failure carrying the provider's error code
type Error struct {
	Code   string
	Detail string
	Status int
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("identity: %s: %s", e.Code, e.Detail)
	}
	return "identity: " + e.Code
}

// parseMessage splits "WEAK_PASSWORD : Password should be at least 6 characters"
func parseMessage(message string) (code, detail string) {
	code, detail, _ = strings.Cut(message, ":")
	code = strings.TrimSpace(code)
	detail = strings.TrimSpace(detail)
	if code == "" {
		code = CodeUnknown
	}
	return code, detail
}

// ErrorCode returns the provider code carried by err, or "" when err did
// not come from the provider
func ErrorCode(err error) string {
	var idErr *Error
	if errors.As(err, &idErr) {
		return idErr.Code
	}
	return ""
}

// IsUserError reports whether err is caused by the caller's input rather
// than by provider availability
func IsUserError(err error) bool {
	var idErr *Error
	if !errors.As(err, &idErr) {
		return false
	}
	return idErr.Status < 500 && idErr.Code != CodeUnknown
}
