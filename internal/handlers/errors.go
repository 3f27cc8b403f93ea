package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/middleware"
	apperrors "github.com/nexadigital/nexa-api/pkg/errors"
	"github.com/nexadigital/nexa-api/pkg/identity"
	"github.com/nexadigital/nexa-api/pkg/recaptcha"
	"github.com/nexadigital/nexa-api/pkg/storage"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondBindError reports a request that failed binding or validation
func respondBindError(c *gin.Context, err error) {
	lang := middleware.GetLanguage(c)
	if details := ParseValidationErrors(err); len(details) > 0 {
		respondErrorWithDetails(c, http.StatusBadRequest, i18n.T(lang, i18n.KeyErrValidation), details, err)
		return
	}
	respondError(c, http.StatusBadRequest, i18n.T(lang, i18n.KeyErrValidation), err)
}

// respondFlowError maps a dashboard guard failure to a localized 422, and
// anything else to a 500
func respondFlowError(c *gin.Context, err error) {
	lang := middleware.GetLanguage(c)
	if isFlowError(err) {
		respondErrorWithDetails(c, http.StatusUnprocessableEntity, i18n.T(lang, flow.MessageKey(err)), gin.H{"code": flow.MessageKey(err)}, err)
		return
	}
	respondError(c, http.StatusInternalServerError, i18n.T(lang, i18n.KeyErrInternal), err)
}

// respondAuthError maps identity provider, captcha and storage failures to
// localized messages
func respondAuthError(c *gin.Context, err error) {
	lang := middleware.GetLanguage(c)

	var idErr *identity.Error
	switch {
	case errors.Is(err, apperrors.ErrUnavailable), errors.Is(err, identity.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, i18n.T(lang, i18n.KeyErrUnavailable), err)
	case errors.Is(err, recaptcha.ErrVerificationFailed):
		respondError(c, http.StatusBadRequest, i18n.T(lang, i18n.KeyErrCaptcha), err)
	case errors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, i18n.T(lang, i18n.KeyErrValidation), err)
	case errors.Is(err, storage.ErrInvalidImageType), errors.Is(err, storage.ErrImageTooLarge), errors.Is(err, storage.ErrInvalidImageData):
		respondError(c, http.StatusBadRequest, i18n.T(lang, i18n.KeyErrInvalidImage), err)
	case errors.As(err, &idErr) && identity.IsUserError(err):
		attachError(c, err)
		c.JSON(authStatus(idErr), gin.H{
			"success": false,
			"code":    idErr.Code,
			"error":   i18n.AuthErrorMessage(lang, idErr.Code),
		})
	default:
		attachError(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    identity.CodeUnknown,
			"error":   i18n.AuthErrorMessage(lang, identity.CodeUnknown),
		})
	}
}

func authStatus(err *identity.Error) int {
	switch err.Code {
	case identity.CodeTooManyAttempts:
		return http.StatusTooManyRequests
	case identity.CodeInvalidIDToken:
		return http.StatusUnauthorized
	}
	if err.Status >= 400 && err.Status < 500 {
		return err.Status
	}
	return http.StatusBadRequest
}

func isFlowError(err error) bool {
	for _, target := range []error{
		flow.ErrNoService, flow.ErrUnknownService, flow.ErrEmptyDetail, flow.ErrEmptyQuestion,
		flow.ErrNoDeadline, flow.ErrNoDate, flow.ErrPastDate, flow.ErrSubmitting, flow.ErrInvalidTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
