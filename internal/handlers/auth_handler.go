package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/middleware"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/internal/services"
)

// AuthHandler handles sign-in, password reset and profile endpoints
type AuthHandler struct {
	service services.AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.startSession(c, user, token)
}

// FederatedSignIn handles POST /api/v1/auth/federated
func (h *AuthHandler) FederatedSignIn(c *gin.Context) {
	var req models.FederatedSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.service.FederatedSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.startSession(c, user, token)
}

// SignOut handles POST /api/v1/auth/sign-out. The cookie is cleared even
// without a valid session.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if user, err := middleware.GetUser(c); err == nil {
		h.service.SignOut(c.Request.Context(), user)
	}

	middleware.ClearSessionCookie(c, h.service.GetCookieDomain(), h.service.GetCookieSecure())
	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: i18n.T(middleware.GetLanguage(c), i18n.KeySignedOut),
	})
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		c.JSON(http.StatusOK, models.SessionResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Authenticated: true, User: user})
}

// RequestPasswordReset handles POST /api/v1/auth/password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lang := middleware.GetLanguage(c)
	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email, req.RecaptchaToken, lang); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: i18n.T(lang, i18n.KeyResetEmailSent),
	})
}

// VerifyPasswordResetCode handles POST /api/v1/auth/password-reset/verify
func (h *AuthHandler) VerifyPasswordResetCode(c *gin.Context) {
	var req models.VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	email, err := h.service.VerifyPasswordResetCode(c.Request.Context(), req.OOBCode)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyResetCodeResponse{Success: true, Email: email})
}

// ConfirmPasswordReset handles POST /api/v1/auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req models.ConfirmPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.service.ConfirmPasswordReset(c.Request.Context(), req.OOBCode, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: i18n.T(middleware.GetLanguage(c), i18n.KeyPasswordChanged),
	})
}

// UpdateProfile handles POST /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, i18n.T(middleware.GetLanguage(c), i18n.KeyErrUnauthorized), err)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, token, err := h.service.UpdateProfile(c.Request.Context(), user, &req)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.setCookie(c, token)
	c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		User:    updated,
		Message: i18n.T(middleware.GetLanguage(c), i18n.KeyProfileUpdated),
	})
}

// UploadProfilePicture handles POST /api/v1/auth/profile/picture
func (h *AuthHandler) UploadProfilePicture(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, i18n.T(middleware.GetLanguage(c), i18n.KeyErrUnauthorized), err)
		return
	}

	var req models.UploadProfilePictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	imageURL, updated, token, err := h.service.UploadPicture(c.Request.Context(), user, &req)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.setCookie(c, token)
	c.JSON(http.StatusOK, models.UploadProfilePictureResponse{
		Success:  true,
		ImageURL: imageURL,
		User:     updated,
	})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.Identity, token string) {
	h.setCookie(c, token)
	c.JSON(http.StatusOK, models.AuthResponse{Success: true, User: user})
}

func (h *AuthHandler) setCookie(c *gin.Context, token string) {
	middleware.SetSessionCookie(
		c,
		token,
		h.service.GetSessionTTL(),
		h.service.GetCookieDomain(),
		h.service.GetCookieSecure(),
	)
}
