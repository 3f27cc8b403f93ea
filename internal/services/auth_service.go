package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexadigital/nexa-api/config"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/internal/session"
	apperrors "github.com/nexadigital/nexa-api/pkg/errors"
	"github.com/nexadigital/nexa-api/pkg/identity"
	"github.com/nexadigital/nexa-api/pkg/jwt"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	"github.com/nexadigital/nexa-api/pkg/storage"
	"go.uber.org/zap"
)

const providerPassword = "password"

// AuthService runs the sign-in, reset and profile flows against the
// identity provider and issues session tokens
type AuthService struct {
	rest         PasswordAuthenticator
	admin        IdentityAdmin
	storage      ImageStorage
	captcha      CaptchaVerifier
	tokenManager *jwt.TokenManager
	hub          *session.Hub
	config       *config.Config
}

// AuthDeps groups the collaborators of AuthService; Admin, Storage and
// Captcha may be nil when not configured
type AuthDeps struct {
	REST    PasswordAuthenticator
	Admin   IdentityAdmin
	Storage ImageStorage
	Captcha CaptchaVerifier
	Hub     *session.Hub
}

// NewAuthService creates a new auth service instance
func NewAuthService(deps AuthDeps, cfg *config.Config) *AuthService {
	return &AuthService{
		rest:    deps.REST,
		admin:   deps.Admin,
		storage: deps.Storage,
		captcha: deps.Captcha,
		hub:     deps.Hub,
		config:  cfg,
		tokenManager: jwt.NewTokenManager(
			cfg.Session.JWTSecret,
			cfg.Session.JWTIssuer,
			cfg.Session.TTLHours,
		),
	}
}

// SignIn verifies email and password and issues a session token
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Identity, string, error) {
	result, err := s.rest.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues(providerPassword, "failed").Inc()
		logger.Warn("Password sign-in failed",
			zap.String("code", identity.ErrorCode(err)),
			zap.Error(err))
		return nil, "", err
	}

	user := &models.Identity{
		UID:         result.LocalID,
		Email:       result.Email,
		DisplayName: result.DisplayName,
		Provider:    providerPassword,
	}

	// The REST response has no photo; fill it from the admin record when we can
	if s.admin != nil {
		if rec, err := s.admin.GetUser(ctx, result.LocalID); err == nil {
			user.PhotoURL = rec.PhotoURL
			if user.DisplayName == "" {
				user.DisplayName = rec.DisplayName
			}
		} else {
			logger.Warn("Failed to load user record after sign-in", zap.String("uid", result.LocalID), zap.Error(err))
		}
	}

	return s.startSession(user)
}

// FederatedSignIn verifies an ID token from a federated provider popup or redirect
func (s *AuthService) FederatedSignIn(ctx context.Context, idToken string) (*models.Identity, string, error) {
	if s.admin == nil {
		return nil, "", apperrors.UnavailableError("identity admin", identity.ErrNotConfigured)
	}

	verified, err := s.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("federated", "failed").Inc()
		logger.Warn("Federated sign-in failed", zap.Error(err))
		return nil, "", err
	}

	user := identityFromUser(verified.User, verified.Provider)
	return s.startSession(user)
}

// SignOut revokes provider refresh tokens and announces the sign-out.
// Failures are logged; the caller clears the cookie regardless.
func (s *AuthService) SignOut(ctx context.Context, user *models.Identity) {
	if user == nil {
		return
	}

	if s.admin != nil {
		if err := s.admin.RevokeSessions(ctx, user.UID); err != nil {
			logger.Warn("Failed to revoke refresh tokens", zap.String("uid", user.UID), zap.Error(err))
		}
	}

	metrics.ActiveSessions.Dec()
	s.publish(session.SignedOut, user)
	logger.Info("User signed out", zap.String("uid", user.UID))
}

// RequestPasswordReset verifies the captcha (when configured) and asks the
// provider to send a reset email in lang
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, captchaToken string, lang i18n.Lang) error {
	if s.captcha != nil && s.captcha.Enabled() {
		if err := s.captcha.Verify(captchaToken); err != nil {
			logger.Warn("ReCAPTCHA verification failed", zap.Error(err))
			return err
		}
	}

	if err := s.rest.SendPasswordResetEmail(ctx, strings.TrimSpace(email), string(lang)); err != nil {
		logger.Warn("Password reset request failed",
			zap.String("code", identity.ErrorCode(err)),
			zap.Error(err))
		return err
	}

	logger.Info("Password reset email requested")
	return nil
}

// VerifyPasswordResetCode returns the email the reset code was issued for
func (s *AuthService) VerifyPasswordResetCode(ctx context.Context, oobCode string) (string, error) {
	return s.rest.VerifyPasswordResetCode(ctx, oobCode)
}

// ConfirmPasswordReset sets the new password
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error {
	if err := s.rest.ConfirmPasswordReset(ctx, oobCode, newPassword); err != nil {
		logger.Warn("Password reset confirmation failed",
			zap.String("code", identity.ErrorCode(err)),
			zap.Error(err))
		return err
	}
	return nil
}

// UpdateProfile changes display name / photo and re-issues the session token
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.Identity, req *models.UpdateProfileRequest) (*models.Identity, string, error) {
	if s.admin == nil {
		return nil, "", apperrors.UnavailableError("identity admin", identity.ErrNotConfigured)
	}

	update := identity.ProfileUpdate{PhotoURL: req.PhotoURL}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, "", apperrors.InvalidInputError("displayName", "must not be blank")
		}
		update.DisplayName = &name
	}

	rec, err := s.admin.UpdateProfile(ctx, user.UID, update)
	if err != nil {
		logger.Error("Failed to update profile", zap.String("uid", user.UID), zap.Error(err))
		return nil, "", err
	}

	updated := identityFromUser(*rec, user.Provider)
	token, err := s.tokenManager.GenerateToken(toTokenIdentity(updated))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.publish(session.ProfileUpdated, updated)
	logger.Info("Profile updated", zap.String("uid", user.UID))

	return updated, token, nil
}

// UploadPicture stores a new profile picture and points the profile at it
func (s *AuthService) UploadPicture(ctx context.Context, user *models.Identity, req *models.UploadProfilePictureRequest) (string, *models.Identity, string, error) {
	if s.storage == nil {
		return "", nil, "", apperrors.UnavailableError("object storage", nil)
	}

	if err := storage.ValidateImageType(req.ContentType); err != nil {
		return "", nil, "", err
	}
	if err := storage.ValidateImageSize(req.Image); err != nil {
		return "", nil, "", err
	}

	key := s.storage.AvatarKey(user.UID, req.ContentType)
	imageURL, err := s.storage.UploadImage(ctx, req.Image, key, req.ContentType)
	if err != nil {
		logger.Error("Failed to upload profile picture", zap.String("uid", user.UID), zap.Error(err))
		return "", nil, "", err
	}

	updated, token, err := s.UpdateProfile(ctx, user, &models.UpdateProfileRequest{PhotoURL: &imageURL})
	if err != nil {
		return "", nil, "", err
	}

	return imageURL, updated, token, nil
}

func (s *AuthService) startSession(user *models.Identity) (*models.Identity, string, error) {
	token, err := s.tokenManager.GenerateToken(toTokenIdentity(user))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues(user.Provider, "success").Inc()
	metrics.ActiveSessions.Inc()
	s.publish(session.SignedIn, user)

	logger.Info("User signed in",
		zap.String("uid", user.UID),
		zap.String("provider", user.Provider))

	return user, token, nil
}

func (s *AuthService) publish(t session.EventType, user *models.Identity) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(session.Event{
		Type:     t,
		UID:      user.UID,
		Email:    user.Email,
		Provider: user.Provider,
	})
}

// GetTokenManager returns the session token manager
func (s *AuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}

// GetSessionTTL returns the session lifetime in seconds
func (s *AuthService) GetSessionTTL() int {
	return int(s.tokenManager.TTL().Seconds())
}

// GetCookieDomain returns the session cookie domain
func (s *AuthService) GetCookieDomain() string {
	return s.config.Session.CookieDomain
}

// GetCookieSecure returns whether the session cookie is Secure
func (s *AuthService) GetCookieSecure() bool {
	return s.config.Session.CookieSecure
}

func identityFromUser(u identity.User, provider string) *models.Identity {
	return &models.Identity{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Provider:    provider,
	}
}

func toTokenIdentity(u *models.Identity) jwt.Identity {
	return jwt.Identity{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Provider:    u.Provider,
	}
}

// IdentityFromClaims rebuilds the session identity from token claims
func IdentityFromClaims(claims *jwt.SessionClaims) *models.Identity {
	return &models.Identity{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		PhotoURL:    claims.PhotoURL,
		Provider:    claims.Provider,
	}
}
