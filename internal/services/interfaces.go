package services

import (
	"context"

	"github.com/nexadigital/nexa-api/internal/compose"
	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/pkg/identity"
	"github.com/nexadigital/nexa-api/pkg/jwt"
)

// DirectoryLister pages through the identity provider's users
type DirectoryLister interface {
	ListUsers(ctx context.Context, pageSize int, pageToken string) (*identity.Page, error)
}

// PasswordAuthenticator covers the email/password and reset REST calls
type PasswordAuthenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.SignInResult, error)
	SendPasswordResetEmail(ctx context.Context, email, locale string) error
	VerifyPasswordResetCode(ctx context.Context, oobCode string) (string, error)
	ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error
}

// IdentityAdmin covers the Admin SDK calls made on behalf of a user
type IdentityAdmin interface {
	VerifyIDToken(ctx context.Context, idToken string) (*identity.VerifiedToken, error)
	GetUser(ctx context.Context, uid string) (*identity.User, error)
	UpdateProfile(ctx context.Context, uid string, update identity.ProfileUpdate) (*identity.User, error)
	RevokeSessions(ctx context.Context, uid string) error
}

// ImageStorage stores uploaded profile pictures
type ImageStorage interface {
	UploadImage(ctx context.Context, imageData, key, contentType string) (string, error)
	AvatarKey(uid, contentType string) string
}

// CaptchaVerifier checks a reCAPTCHA token
type CaptchaVerifier interface {
	Enabled() bool
	Verify(token string) error
}

// DirectoryServiceInterface defines the directory aggregation operations
type DirectoryServiceInterface interface {
	Count(ctx context.Context) (*models.DirectoryStats, error)
	Avatars(ctx context.Context) ([]models.AvatarUser, error)
}

// AuthServiceInterface defines the authentication flows
type AuthServiceInterface interface {
	SignIn(ctx context.Context, email, password string) (*models.Identity, string, error)
	FederatedSignIn(ctx context.Context, idToken string) (*models.Identity, string, error)
	SignOut(ctx context.Context, user *models.Identity)
	RequestPasswordReset(ctx context.Context, email, captchaToken string, lang i18n.Lang) error
	VerifyPasswordResetCode(ctx context.Context, oobCode string) (string, error)
	ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error
	UpdateProfile(ctx context.Context, user *models.Identity, req *models.UpdateProfileRequest) (*models.Identity, string, error)
	UploadPicture(ctx context.Context, user *models.Identity, req *models.UploadProfilePictureRequest) (string, *models.Identity, string, error)
	GetTokenManager() *jwt.TokenManager
	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
}

// RequestServiceInterface drives a user's dashboard flow
type RequestServiceInterface interface {
	Current(ctx context.Context, user *models.Identity, lang i18n.Lang) (flow.Flow, error)
	Apply(ctx context.Context, user *models.Identity, lang i18n.Lang, req *models.FlowActionRequest) (flow.Flow, error)
	SubmitProject(ctx context.Context, user *models.Identity, lang i18n.Lang) (flow.Flow, compose.Handoff, error)
	SubmitQuestion(ctx context.Context, user *models.Identity, lang i18n.Lang) (flow.Flow, compose.Handoff, error)
	View(f flow.Flow) models.FlowView
}

// Ensure services implement their interfaces
var _ DirectoryServiceInterface = (*DirectoryService)(nil)
var _ AuthServiceInterface = (*AuthService)(nil)
var _ RequestServiceInterface = (*RequestService)(nil)
