package handlers

import (
	"context"

	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/pkg/jwt"
	"github.com/stretchr/testify/mock"
)

type mockDirectoryService struct {
	mock.Mock
}

func (m *mockDirectoryService) Count(ctx context.Context) (*models.DirectoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DirectoryStats), args.Error(1)
}

func (m *mockDirectoryService) Avatars(ctx context.Context) ([]models.AvatarUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvatarUser), args.Error(1)
}

type mockAuthService struct {
	mock.Mock
	tokens *jwt.TokenManager
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*models.Identity, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Identity), args.String(1), args.Error(2)
}

func (m *mockAuthService) FederatedSignIn(ctx context.Context, idToken string) (*models.Identity, string, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Identity), args.String(1), args.Error(2)
}

func (m *mockAuthService) SignOut(ctx context.Context, user *models.Identity) {
	m.Called(ctx, user)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email, captchaToken string, lang i18n.Lang) error {
	args := m.Called(ctx, email, captchaToken, lang)
	return args.Error(0)
}

func (m *mockAuthService) VerifyPasswordResetCode(ctx context.Context, oobCode string) (string, error) {
	args := m.Called(ctx, oobCode)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error {
	args := m.Called(ctx, oobCode, newPassword)
	return args.Error(0)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, user *models.Identity, req *models.UpdateProfileRequest) (*models.Identity, string, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Identity), args.String(1), args.Error(2)
}

func (m *mockAuthService) UploadPicture(ctx context.Context, user *models.Identity, req *models.UploadProfilePictureRequest) (string, *models.Identity, string, error) {
	args := m.Called(ctx, user, req)
	if args.Get(1) == nil {
		return "", nil, "", args.Error(3)
	}
	return args.String(0), args.Get(1).(*models.Identity), args.String(2), args.Error(3)
}

func (m *mockAuthService) GetTokenManager() *jwt.TokenManager { return m.tokens }
func (m *mockAuthService) GetSessionTTL() int                 { return 3600 }
func (m *mockAuthService) GetCookieDomain() string            { return "" }
func (m *mockAuthService) GetCookieSecure() bool              { return true }
