package services_test

import (
	"context"

	"github.com/nexadigital/nexa-api/pkg/identity"
	"github.com/stretchr/testify/mock"
)

// MockDirectoryLister is a mock implementation of DirectoryLister
type MockDirectoryLister struct {
	mock.Mock
}

func (m *MockDirectoryLister) ListUsers(ctx context.Context, pageSize int, pageToken string) (*identity.Page, error) {
	args := m.Called(ctx, pageSize, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Page), args.Error(1)
}

// MockPasswordAuthenticator is a mock implementation of PasswordAuthenticator
type MockPasswordAuthenticator struct {
	mock.Mock
}

func (m *MockPasswordAuthenticator) SignInWithPassword(ctx context.Context, email, password string) (*identity.SignInResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.SignInResult), args.Error(1)
}

func (m *MockPasswordAuthenticator) SendPasswordResetEmail(ctx context.Context, email, locale string) error {
	args := m.Called(ctx, email, locale)
	return args.Error(0)
}

func (m *MockPasswordAuthenticator) VerifyPasswordResetCode(ctx context.Context, oobCode string) (string, error) {
	args := m.Called(ctx, oobCode)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordAuthenticator) ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error {
	args := m.Called(ctx, oobCode, newPassword)
	return args.Error(0)
}

// MockIdentityAdmin is a mock implementation of IdentityAdmin
type MockIdentityAdmin struct {
	mock.Mock
}

func (m *MockIdentityAdmin) VerifyIDToken(ctx context.Context, idToken string) (*identity.VerifiedToken, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.VerifiedToken), args.Error(1)
}

func (m *MockIdentityAdmin) GetUser(ctx context.Context, uid string) (*identity.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockIdentityAdmin) UpdateProfile(ctx context.Context, uid string, update identity.ProfileUpdate) (*identity.User, error) {
	args := m.Called(ctx, uid, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockIdentityAdmin) RevokeSessions(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	args := m.Called(ctx, imageData, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) AvatarKey(uid, contentType string) string {
	args := m.Called(uid, contentType)
	return args.String(0)
}

// MockCaptchaVerifier is a mock implementation of CaptchaVerifier
type MockCaptchaVerifier struct {
	mock.Mock
}

func (m *MockCaptchaVerifier) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCaptchaVerifier) Verify(token string) error {
	args := m.Called(token)
	return args.Error(0)
}
