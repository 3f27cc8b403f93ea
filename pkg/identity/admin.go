package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// MaxPageSize is the largest page the user listing API returns
const MaxPageSize = 1000

// User is a directory entry as reported by the identity provider
type User struct {
	UID           string
	Email         string
	DisplayName   string
	PhotoURL      string
	Disabled      bool
	EmailVerified bool
	CreatedAt     time.Time
	LastSignInAt  time.Time
}

// Active reports whether the user has ever signed in
func (u User) Active() bool {
	return !u.LastSignInAt.IsZero()
}

// Page is one batch of the user listing
type Page struct {
	Users         []User
	NextPageToken string
}

// VerifiedToken is the identity extracted from a verified ID token
type VerifiedToken struct {
	User     User
	Provider string
}

// ProfileUpdate carries optional profile changes; nil fields are left alone
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
}

// AdminOptions configures the Admin SDK app
type AdminOptions struct {
	ProjectID       string
	CredentialsPath string
}

// Admin wraps the Firebase Admin SDK auth client
type Admin struct {
	client *auth.Client
}

// NewAdmin initializes the Firebase Admin SDK and returns an auth adapter
func NewAdmin(ctx context.Context, opts AdminOptions) (*Admin, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsPath))
	}

	var appConfig *firebase.Config
	if opts.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized", zap.String("project_id", opts.ProjectID))

	return &Admin{client: client}, nil
}

// ListUsers returns one page of the user directory starting at pageToken
func (a *Admin) ListUsers(ctx context.Context, pageSize int, pageToken string) (*Page, error) {
	start := time.Now()
	operation := "listUsers"

	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	pager := iterator.NewPager(a.client.Users(ctx, ""), pageSize, pageToken)

	var records []*auth.ExportedUserRecord
	next, err := pager.NextPage(&records)
	if err != nil {
		a.record(ctx, operation, "error", start, zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	page := &Page{
		Users:         make([]User, 0, len(records)),
		NextPageToken: next,
	}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		page.Users = append(page.Users, fromRecord(rec.UserRecord))
	}

	metrics.DirectoryPagesFetched.Inc()
	a.record(ctx, operation, "success", start, zap.Int("users", len(page.Users)))

	return page, nil
}

// VerifyIDToken verifies a client ID token and loads the user it belongs to
func (a *Admin) VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error) {
	start := time.Now()
	operation := "verifyIdToken"

	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		a.record(ctx, operation, "error", start, zap.Error(err))
		return nil, mapAdminError(err)
	}
	a.record(ctx, operation, "success", start)

	user, err := a.GetUser(ctx, token.UID)
	if err != nil {
		return nil, err
	}

	return &VerifiedToken{
		User:     *user,
		Provider: token.Firebase.SignInProvider,
	}, nil
}

// GetUser loads a single user record
func (a *Admin) GetUser(ctx context.Context, uid string) (*User, error) {
	start := time.Now()
	operation := "getUser"

	rec, err := a.client.GetUser(ctx, uid)
	if err != nil {
		a.record(ctx, operation, "error", start, zap.Error(err), zap.String("uid", uid))
		return nil, mapAdminError(err)
	}
	a.record(ctx, operation, "success", start)

	user := fromRecord(rec)
	return &user, nil
}

// UpdateProfile applies display name / photo changes and returns the result
func (a *Admin) UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) (*User, error) {
	if update.DisplayName == nil && update.PhotoURL == nil {
		return a.GetUser(ctx, uid)
	}

	start := time.Now()
	operation := "updateUser"

	params := &auth.UserToUpdate{}
	if update.DisplayName != nil {
		params = params.DisplayName(*update.DisplayName)
	}
	if update.PhotoURL != nil {
		params = params.PhotoURL(*update.PhotoURL)
	}

	rec, err := a.client.UpdateUser(ctx, uid, params)
	if err != nil {
		a.record(ctx, operation, "error", start, zap.Error(err), zap.String("uid", uid))
		return nil, mapAdminError(err)
	}
	a.record(ctx, operation, "success", start)

	user := fromRecord(rec)
	return &user, nil
}

// RevokeSessions invalidates every refresh token issued to uid
func (a *Admin) RevokeSessions(ctx context.Context, uid string) error {
	start := time.Now()
	operation := "revokeRefreshTokens"

	if err := a.client.RevokeRefreshTokens(ctx, uid); err != nil {
		a.record(ctx, operation, "error", start, zap.Error(err), zap.String("uid", uid))
		return mapAdminError(err)
	}
	a.record(ctx, operation, "success", start)
	return nil
}

func (a *Admin) record(ctx context.Context, operation, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.IdentityRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.IdentityRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall(ctx, "firebase_admin", operation, status, duration, fields...)
}

func fromRecord(rec *auth.UserRecord) User {
	if rec == nil {
		return User{}
	}

	var user User
	if rec.UserInfo != nil {
		user.UID = rec.UID
		user.Email = rec.Email
		user.DisplayName = rec.DisplayName
		user.PhotoURL = rec.PhotoURL
	}
	user.Disabled = rec.Disabled
	user.EmailVerified = rec.EmailVerified

	if rec.UserMetadata != nil {
		user.CreatedAt = fromMillis(rec.UserMetadata.CreationTimestamp)
		user.LastSignInAt = fromMillis(rec.UserMetadata.LastLogInTimestamp)
	}
	return user
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func mapAdminError(err error) error {
	switch {
	case auth.IsUserNotFound(err):
		return &Error{Code: CodeUserNotFound, Detail: err.Error(), Status: 400}
	case auth.IsIDTokenExpired(err), auth.IsIDTokenInvalid(err), auth.IsIDTokenRevoked(err):
		return &Error{Code: CodeInvalidIDToken, Detail: err.Error(), Status: 401}
	default:
		return err
	}
}
