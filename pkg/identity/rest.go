package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nexadigital/nexa-api/pkg/httpclient"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// SignInResult is the subset of accounts:signInWithPassword we use
type SignInResult struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Registered   bool   `json:"registered"`
}

type resetPasswordResponse struct {
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// RESTClient talks to the Identity Toolkit REST API with a web API key
type RESTClient struct {
	apiKey     string
	baseURL    string
	httpClient httpclient.Client
}

// NewRESTClient creates a REST client; baseURL defaults to the public endpoint
func NewRESTClient(apiKey, baseURL string, httpClient httpclient.Client) *RESTClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RESTClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// SignInWithPassword exchanges email and password for provider tokens
func (c *RESTClient) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	var result SignInResult
	err := c.call(ctx, "accounts:signInWithPassword", "", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SendPasswordResetEmail asks the provider to mail a reset link.
// locale selects the email template language.
func (c *RESTClient) SendPasswordResetEmail(ctx context.Context, email, locale string) error {
	return c.call(ctx, "accounts:sendOobCode", locale, map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// VerifyPasswordResetCode checks an out-of-band code and returns the
// email address it was issued for
func (c *RESTClient) VerifyPasswordResetCode(ctx context.Context, oobCode string) (string, error) {
	var result resetPasswordResponse
	if err := c.call(ctx, "accounts:resetPassword", "", map[string]any{
		"oobCode": oobCode,
	}, &result); err != nil {
		return "", err
	}
	return result.Email, nil
}

// ConfirmPasswordReset applies newPassword using the out-of-band code
func (c *RESTClient) ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error {
	return c.call(ctx, "accounts:resetPassword", "", map[string]any{
		"oobCode":     oobCode,
		"newPassword": newPassword,
	}, nil)
}

func (c *RESTClient) call(ctx context.Context, method, locale string, payload, out any) error {
	start := time.Now()

	if c.apiKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", c.baseURL, method, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if locale != "" {
		req.Header.Set("X-Firebase-Locale", locale)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, method, "error", start, zap.Error(err))
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(ctx, method, "error", start, zap.Error(err))
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode >= 300 {
		idErr := decodeError(resp.StatusCode, raw)
		c.record(ctx, method, "error", start,
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", idErr.Code))
		return idErr
	}

	c.record(ctx, method, "success", start)

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

func (c *RESTClient) record(ctx context.Context, method, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.IdentityRequestDuration.WithLabelValues(method, status).Observe(duration)
	metrics.IdentityRequestTotal.WithLabelValues(method, status).Inc()
	logger.LogAPICall(ctx, "identity_toolkit", method, status, duration, fields...)
}

func decodeError(status int, raw []byte) *Error {
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Error.Message == "" {
		return &Error{Code: CodeUnknown, Detail: http.StatusText(status), Status: status}
	}
	code, detail := parseMessage(body.Error.Message)
	return &Error{Code: code, Detail: detail, Status: status}
}
