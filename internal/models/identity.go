package models

// Identity is the signed-in user as observed from the identity provider.
// It is carried in the session token and never stored.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// SignInRequest is the email/password sign-in payload
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FederatedSignInRequest carries an ID token obtained by the browser from
// a federated provider popup or redirect
type FederatedSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// PasswordResetRequest asks for a reset email
type PasswordResetRequest struct {
	Email          string `json:"email" binding:"required,email"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// VerifyResetCodeRequest checks an out-of-band code before showing the new password form
type VerifyResetCodeRequest struct {
	OOBCode string `json:"oobCode" binding:"required"`
}

// ConfirmPasswordResetRequest sets a new password
type ConfirmPasswordResetRequest struct {
	OOBCode     string `json:"oobCode" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=128"`
}

// UpdateProfileRequest changes display name and/or photo URL
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,min=1,max=100"`
	PhotoURL    *string `json:"photoURL" binding:"omitempty,url"`
}

// UploadProfilePictureRequest carries a base64 image
type UploadProfilePictureRequest struct {
	Image       string `json:"image" binding:"required"`
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
}

// AuthResponse is returned by the sign-in, session and profile endpoints
type AuthResponse struct {
	Success bool      `json:"success"`
	User    *Identity `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
}

// SessionResponse reports the current session
type SessionResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *Identity `json:"user,omitempty"`
}

// VerifyResetCodeResponse reports the account a reset code belongs to
type VerifyResetCodeResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
}

// MessageResponse is a generic success acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UploadProfilePictureResponse returns the new photo URL
type UploadProfilePictureResponse struct {
	Success  bool      `json:"success"`
	ImageURL string    `json:"imageUrl"`
	User     *Identity `json:"user,omitempty"`
}
