// Package user defines the user domain model for authentication and profiles.
package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/contactd/contactd/internal/domain"
)

// Role represents the authorization level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ValidRoles is the set of all valid user roles.
var ValidRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// User represents a registered account. Contacts are scoped to their owner's
// User.ID, which is also the cache-isolation scope.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         Role      `json:"role"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRequest is the input for registering a new user.
type CreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks registration input.
func (r *CreateRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if len(r.Username) > 64 {
		return fmt.Errorf("%w: username too long (max 64)", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	return nil
}

// LoginRequest is the input for password authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks login input.
func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	return nil
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// Token purposes. Access tokens authenticate API calls; verify and reset
// tokens are single-purpose email links and must never be accepted as
// bearer credentials.
const (
	PurposeAccess = "access"
	PurposeVerify = "verify"
	PurposeReset  = "reset"
)

// TokenClaims is the payload carried inside a signed token.
type TokenClaims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Purpose  string `json:"purpose"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
	JTI      string `json:"jti"`
	Issuer   string `json:"iss"`
}

// ChangePasswordRequest is the input for an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate checks password change input.
func (r *ChangePasswordRequest) Validate() error {
	if r.OldPassword == "" {
		return fmt.Errorf("%w: old_password is required", domain.ErrValidation)
	}
	if len(r.NewPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	return nil
}

// RequestPasswordReset is the input for requesting a reset email.
type RequestPasswordReset struct {
	Email string `json:"email"`
}

// ResetPassword is the input for completing a password reset.
type ResetPassword struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Validate checks reset input.
func (r *ResetPassword) Validate() error {
	if r.Token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	if len(r.NewPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	return nil
}
