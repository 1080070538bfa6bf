// Package service implements the application's use cases on top of the
// database, cache, mail, and avatar ports.
package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/contactd/contactd/internal/cache"
	"github.com/contactd/contactd/internal/config"
	"github.com/contactd/contactd/internal/domain"
	"github.com/contactd/contactd/internal/domain/user"
	"github.com/contactd/contactd/internal/port/database"
	"github.com/contactd/contactd/internal/port/mailer"
)

// AuthService handles registration, login, email confirmation, and
// password lifecycle. Password changes invalidate the owner's cached
// responses so stale profile data cannot outlive the credentials that
// produced it.
type AuthService struct {
	store   database.Store
	mail    mailer.Mailer
	inv     cache.Invalidator
	cfg     *config.Auth
	baseURL string
	secret  []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.Store, mail mailer.Mailer, inv cache.Invalidator, cfg *config.Auth, baseURL string) *AuthService {
	return &AuthService{
		store:   store,
		mail:    mail,
		inv:     inv,
		cfg:     cfg,
		baseURL: baseURL,
		secret:  []byte(cfg.JWTSecret),
	}
}

// Register creates a new user with a bcrypt-hashed password and sends a
// verification email. Mail delivery is best-effort: a failed send is logged
// but does not roll back the registration.
func (s *AuthService) Register(ctx context.Context, req *user.CreateRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           generateID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.signJWT(u, user.PurposeVerify, s.cfg.EmailTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign verify token: %w", err)
	}
	if err := s.mail.SendVerification(ctx, u.Email, u.Username, s.baseURL, token); err != nil {
		slog.Warn("failed to send verification email", "user_id", u.ID, "error", err)
	}

	return u, nil
}

// Login authenticates a user by username and password and returns an access token.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	u, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	if !u.Confirmed {
		return nil, fmt.Errorf("%w: account not confirmed", domain.ErrUnauthorized)
	}

	accessToken, err := s.signJWT(u, user.PurposeAccess, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}

	return &user.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.cfg.AccessTokenExpiry.Seconds()),
		User:        *u,
	}, nil
}

// ValidateAccessToken verifies a bearer token. Verify and reset tokens are
// rejected here regardless of signature validity.
func (s *AuthService) ValidateAccessToken(tokenStr string) (*user.TokenClaims, error) {
	claims, err := s.verifyJWT(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != user.PurposeAccess {
		return nil, errors.New("token is not an access token")
	}
	return claims, nil
}

// ConfirmEmail marks the account from a verification token as confirmed.
// Confirming an already-confirmed account is a no-op.
func (s *AuthService) ConfirmEmail(ctx context.Context, tokenStr string) (*user.User, error) {
	claims, err := s.verifyJWT(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, err)
	}
	if claims.Purpose != user.PurposeVerify {
		return nil, fmt.Errorf("%w: token is not a verification token", domain.ErrUnauthorized)
	}

	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u.Confirmed {
		return u, nil
	}

	u.Confirmed = true
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("confirm user: %w", err)
	}
	return u, nil
}

// RequestPasswordReset emails a reset link to the given address. To avoid
// account enumeration the call succeeds even when no such account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}

	token, err := s.signJWT(u, user.PurposeReset, s.cfg.EmailTokenExpiry)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}
	if err := s.mail.SendPasswordReset(ctx, u.Email, u.Username, s.baseURL, token); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ValidateResetToken checks a reset token without consuming it, so a reset
// form can be shown before the user submits a new password.
func (s *AuthService) ValidateResetToken(tokenStr string) (*user.TokenClaims, error) {
	claims, err := s.verifyJWT(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, err)
	}
	if claims.Purpose != user.PurposeReset {
		return nil, fmt.Errorf("%w: token is not a reset token", domain.ErrUnauthorized)
	}
	return claims, nil
}

// ResetPassword sets a new password from a reset token and invalidates the
// owner's cached responses.
func (s *AuthService) ResetPassword(ctx context.Context, req user.ResetPassword) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	claims, err := s.ValidateResetToken(req.Token)
	if err != nil {
		return err
	}

	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u.PasswordHash = string(hash)
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.inv.InvalidateOwner(ctx, u.ID)
	return nil
}

// ChangePassword verifies the old password, sets the new one, and
// invalidates the owner's cached responses.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req user.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u.PasswordHash = string(hash)
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.inv.InvalidateOwner(ctx, userID)
	return nil
}

// jwtHeader is the fixed base64url-encoded header for HS256.
var jwtHeader = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

const jwtIssuer = "contactd"

func (s *AuthService) signJWT(u *user.User, purpose string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := user.TokenClaims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Purpose:  purpose,
		IssuedAt: now.Unix(),
		Expiry:   now.Add(expiry).Unix(),
		JTI:      generateID(),
		Issuer:   jwtIssuer,
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payloadB64 := base64URLEncode(payload)
	signingInput := jwtHeader + "." + payloadB64

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	sig := base64URLEncode(mac.Sum(nil))

	return signingInput + "." + sig, nil
}

func (s *AuthService) verifyJWT(tokenStr string) (*user.TokenClaims, error) {
	parts := strings.SplitN(tokenStr, ".", 3)
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}

	signingInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	expectedSig := base64URLEncode(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return nil, errors.New("invalid signature")
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var claims user.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	if time.Now().Unix() > claims.Expiry {
		return nil, errors.New("token expired")
	}
	if claims.Issuer != jwtIssuer {
		return nil, errors.New("invalid token issuer")
	}

	return &claims, nil
}

// --- Helpers ---

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	// Add padding back
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}

// generateID produces a UUID v4 string using crypto/rand.
func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
