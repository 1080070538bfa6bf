package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contactd/contactd/internal/config"
	"github.com/contactd/contactd/internal/domain"
	"github.com/contactd/contactd/internal/domain/user"
)

func newTestAuthService(store *mockStore, mail *mockMailer, inv *recordingInvalidator) *AuthService {
	cfg := config.Auth{
		JWTSecret:         "test-secret-key-must-be-long-enough",
		AccessTokenExpiry: 15 * time.Minute,
		EmailTokenExpiry:  24 * time.Hour,
		BcryptCost:        4, // low cost for fast tests
	}
	return NewAuthService(store, mail, inv, &cfg, "http://localhost:8080")
}

func register(t *testing.T, svc *AuthService) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), &user.CreateRequest{
		Username: "john",
		Email:    "john@example.com",
		Password: "Password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestAuthService_RegisterSendsVerification(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	svc := newTestAuthService(store, mail, &recordingInvalidator{})

	u := register(t, svc)
	if u.Confirmed {
		t.Error("new user should not be confirmed")
	}
	if u.Role != user.RoleUser {
		t.Errorf("role = %q, want user", u.Role)
	}
	if len(mail.verifications) != 1 || mail.verifications[0] != "john@example.com" {
		t.Errorf("verifications = %v, want one to john@example.com", mail.verifications)
	}
}

func TestAuthService_RegisterSurvivesMailFailure(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{sendErr: errors.New("smtp down")}
	svc := newTestAuthService(store, mail, &recordingInvalidator{})

	u := register(t, svc)
	if _, err := store.GetUser(context.Background(), u.ID); err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
}

func TestAuthService_LoginRequiresConfirmation(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	svc := newTestAuthService(store, mail, &recordingInvalidator{})
	ctx := context.Background()

	register(t, svc)

	_, err := svc.Login(ctx, user.LoginRequest{Username: "john", Password: "Password123"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("login before confirmation: err = %v, want ErrUnauthorized", err)
	}

	if _, err := svc.ConfirmEmail(ctx, mail.lastToken); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	resp, err := svc.Login(ctx, user.LoginRequest{Username: "john", Password: "Password123"})
	if err != nil {
		t.Fatalf("login after confirmation: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("access token is empty")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token type = %q, want bearer", resp.TokenType)
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.Username != "john" {
		t.Errorf("claims username = %q, want john", claims.Username)
	}
	if claims.Purpose != user.PurposeAccess {
		t.Errorf("claims purpose = %q, want access", claims.Purpose)
	}
}

func TestAuthService_InvalidLogin(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	svc := newTestAuthService(store, mail, &recordingInvalidator{})
	ctx := context.Background()

	register(t, svc)
	if _, err := svc.ConfirmEmail(ctx, mail.lastToken); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := svc.Login(ctx, user.LoginRequest{Username: "john", Password: "wrongpassword"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("wrong password: err = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login(ctx, user.LoginRequest{Username: "nobody", Password: "Password123"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("unknown user: err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthService_EmailTokenRejectedAsBearer(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	svc := newTestAuthService(store, mail, &recordingInvalidator{})

	register(t, svc)

	// mail.lastToken is a verify-purpose token; it must not grant API access.
	if _, err := svc.ValidateAccessToken(mail.lastToken); err == nil {
		t.Fatal("verification token accepted as access token")
	}
}

func TestAuthService_TamperedTokenRejected(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	svc := newTestAuthService(store, mail, &recordingInvalidator{})
	ctx := context.Background()

	register(t, svc)
	if _, err := svc.ConfirmEmail(ctx, mail.lastToken); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	resp, err := svc.Login(ctx, user.LoginRequest{Username: "john", Password: "Password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	tampered := resp.AccessToken[:len(resp.AccessToken)-2] + "xx"
	if _, err := svc.ValidateAccessToken(tampered); err == nil {
		t.Fatal("tampered token accepted")
	}
	if _, err := svc.ValidateAccessToken("not.a.jwt"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestAuthService_PasswordReset(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	inv := &recordingInvalidator{}
	svc := newTestAuthService(store, mail, inv)
	ctx := context.Background()

	u := register(t, svc)
	if _, err := svc.ConfirmEmail(ctx, mail.lastToken); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "john@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(mail.resets) != 1 {
		t.Fatalf("resets = %v, want one", mail.resets)
	}

	if _, err := svc.ValidateResetToken(mail.lastToken); err != nil {
		t.Fatalf("validate reset token: %v", err)
	}

	err := svc.ResetPassword(ctx, user.ResetPassword{Token: mail.lastToken, NewPassword: "Newpassword1"})
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}

	// Owner scope dropped after the credential change.
	if calls := inv.calls(); len(calls) != 1 || calls[0] != u.ID {
		t.Errorf("invalidations = %v, want [%s]", calls, u.ID)
	}

	if _, err := svc.Login(ctx, user.LoginRequest{Username: "john", Password: "Password123"}); err == nil {
		t.Error("old password still accepted")
	}
	if _, err := svc.Login(ctx, user.LoginRequest{Username: "john", Password: "Newpassword1"}); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestAuthService_ResetRequestHidesUnknownEmail(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	svc := newTestAuthService(store, mail, &recordingInvalidator{})

	if err := svc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("reset for unknown email should not error: %v", err)
	}
	if len(mail.resets) != 0 {
		t.Errorf("resets = %v, want none", mail.resets)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	store := &mockStore{}
	mail := &mockMailer{}
	inv := &recordingInvalidator{}
	svc := newTestAuthService(store, mail, inv)
	ctx := context.Background()

	u := register(t, svc)

	err := svc.ChangePassword(ctx, u.ID, user.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "Newpassword1",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong old password: err = %v, want ErrUnauthorized", err)
	}
	if len(inv.calls()) != 0 {
		t.Error("failed change must not invalidate")
	}

	err = svc.ChangePassword(ctx, u.ID, user.ChangePasswordRequest{
		OldPassword: "Password123",
		NewPassword: "Newpassword1",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if calls := inv.calls(); len(calls) != 1 || calls[0] != u.ID {
		t.Errorf("invalidations = %v, want [%s]", calls, u.ID)
	}
}
