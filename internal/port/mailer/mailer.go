// Package mailer defines the outbound email port.
package mailer

import "context"

// Mailer delivers transactional mail. Delivery is best effort: callers log
// failures but do not fail the triggering request.
type Mailer interface {
	// SendVerification sends an address-confirmation link built from baseURL
	// and token.
	SendVerification(ctx context.Context, to, username, baseURL, token string) error

	// SendPasswordReset sends a password-reset link built from baseURL and
	// token.
	SendPasswordReset(ctx context.Context, to, username, baseURL, token string) error
}
