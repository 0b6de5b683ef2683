// Package notify delivers account mail: the welcome message after registration and the
// verification and password reset codes.
package notify

import "context"

// Kind labels a message for logs and metrics.
const (
	KindWelcome      = "welcome"
	KindVerification = "verification_otp"
	KindReset        = "reset_otp"
)

// Notifier delivers account mail. An error means the message was not handed off.
type Notifier interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendVerificationOTP(ctx context.Context, email, code string) error
	SendResetOTP(ctx context.Context, email, code string) error
}
