package domain

import "time"

// Actions recorded for account lifecycle events.
const (
	ActionRegister          = "register"
	ActionLoginSuccess      = "login_success"
	ActionLoginFailure      = "login_failure"
	ActionLogout            = "logout"
	ActionVerifyOTPSent     = "verify_otp_sent"
	ActionEmailVerified     = "email_verified"
	ActionVerifyOTPRejected = "verify_otp_rejected"
	ActionResetOTPSent      = "reset_otp_sent"
	ActionPasswordReset     = "password_reset"
	ActionResetOTPRejected  = "reset_otp_rejected"
)

// ResourceAccount is the resource every account event refers to.
const ResourceAccount = "account"

// AuditLog is one persisted audit event. AccountID is empty when the actor is unknown,
// for example a login attempt against an email with no account.
type AuditLog struct {
	ID        string
	AccountID string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
