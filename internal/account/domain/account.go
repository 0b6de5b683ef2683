package domain

import (
	"time"

	"authify/backend/internal/otp"
)

// Slot is a pending one-time code. A nil *Slot means no code is pending, so hash and expiry are
// always present together.
type Slot struct {
	CodeHash  string
	ExpiresAt time.Time
}

// Account is the durable credential record.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Verified     bool

	VerificationOTP *Slot
	ResetOTP        *Slot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is the part of an account that may leave the service.
type Summary struct {
	ID       string
	Name     string
	Email    string
	Verified bool
}

// Summary returns the public view of a.
func (a *Account) Summary() *Summary {
	return &Summary{ID: a.ID, Name: a.Name, Email: a.Email, Verified: a.Verified}
}

func (a *Account) slot(p otp.Purpose) **Slot {
	switch p {
	case PurposeVerification:
		return &a.VerificationOTP
	case PurposeReset:
		return &a.ResetOTP
	default:
		return nil
	}
}

// Pending returns the pending slot for p, or nil.
func (a *Account) Pending(p otp.Purpose) *Slot {
	s := a.slot(p)
	if s == nil {
		return nil
	}
	return *s
}

// SetOTP stores the digest of code in the slot for p, replacing whatever was pending.
func (a *Account) SetOTP(p otp.Purpose, code string, expiresAt, now time.Time) {
	s := a.slot(p)
	if s == nil {
		return
	}
	*s = &Slot{CodeHash: otp.Hash(code), ExpiresAt: expiresAt}
	a.UpdatedAt = now
}

// CheckOTP decides whether code may be consumed from the slot for p at now.
// Failures are reported in a fixed order: missing, then mismatch, then expired.
// A code is still accepted at the instant it expires.
// It does not mutate the account.
func (a *Account) CheckOTP(p otp.Purpose, code string, now time.Time) error {
	pending := a.Pending(p)
	if pending == nil {
		return ErrOTPMissing
	}
	if !otp.Equal(code, pending.CodeHash) {
		return ErrOTPMismatch
	}
	if now.After(pending.ExpiresAt) {
		return ErrOTPExpired
	}
	return nil
}

// MarkVerified consumes the verification code. Verified never goes back to false.
func (a *Account) MarkVerified(now time.Time) {
	a.Verified = true
	a.VerificationOTP = nil
	a.UpdatedAt = now
}

// ReplacePassword consumes the reset code and installs a new credential hash.
func (a *Account) ReplacePassword(passwordHash string, now time.Time) {
	a.PasswordHash = passwordHash
	a.ResetOTP = nil
	a.UpdatedAt = now
}

// Aliases so callers of this package need not import otp for the common case.
const (
	PurposeVerification = otp.PurposeVerification
	PurposeReset        = otp.PurposeReset
)
