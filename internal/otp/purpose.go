package otp

import (
	"errors"
	"strings"
	"time"
)

// Purpose selects which account slot a code belongs to. The set is closed.
type Purpose int

const (
	PurposeVerification Purpose = iota + 1
	PurposeReset
)

// Lifetimes of a freshly issued code, per purpose.
const (
	VerificationTTL = 24 * time.Hour
	ResetTTL        = 5 * time.Minute
)

// ErrUnknownPurpose is returned for a Purpose outside the closed set.
var ErrUnknownPurpose = errors.New("otp: unknown purpose")

// Valid reports whether p is one of the declared purposes.
func (p Purpose) Valid() bool {
	return p == PurposeVerification || p == PurposeReset
}

// TTL returns the lifetime of a code issued for p. Zero for an unknown purpose.
func (p Purpose) TTL() time.Duration {
	switch p {
	case PurposeVerification:
		return VerificationTTL
	case PurposeReset:
		return ResetTTL
	default:
		return 0
	}
}

func (p Purpose) String() string {
	switch p {
	case PurposeVerification:
		return "verification"
	case PurposeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ParsePurpose maps "verification" or "reset" (case-insensitive) to a Purpose.
func ParsePurpose(s string) (Purpose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verification", "verify":
		return PurposeVerification, nil
	case "reset":
		return PurposeReset, nil
	default:
		return 0, ErrUnknownPurpose
	}
}
