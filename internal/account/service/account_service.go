// Package service implements the OTP workflows that gate account state: email verification and
// password reset, plus the profile lookup for the signed-in account.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"authify/backend/internal/account/domain"
	"authify/backend/internal/audit"
	auditdomain "authify/backend/internal/audit/domain"
	"authify/backend/internal/metrics"
	"authify/backend/internal/otp"
	"authify/backend/internal/telemetry"
	telemetrydomain "authify/backend/internal/telemetry/domain"
)

const eventSource = "account_service"

// AccountRepo is the minimal account repository needed by the account service.
type AccountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Upsert(ctx context.Context, a *domain.Account) error
}

// PasswordHasher hashes a replacement password.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
}

// OTPGenerator produces a fresh code and its expiry for a purpose.
type OTPGenerator interface {
	Generate(purpose otp.Purpose) (code string, expiresAt time.Time, err error)
}

// OTPNotifier delivers issued codes.
type OTPNotifier interface {
	SendVerificationOTP(ctx context.Context, email, code string) error
	SendResetOTP(ctx context.Context, email, code string) error
}

// AccountService runs the verification and password reset OTP workflows.
// Concurrent operations on the same account are last-writer-wins.
type AccountService struct {
	repo     AccountRepo
	hasher   PasswordHasher
	otps     OTPGenerator
	notifier OTPNotifier

	audit   audit.AuditLogger
	emitter telemetry.EventEmitter
	metrics *metrics.Metrics
	log     *slog.Logger
	nowF    func() time.Time
}

// NewAccountService returns an AccountService with the given dependencies.
func NewAccountService(repo AccountRepo, hasher PasswordHasher, otps OTPGenerator, notifier OTPNotifier, opts ...Option) *AccountService {
	s := &AccountService{
		repo:     repo,
		hasher:   hasher,
		otps:     otps,
		notifier: notifier,
		log:      slog.Default(),
		nowF:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueVerificationOTP generates a 24 hour code, stores it on the account (replacing any pending
// one) and mails it. For an already verified account it does nothing. A delivery failure returns
// an error wrapping domain.ErrDeliveryFailed; the stored code is kept.
func (s *AccountService) IssueVerificationOTP(ctx context.Context, email string) error {
	return s.issue(ctx, email, otp.PurposeVerification)
}

// IssueResetOTP generates a 5 minute code, stores it on the account (replacing any pending one)
// and mails it. Delivery failures behave as in IssueVerificationOTP.
func (s *AccountService) IssueResetOTP(ctx context.Context, email string) error {
	return s.issue(ctx, email, otp.PurposeReset)
}

func (s *AccountService) issue(ctx context.Context, email string, purpose otp.Purpose) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrNotFound
	}
	if purpose == otp.PurposeVerification && acc.Verified {
		return nil
	}

	code, expiresAt, err := s.otps.Generate(purpose)
	if err != nil {
		return err
	}
	acc.SetOTP(purpose, code, expiresAt, s.nowF())
	if err := s.repo.Upsert(ctx, acc); err != nil {
		return err
	}
	s.metrics.OTPIssued(purpose.String())
	s.record(ctx, acc.ID, issuedAction(purpose), "purpose="+purpose.String(), telemetrydomain.EventOTPIssued, purpose)

	if err := s.send(ctx, purpose, acc.Email, code); err != nil {
		s.log.WarnContext(ctx, "otp delivery failed", "account_id", acc.ID, "purpose", purpose.String(), "error", err)
		s.metrics.Delivery(purpose.String(), metrics.OutcomeFailure)
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	s.metrics.Delivery(purpose.String(), metrics.OutcomeSuccess)
	return nil
}

func (s *AccountService) send(ctx context.Context, purpose otp.Purpose, email, code string) error {
	if purpose == otp.PurposeReset {
		return s.notifier.SendResetOTP(ctx, email, code)
	}
	return s.notifier.SendVerificationOTP(ctx, email, code)
}

// ConsumeVerificationOTP checks code against the pending verification code and, on success,
// marks the account verified and clears the code. Failures are reported in order:
// domain.ErrNotFound, ErrOTPMissing, ErrOTPMismatch, ErrOTPExpired.
func (s *AccountService) ConsumeVerificationOTP(ctx context.Context, email, code string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateCode(code); err != nil {
		return err
	}
	acc, err := s.check(ctx, email, code, otp.PurposeVerification)
	if err != nil {
		return err
	}
	acc.MarkVerified(s.nowF())
	if err := s.repo.Upsert(ctx, acc); err != nil {
		return err
	}
	s.metrics.OTPConsumed(otp.PurposeVerification.String(), metrics.OutcomeSuccess)
	s.record(ctx, acc.ID, auditdomain.ActionEmailVerified, "", telemetrydomain.EventOTPConsumed, otp.PurposeVerification)
	return nil
}

// ConsumeResetOTP checks code against the pending reset code and, on success, replaces the
// password with newPassword and clears the code. Failure order matches ConsumeVerificationOTP.
// The new password is not compared with the old one.
func (s *AccountService) ConsumeResetOTP(ctx context.Context, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateCode(code); err != nil {
		return err
	}
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrInvalidInput)
	}
	acc, err := s.check(ctx, email, code, otp.PurposeReset)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	acc.ReplacePassword(hash, s.nowF())
	if err := s.repo.Upsert(ctx, acc); err != nil {
		return err
	}
	s.metrics.OTPConsumed(otp.PurposeReset.String(), metrics.OutcomeSuccess)
	s.record(ctx, acc.ID, auditdomain.ActionPasswordReset, "", telemetrydomain.EventPasswordReset, otp.PurposeReset)
	return nil
}

// check loads the account and validates code for purpose without mutating anything.
func (s *AccountService) check(ctx context.Context, email, code string, purpose otp.Purpose) (*domain.Account, error) {
	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	if err := acc.CheckOTP(purpose, code, s.nowF()); err != nil {
		s.metrics.OTPConsumed(purpose.String(), rejection(err))
		s.record(ctx, acc.ID, rejectedAction(purpose), "reason="+rejection(err), telemetrydomain.EventOTPRejected, purpose)
		return nil, err
	}
	return acc, nil
}

// GetProfile returns the summary of the account with the given ID.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*domain.Summary, error) {
	if accountID == "" {
		return nil, domain.ErrNotFound
	}
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return acc.Summary(), nil
}

func (s *AccountService) record(ctx context.Context, accountID, action, auditMeta, eventType string, purpose otp.Purpose) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, accountID, action, auditMeta)
	}
	telemetry.EmitAsync(s.emitter, telemetrydomain.NewEvent(accountID, eventType, eventSource, map[string]string{"purpose": purpose.String()}))
}

func issuedAction(p otp.Purpose) string {
	if p == otp.PurposeReset {
		return auditdomain.ActionResetOTPSent
	}
	return auditdomain.ActionVerifyOTPSent
}

func rejectedAction(p otp.Purpose) string {
	if p == otp.PurposeReset {
		return auditdomain.ActionResetOTPRejected
	}
	return auditdomain.ActionVerifyOTPRejected
}

// rejection labels a CheckOTP failure for metrics and audit metadata.
func rejection(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPMissing):
		return "missing"
	case errors.Is(err, domain.ErrOTPMismatch):
		return "mismatch"
	case errors.Is(err, domain.ErrOTPExpired):
		return "expired"
	default:
		return "error"
	}
}
