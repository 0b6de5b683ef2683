// Package service implements registration, password login and session checks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"authify/backend/internal/account/domain"
	"authify/backend/internal/audit"
	auditdomain "authify/backend/internal/audit/domain"
	"authify/backend/internal/metrics"
	"authify/backend/internal/server/interceptors"
	"authify/backend/internal/telemetry"
	telemetrydomain "authify/backend/internal/telemetry/domain"
)

const eventSource = "auth_service"

// LoginResult is the outcome of a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	AccountID string
	Email     string
}

// AccountRepo is the minimal account repository needed by the auth service.
type AccountRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Upsert(ctx context.Context, a *domain.Account) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
	Compare(hash string, password []byte) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(accountID, email string) (token string, expiresAt time.Time, err error)
}

// WelcomeNotifier mails the post-registration welcome message.
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, email, name string) error
}

// AuthService implements register, login, session check and logout.
type AuthService struct {
	repo     AccountRepo
	hasher   PasswordHasher
	tokens   TokenIssuer
	notifier WelcomeNotifier

	audit   audit.AuditLogger
	emitter telemetry.EventEmitter
	metrics *metrics.Metrics
	log     *slog.Logger
	nowF    func() time.Time
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(repo AccountRepo, hasher PasswordHasher, tokens TokenIssuer, notifier WelcomeNotifier, opts ...Option) *AuthService {
	s := &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		log:      slog.Default(),
		nowF:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified account and mails the welcome message.
// Returns domain.ErrEmailExists if the email is taken. If only the welcome mail fails, the
// account summary is returned together with an error wrapping domain.ErrDeliveryFailed.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Summary, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if err := domain.ValidateRegistration(name, email, password); err != nil {
		s.metrics.Registration(metrics.OutcomeFailure)
		return nil, err
	}
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		s.metrics.Registration(metrics.OutcomeFailure)
		return nil, domain.ErrEmailExists
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := s.nowF()
	acc := &domain.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Upsert(ctx, acc); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			s.metrics.Registration(metrics.OutcomeFailure)
		}
		return nil, err
	}
	s.metrics.Registration(metrics.OutcomeSuccess)
	s.record(ctx, acc.ID, auditdomain.ActionRegister, telemetrydomain.EventAccountRegistered)

	summary := acc.Summary()
	if err := s.notifier.SendWelcome(ctx, acc.Email, acc.Name); err != nil {
		s.log.WarnContext(ctx, "welcome mail failed", "account_id", acc.ID, "error", err)
		s.metrics.Delivery("welcome", metrics.OutcomeFailure)
		return summary, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	s.metrics.Delivery("welcome", metrics.OutcomeSuccess)
	return summary, nil
}

// Login checks email and password and issues a session token. An unknown email and a wrong
// password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		s.metrics.Login(metrics.OutcomeFailure)
		return nil, domain.ErrInvalidCredentials
	}
	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		s.metrics.Login(metrics.OutcomeFailure)
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(acc.PasswordHash, []byte(password)); err != nil {
		s.metrics.Login(metrics.OutcomeFailure)
		s.record(ctx, acc.ID, auditdomain.ActionLoginFailure, telemetrydomain.EventLoginFailed)
		return nil, domain.ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		return nil, err
	}
	s.metrics.Login(metrics.OutcomeSuccess)
	s.record(ctx, acc.ID, auditdomain.ActionLoginSuccess, telemetrydomain.EventLoginSucceeded)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, AccountID: acc.ID, Email: acc.Email}, nil
}

// CheckSession reports whether a valid session token established an identity for ctx.
func (s *AuthService) CheckSession(ctx context.Context) bool {
	_, ok := interceptors.GetAccountID(ctx)
	return ok
}

// Logout is stateless: tokens stay valid until they expire and transports discard the
// client copy. It only records the event for a signed-in caller.
func (s *AuthService) Logout(ctx context.Context) {
	if accountID, ok := interceptors.GetAccountID(ctx); ok && s.audit != nil {
		s.audit.LogEvent(ctx, accountID, auditdomain.ActionLogout, "")
	}
}

func (s *AuthService) record(ctx context.Context, accountID, action, eventType string) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, accountID, action, "")
	}
	telemetry.EmitAsync(s.emitter, telemetrydomain.NewEvent(accountID, eventType, eventSource, nil))
}
