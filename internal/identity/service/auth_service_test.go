package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"authify/backend/internal/account/domain"
	"authify/backend/internal/account/repository"
	accountservice "authify/backend/internal/account/service"
	auditdomain "authify/backend/internal/audit/domain"
	"authify/backend/internal/logging"
	"authify/backend/internal/otp"
	"authify/backend/internal/security"
	"authify/backend/internal/server/interceptors"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memNotifier struct {
	welcomed     []string
	verification []string
	reset        []string
	welcomeErr   error
}

func (n *memNotifier) SendWelcome(_ context.Context, email, _ string) error {
	n.welcomed = append(n.welcomed, email)
	return n.welcomeErr
}

func (n *memNotifier) SendVerificationOTP(_ context.Context, _, code string) error {
	n.verification = append(n.verification, code)
	return nil
}

func (n *memNotifier) SendResetOTP(_ context.Context, _, code string) error {
	n.reset = append(n.reset, code)
	return nil
}

type testSetup struct {
	auth     *AuthService
	accounts *accountservice.AccountService
	repo     *repository.MemoryRepository
	tokens   *security.TokenProvider
	notifier *memNotifier
	clock    *testClock
}

func newTestAuthService(t *testing.T) *testSetup {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	repo := repository.NewMemoryRepository()
	hasher := security.NewHasher(4)
	tokens := security.NewTestTokenProvider(clock.Now)
	notifier := &memNotifier{}
	auth := NewAuthService(repo, hasher, tokens, notifier, WithClock(clock.Now), WithLogger(logging.Discard()))
	accounts := accountservice.NewAccountService(repo, hasher, otp.NewGenerator(clock.Now), notifier,
		accountservice.WithClock(clock.Now), accountservice.WithLogger(logging.Discard()))
	return &testSetup{auth: auth, accounts: accounts, repo: repo, tokens: tokens, notifier: notifier, clock: clock}
}

func TestAuthService_Register(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	sum, err := s.auth.Register(ctx, " Alice ", "Alice@Example.com", "secretpw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sum.ID == "" || sum.Name != "Alice" || sum.Email != "alice@example.com" || sum.Verified {
		t.Errorf("summary = %+v", sum)
	}
	acc, _ := s.repo.GetByEmail(ctx, "alice@example.com")
	if acc == nil {
		t.Fatal("account not stored")
	}
	if acc.PasswordHash == "secretpw" {
		t.Error("password must not be stored in plaintext")
	}
	if acc.VerificationOTP != nil || acc.ResetOTP != nil {
		t.Error("new account should have empty OTP slots")
	}
	if len(s.notifier.welcomed) != 1 || s.notifier.welcomed[0] != "alice@example.com" {
		t.Errorf("welcomed = %v", s.notifier.welcomed)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	if _, err := s.auth.Register(ctx, "Alice", "alice@example.com", "secretpw"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := s.auth.Register(ctx, "Other", "ALICE@example.com", "otherpw1"); !errors.Is(err, domain.ErrEmailExists) {
		t.Errorf("second Register err = %v, want ErrEmailExists", err)
	}
	acc, _ := s.repo.GetByEmail(ctx, "alice@example.com")
	if acc == nil || acc.Name != "Alice" {
		t.Errorf("stored account = %+v, want the first registration", acc)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()
	tests := []struct {
		name, userName, email, password string
	}{
		{"blank name", "  ", "a@example.com", "secretpw"},
		{"bad email", "A", "not-an-email", "secretpw"},
		{"empty email", "A", "", "secretpw"},
		{"short password", "A", "a@example.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.auth.Register(ctx, tt.userName, tt.email, tt.password); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAuthService_RegisterWelcomeFailureKeepsAccount(t *testing.T) {
	s := newTestAuthService(t)
	s.notifier.welcomeErr = errors.New("smtp down")
	ctx := context.Background()

	sum, err := s.auth.Register(ctx, "Alice", "alice@example.com", "secretpw")
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("err = %v, want ErrDeliveryFailed", err)
	}
	if sum == nil {
		t.Fatal("summary should be returned with a delivery failure")
	}
	if exists, _ := s.repo.ExistsByEmail(ctx, "alice@example.com"); !exists {
		t.Error("account should exist after a welcome mail failure")
	}
}

func TestAuthService_LoginAndVerifyToken(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()
	if _, err := s.auth.Register(ctx, "A", "a@x.com", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := s.auth.Login(ctx, "a@x.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.ExpiresAt.Equal(s.clock.Now().Add(security.SessionTTL)) {
		t.Errorf("expires_at = %v, want now+10h", res.ExpiresAt)
	}
	claims, err := s.tokens.Validate(res.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.AccountID() != res.AccountID || claims.Email != "a@x.com" {
		t.Errorf("claims = %+v", claims)
	}

	s.clock.Advance(9*time.Hour + 59*time.Minute)
	if _, err := s.tokens.Validate(res.Token); err != nil {
		t.Errorf("token should be valid at T+9h59m: %v", err)
	}
	s.clock.Advance(2 * time.Minute)
	if _, err := s.tokens.Validate(res.Token); !errors.Is(err, security.ErrInvalidToken) {
		t.Errorf("token at T+10h01m err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()
	if _, err := s.auth.Register(ctx, "A", "a@x.com", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPw := s.auth.Login(ctx, "a@x.com", "not-the-secret")
	_, unknown := s.auth.Login(ctx, "nobody@x.com", "secret")
	_, empty := s.auth.Login(ctx, "", "")
	for name, err := range map[string]error{"wrong password": wrongPw, "unknown email": unknown, "empty": empty} {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: err = %v, want ErrInvalidCredentials", name, err)
		}
		if errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%s: must not reveal NotFound", name)
		}
	}
}

func TestAuthService_LoginAfterPasswordReset(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()
	if _, err := s.auth.Register(ctx, "A", "a@x.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if err := s.accounts.IssueResetOTP(ctx, "a@x.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.accounts.ConsumeResetOTP(ctx, "a@x.com", s.notifier.reset[0], "changed"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.auth.Login(ctx, "a@x.com", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.auth.Login(ctx, "a@x.com", "changed"); err != nil {
		t.Errorf("new password: %v", err)
	}
}

func TestAuthService_CheckSessionAndLogout(t *testing.T) {
	s := newTestAuthService(t)
	if s.auth.CheckSession(context.Background()) {
		t.Error("no identity should mean no session")
	}
	ctx := interceptors.WithIdentity(context.Background(), "acc-1", "a@x.com")
	if !s.auth.CheckSession(ctx) {
		t.Error("identity in context should mean an active session")
	}
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) LogEvent(_ context.Context, accountID, action, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, accountID+":"+action)
}

func TestAuthService_LogoutAuditsSignedInCaller(t *testing.T) {
	rec := &recordingAudit{}
	auth := NewAuthService(repository.NewMemoryRepository(), security.NewHasher(4),
		security.NewTestTokenProvider(nil), &memNotifier{}, WithAuditLogger(rec), WithLogger(logging.Discard()))

	auth.Logout(context.Background())
	auth.Logout(interceptors.WithIdentity(context.Background(), "acc-1", "a@x.com"))

	want := "acc-1:" + auditdomain.ActionLogout
	if len(rec.actions) != 1 || rec.actions[0] != want {
		t.Errorf("audit actions = %v, want [%s]", rec.actions, want)
	}
}

func TestAliceScenario(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	if _, err := s.auth.Register(ctx, "Alice", "alice@x.com", "secretpw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.accounts.IssueVerificationOTP(ctx, "alice@x.com"); err != nil {
		t.Fatalf("IssueVerificationOTP: %v", err)
	}
	if len(s.notifier.verification) != 1 {
		t.Fatalf("codes sent = %d, want 1", len(s.notifier.verification))
	}
	code := s.notifier.verification[0]
	if !regexp.MustCompile(`^[1-9][0-9]{5}$`).MatchString(code) {
		t.Fatalf("code %q is not a 6-digit code", code)
	}

	wrong := "100000"
	if code == wrong {
		wrong = "100001"
	}
	if err := s.accounts.ConsumeVerificationOTP(ctx, "alice@x.com", wrong); !errors.Is(err, domain.ErrOTPMismatch) {
		t.Fatalf("wrong code err = %v, want ErrOTPMismatch", err)
	}
	if err := s.accounts.ConsumeVerificationOTP(ctx, "alice@x.com", code); err != nil {
		t.Fatalf("ConsumeVerificationOTP: %v", err)
	}
	acc, _ := s.repo.GetByEmail(ctx, "alice@x.com")
	if !acc.Verified {
		t.Error("alice should be verified")
	}
}
