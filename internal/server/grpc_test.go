package server

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"authify/backend/internal/account/repository"
	accountservice "authify/backend/internal/account/service"
	"authify/backend/internal/api/authv1"
	"authify/backend/internal/api/devv1"
	"authify/backend/internal/devotp"
	identityservice "authify/backend/internal/identity/service"
	"authify/backend/internal/logging"
	"authify/backend/internal/notify"
	"authify/backend/internal/otp"
	"authify/backend/internal/ratelimit"
	"authify/backend/internal/security"
)

// mockServiceRegistrar implements grpc.ServiceRegistrar for testing.
type mockServiceRegistrar struct {
	services []string
}

func (m *mockServiceRegistrar) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	m.services = append(m.services, desc.ServiceName)
}

func TestRegisterServices_DevServiceNotRegisteredWhenNil(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{})

	if len(mockReg.services) != 2 {
		t.Errorf("registered %v, want AuthService and Health only", mockReg.services)
	}
}

func TestRegisterServices_DevServiceRegisteredWhenProvided(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{DevOTPStore: devotp.NewMemoryStore()})

	if len(mockReg.services) != 3 || mockReg.services[2] != "authify.v1.DevService" {
		t.Errorf("registered %v, want DevService last", mockReg.services)
	}
}

func TestPublicMethods_ProtectedSet(t *testing.T) {
	public := PublicMethods()
	for _, m := range []string{
		authv1.AuthService_SendVerifyOTP_FullMethodName,
		authv1.AuthService_VerifyEmail_FullMethodName,
		authv1.AuthService_GetProfile_FullMethodName,
	} {
		if public[m] {
			t.Errorf("%s must require a token", m)
		}
	}
	if !public[authv1.AuthService_Login_FullMethodName] {
		t.Error("Login must be public")
	}
}

type bufServer struct {
	conn   *grpc.ClientConn
	client authv1.AuthServiceClient
	dev    devv1.DevServiceClient
	health healthpb.HealthClient
}

func startBufServer(t *testing.T, limiter ratelimit.Limiter) *bufServer {
	t.Helper()
	now := func() time.Time { return time.Now().UTC() }
	repo := repository.NewMemoryRepository()
	hasher := security.NewHasher(4)
	tokens := security.NewTestTokenProvider(now)
	store := devotp.NewMemoryStore()
	notifier := notify.NewDevNotifier(logging.Discard(), store)

	auth := identityservice.NewAuthService(repo, hasher, tokens, notifier, identityservice.WithLogger(logging.Discard()))
	accounts := accountservice.NewAccountService(repo, hasher, otp.NewGenerator(now), notifier, accountservice.WithLogger(logging.Discard()))

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(Options{Tokens: tokens, Limiter: limiter})
	RegisterServices(srv, Deps{Auth: auth, Accounts: accounts, DevOTPStore: store})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &bufServer{
		conn:   conn,
		client: authv1.NewAuthServiceClient(conn),
		dev:    devv1.NewDevServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
	}
}

func TestGRPC_EndToEnd(t *testing.T) {
	b := startBufServer(t, nil)
	ctx := context.Background()

	reg, err := b.client.Register(ctx, &authv1.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secretpw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	login, err := b.client.Login(ctx, &authv1.LoginRequest{Email: "alice@example.com", Password: "secretpw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+login.Token)

	isAuth, err := b.client.IsAuthenticated(authed, &authv1.IsAuthenticatedRequest{})
	if err != nil || !isAuth.Authenticated {
		t.Fatalf("IsAuthenticated = %+v, %v", isAuth, err)
	}
	anon, err := b.client.IsAuthenticated(ctx, &authv1.IsAuthenticatedRequest{})
	if err != nil || anon.Authenticated {
		t.Fatalf("anonymous IsAuthenticated = %+v, %v", anon, err)
	}

	_, err = b.client.GetProfile(ctx, &authv1.GetProfileRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("GetProfile without token: %v", err)
	}

	if _, err := b.client.SendVerifyOTP(authed, &authv1.SendVerifyOTPRequest{}); err != nil {
		t.Fatalf("SendVerifyOTP: %v", err)
	}
	got, err := b.dev.GetOTP(ctx, &devv1.GetOTPRequest{Email: "alice@example.com", Purpose: "verification"})
	if err != nil {
		t.Fatalf("GetOTP: %v", err)
	}
	if _, err := b.client.VerifyEmail(authed, &authv1.VerifyEmailRequest{Otp: got.Otp}); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	prof, err := b.client.GetProfile(authed, &authv1.GetProfileRequest{})
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if prof.Account.Id != reg.Account.Id || !prof.Account.Verified {
		t.Errorf("profile = %+v", prof.Account)
	}

	hc, err := b.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil || hc.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("health = %v, %v", hc, err)
	}
}

func TestGRPC_RateLimit(t *testing.T) {
	b := startBufServer(t, ratelimit.NewMemoryLimiter(ratelimit.Policy{Limit: 2, Window: time.Minute}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := b.client.Login(ctx, &authv1.LoginRequest{Email: "x@example.com", Password: "whatever"})
		if status.Code(err) != codes.Unauthenticated {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	_, err := b.client.Login(ctx, &authv1.LoginRequest{Email: "x@example.com", Password: "whatever"})
	if status.Code(err) != codes.ResourceExhausted {
		t.Errorf("third attempt: %v, want ResourceExhausted", err)
	}
}
