package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	accountservice "authify/backend/internal/account/service"
	"authify/backend/internal/api/authv1"
	"authify/backend/internal/api/devv1"
	"authify/backend/internal/devotp"
	devotphandler "authify/backend/internal/devotp/handler"
	healthhandler "authify/backend/internal/health/handler"
	identityhandler "authify/backend/internal/identity/handler"
	identityservice "authify/backend/internal/identity/service"
	"authify/backend/internal/ratelimit"
	"authify/backend/internal/server/interceptors"
	"authify/backend/internal/telemetry"
)

// Deps holds optional service dependencies for gRPC handlers.
type Deps struct {
	// Auth is the auth service for Register/Login/IsAuthenticated/Logout. If nil, those RPCs return Unimplemented.
	Auth *identityservice.AuthService
	// Accounts is the account service for the OTP workflows and GetProfile. If nil, those RPCs return Unimplemented.
	Accounts *accountservice.AccountService
	// Health answers grpc.health.v1.Health. If nil, a server with no dependencies is registered.
	Health *healthhandler.Server
	// DevOTPStore backs the dev-only DevService (GetOTP). If nil, DevService is not registered. Set only when dev OTP is enabled and not production.
	DevOTPStore devotp.Store
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - authify.v1.AuthService → internal/identity/handler
//   - authify.v1.DevService  → internal/devotp/handler (dev OTP mode only)
//   - grpc.health.v1.Health  → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	authv1.RegisterAuthServiceServer(s, identityhandler.NewAuthServer(deps.Auth, deps.Accounts))
	health := deps.Health
	if health == nil {
		health = healthhandler.NewServer(nil)
	}
	healthpb.RegisterHealthServer(s, health)
	if deps.DevOTPStore != nil {
		devv1.RegisterDevServiceServer(s, devotphandler.NewServer(deps.DevOTPStore))
	}
}

// PublicMethods are the RPCs callable without a Bearer token.
func PublicMethods() map[string]bool {
	return map[string]bool{
		authv1.AuthService_Register_FullMethodName:        true,
		authv1.AuthService_Login_FullMethodName:           true,
		authv1.AuthService_IsAuthenticated_FullMethodName: true,
		authv1.AuthService_SendResetOTP_FullMethodName:    true,
		authv1.AuthService_ResetPassword_FullMethodName:   true,
		authv1.AuthService_Logout_FullMethodName:          true,
		devv1.DevService_GetOTP_FullMethodName:            true,
		healthpb.Health_Check_FullMethodName:              true,
		healthpb.Health_Watch_FullMethodName:              true,
	}
}

// RateLimitedMethods are the RPCs that send mail or check a secret.
func RateLimitedMethods() map[string]bool {
	return map[string]bool{
		authv1.AuthService_Login_FullMethodName:         true,
		authv1.AuthService_SendVerifyOTP_FullMethodName: true,
		authv1.AuthService_VerifyEmail_FullMethodName:   true,
		authv1.AuthService_SendResetOTP_FullMethodName:  true,
		authv1.AuthService_ResetPassword_FullMethodName: true,
	}
}

// Options configures the interceptor chain of NewGRPCServer.
type Options struct {
	Tokens interceptors.TokenValidator
	// Limiter bounds RateLimitedMethods. Nil disables rate limiting.
	Limiter ratelimit.Limiter
	// Emitter receives a grpc_request event per RPC. Nil disables request events.
	Emitter telemetry.EventEmitter
}

// NewGRPCServer returns a server with OTel instrumentation and the interceptor chain
// client IP → auth → rate limit → telemetry.
func NewGRPCServer(opts Options) *grpc.Server {
	skip := map[string]bool{
		healthpb.Health_Check_FullMethodName: true,
		healthpb.Health_Watch_FullMethodName: true,
	}
	return grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.ClientIPUnary(),
			interceptors.AuthUnary(opts.Tokens, PublicMethods()),
			interceptors.RateLimitUnary(opts.Limiter, RateLimitedMethods()),
			interceptors.TelemetryUnary(opts.Emitter, skip),
		),
	)
}
