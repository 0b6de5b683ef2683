// Package handler exposes the auth and account services as authify.v1.AuthService.
package handler

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"authify/backend/internal/account/domain"
	accountservice "authify/backend/internal/account/service"
	"authify/backend/internal/api/authv1"
	"authify/backend/internal/identity/service"
	"authify/backend/internal/security"
	"authify/backend/internal/server/interceptors"
)

// AuthServer implements AuthService for register, login, session checks, the OTP workflows and
// the profile lookup.
type AuthServer struct {
	authv1.UnimplementedAuthServiceServer
	auth     *service.AuthService
	accounts *accountservice.AccountService
}

// NewAuthServer returns a new Auth gRPC server. If auth is nil, Register, Login,
// IsAuthenticated and Logout return Unimplemented; if accounts is nil, the OTP and profile
// methods do.
func NewAuthServer(auth *service.AuthService, accounts *accountservice.AccountService) *AuthServer {
	return &AuthServer{auth: auth, accounts: accounts}
}

// Register creates an account. A welcome mail failure is reported as Unavailable after the
// account has been created.
func (s *AuthServer) Register(ctx context.Context, req *authv1.RegisterRequest) (*authv1.RegisterResponse, error) {
	if s.auth == nil {
		return nil, status.Error(codes.Unimplemented, "method Register not implemented")
	}
	sum, err := s.auth.Register(ctx, req.GetName(), req.GetEmail(), req.GetPassword())
	if err != nil {
		if sum != nil && errors.Is(err, domain.ErrDeliveryFailed) {
			return nil, status.Error(codes.Unavailable, "account created but the welcome email could not be sent")
		}
		return nil, authErr(ctx, err)
	}
	return &authv1.RegisterResponse{Account: summaryToProto(sum)}, nil
}

// Login checks credentials and returns a session token.
func (s *AuthServer) Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.LoginResponse, error) {
	if s.auth == nil {
		return nil, status.Error(codes.Unimplemented, "method Login not implemented")
	}
	res, err := s.auth.Login(ctx, req.GetEmail(), req.GetPassword())
	if err != nil {
		return nil, authErr(ctx, err)
	}
	return &authv1.LoginResponse{Email: res.Email, Token: res.Token, ExpiresAt: res.ExpiresAt.Unix()}, nil
}

// IsAuthenticated reports whether the call carried a valid session token.
func (s *AuthServer) IsAuthenticated(ctx context.Context, _ *authv1.IsAuthenticatedRequest) (*authv1.IsAuthenticatedResponse, error) {
	if s.auth == nil {
		return nil, status.Error(codes.Unimplemented, "method IsAuthenticated not implemented")
	}
	return &authv1.IsAuthenticatedResponse{Authenticated: s.auth.CheckSession(ctx)}, nil
}

// Logout is stateless; clients drop their token.
func (s *AuthServer) Logout(ctx context.Context, _ *authv1.LogoutRequest) (*authv1.LogoutResponse, error) {
	if s.auth == nil {
		return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
	}
	s.auth.Logout(ctx)
	return &authv1.LogoutResponse{}, nil
}

// SendVerifyOTP mails a verification code to the signed-in account.
func (s *AuthServer) SendVerifyOTP(ctx context.Context, _ *authv1.SendVerifyOTPRequest) (*authv1.SendVerifyOTPResponse, error) {
	if s.accounts == nil {
		return nil, status.Error(codes.Unimplemented, "method SendVerifyOTP not implemented")
	}
	email, ok := interceptors.GetEmail(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
	}
	if err := s.accounts.IssueVerificationOTP(ctx, email); err != nil {
		return nil, authErr(ctx, err)
	}
	return &authv1.SendVerifyOTPResponse{}, nil
}

// VerifyEmail consumes the verification code of the signed-in account.
func (s *AuthServer) VerifyEmail(ctx context.Context, req *authv1.VerifyEmailRequest) (*authv1.VerifyEmailResponse, error) {
	if s.accounts == nil {
		return nil, status.Error(codes.Unimplemented, "method VerifyEmail not implemented")
	}
	email, ok := interceptors.GetEmail(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
	}
	if err := s.accounts.ConsumeVerificationOTP(ctx, email, req.GetOtp()); err != nil {
		return nil, authErr(ctx, err)
	}
	return &authv1.VerifyEmailResponse{}, nil
}

// SendResetOTP mails a password reset code.
func (s *AuthServer) SendResetOTP(ctx context.Context, req *authv1.SendResetOTPRequest) (*authv1.SendResetOTPResponse, error) {
	if s.accounts == nil {
		return nil, status.Error(codes.Unimplemented, "method SendResetOTP not implemented")
	}
	if err := s.accounts.IssueResetOTP(ctx, req.GetEmail()); err != nil {
		return nil, authErr(ctx, err)
	}
	return &authv1.SendResetOTPResponse{}, nil
}

// ResetPassword consumes a reset code and installs the new password.
func (s *AuthServer) ResetPassword(ctx context.Context, req *authv1.ResetPasswordRequest) (*authv1.ResetPasswordResponse, error) {
	if s.accounts == nil {
		return nil, status.Error(codes.Unimplemented, "method ResetPassword not implemented")
	}
	if err := s.accounts.ConsumeResetOTP(ctx, req.GetEmail(), req.GetOtp(), req.GetNewPassword()); err != nil {
		return nil, authErr(ctx, err)
	}
	return &authv1.ResetPasswordResponse{}, nil
}

// GetProfile returns the signed-in account.
func (s *AuthServer) GetProfile(ctx context.Context, _ *authv1.GetProfileRequest) (*authv1.GetProfileResponse, error) {
	if s.accounts == nil {
		return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
	}
	accountID, ok := interceptors.GetAccountID(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
	}
	sum, err := s.accounts.GetProfile(ctx, accountID)
	if err != nil {
		return nil, authErr(ctx, err)
	}
	return &authv1.GetProfileResponse{Account: summaryToProto(sum)}, nil
}

func summaryToProto(s *domain.Summary) *authv1.Account {
	if s == nil {
		return nil
	}
	return &authv1.Account{Id: s.ID, Name: s.Name, Email: s.Email, Verified: s.Verified}
}

// authErr maps service errors to gRPC status. Credential and token failures share one message;
// OTP failures name the reason. Unknown errors are logged and returned as Internal.
func authErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "account not found")
	case errors.Is(err, domain.ErrEmailExists):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, security.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, domain.ErrAccountDisabled):
		return status.Error(codes.PermissionDenied, "account disabled")
	case errors.Is(err, domain.ErrOTPMissing):
		return status.Error(codes.FailedPrecondition, "no otp pending; request a new one")
	case errors.Is(err, domain.ErrOTPMismatch):
		return status.Error(codes.FailedPrecondition, "invalid otp")
	case errors.Is(err, domain.ErrOTPExpired):
		return status.Error(codes.FailedPrecondition, "otp expired")
	case errors.Is(err, domain.ErrDeliveryFailed):
		return status.Error(codes.Unavailable, "email could not be sent")
	default:
		slog.ErrorContext(ctx, "auth: internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
