// Package handler serves the dev-only OTP lookup over gRPC (DevService.GetOTP) and HTTP (/dev/otp).
package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"authify/backend/internal/api/devv1"
	"authify/backend/internal/devotp"
	"authify/backend/internal/otp"
)

const devOTPNote = "DEV MODE ONLY"

// Server implements DevService. Only registered when dev OTP is enabled and not production.
type Server struct {
	devv1.UnimplementedDevServiceServer
	store devotp.Store
}

// NewServer returns a DevService server that reads OTP from the given store.
func NewServer(store devotp.Store) *Server {
	return &Server{store: store}
}

// GetOTP returns the plain OTP last issued to email for purpose (verification when empty).
// Returns NotFound if missing or expired.
func (s *Server) GetOTP(ctx context.Context, req *devv1.GetOTPRequest) (*devv1.GetOTPResponse, error) {
	code, err := lookup(ctx, s.store, req.GetEmail(), req.GetPurpose())
	if err != nil {
		return nil, err
	}
	return &devv1.GetOTPResponse{Otp: code, Note: devOTPNote}, nil
}

// lookup validates the query and reads the store. Errors are gRPC statuses.
func lookup(ctx context.Context, store devotp.Store, email, purpose string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", status.Error(codes.InvalidArgument, "email is required")
	}
	p := otp.PurposeVerification
	if purpose != "" {
		var err error
		if p, err = otp.ParsePurpose(purpose); err != nil {
			return "", status.Error(codes.InvalidArgument, "purpose must be verification or reset")
		}
	}
	code, ok := store.Get(ctx, email, p)
	if !ok {
		return "", status.Error(codes.NotFound, "OTP not found or expired")
	}
	return code, nil
}
