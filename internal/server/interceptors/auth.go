package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"authify/backend/internal/security"
)

const bearerPrefix = "bearer "

// TokenValidator verifies a session token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*security.SessionClaims, error)
}

// AuthUnary returns a unary server interceptor that validates the Bearer session token from
// gRPC metadata and sets account_id and email in context for protected RPCs.
// publicMethods is the set of full method names that do not require a Bearer token
// (Register, Login, IsAuthenticated, SendResetOTP, ResetPassword, Logout).
// A valid token on a public method still establishes the identity.
func AuthUnary(tokens TokenValidator, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		token := ExtractBearer(ctx)
		public := publicMethods[info.FullMethod]

		if token == "" {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		ctx = WithIdentity(ctx, claims.AccountID(), claims.Email)
		return handler(ctx, req)
	}
}

// ExtractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func ExtractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	return ParseBearer(vals[0])
}

// ParseBearer returns the token from an Authorization header value, or "" if it is not a Bearer credential.
func ParseBearer(v string) string {
	v = strings.TrimSpace(v)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
