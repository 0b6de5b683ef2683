package interceptors

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"authify/backend/internal/ratelimit"
)

type emailGetter interface {
	GetEmail() string
}

// RateLimitUnary returns a unary server interceptor that bounds attempts on the listed methods.
// The key is the method plus the request email, the signed-in email, or the client IP, in that
// order. A limiter error fails open.
func RateLimitUnary(limiter ratelimit.Limiter, methods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if limiter == nil || !methods[info.FullMethod] {
			return handler(ctx, req)
		}
		key := info.FullMethod + ":" + rateKey(ctx, req)
		d, err := limiter.Allow(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "ratelimit: allow failed", "method", info.FullMethod, "error", err)
			return handler(ctx, req)
		}
		if !d.Allowed {
			return nil, status.Error(codes.ResourceExhausted, fmt.Sprintf("too many attempts, retry in %s", d.RetryAfter.Round(time.Second)))
		}
		return handler(ctx, req)
	}
}

func rateKey(ctx context.Context, req interface{}) string {
	if g, ok := req.(emailGetter); ok {
		if e := strings.ToLower(strings.TrimSpace(g.GetEmail())); e != "" {
			return e
		}
	}
	if e, ok := GetEmail(ctx); ok {
		return e
	}
	return ClientIP(ctx)
}
