package interceptors

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"authify/backend/internal/ratelimit"
)

type emailReq struct{ email string }

func (r emailReq) GetEmail() string { return r.email }

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}

func TestRateLimitUnary_RejectsOverLimit(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Policy{Limit: 2, Window: time.Minute})
	interceptor := RateLimitUnary(limiter, map[string]bool{"/test.Service/Login": true})
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Login"}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := interceptor(ctx, emailReq{"Alice@Example.com"}, info, okHandler); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	_, err := interceptor(ctx, emailReq{"alice@example.com"}, info, okHandler)
	if st, _ := status.FromError(err); st.Code() != codes.ResourceExhausted {
		t.Fatalf("code = %v, want ResourceExhausted", st.Code())
	}

	if _, err := interceptor(ctx, emailReq{"bob@example.com"}, info, okHandler); err != nil {
		t.Errorf("other key should be allowed: %v", err)
	}
}

func TestRateLimitUnary_UnlistedMethodPasses(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Policy{Limit: 0, Window: time.Minute})
	interceptor := RateLimitUnary(limiter, map[string]bool{})
	if _, err := interceptor(context.Background(), emailReq{"a@example.com"}, &grpc.UnaryServerInfo{FullMethod: "/test.Service/Other"}, okHandler); err != nil {
		t.Errorf("unlisted method: %v", err)
	}
}

func TestRateLimitUnary_FailsOpen(t *testing.T) {
	interceptor := RateLimitUnary(failingLimiter{}, map[string]bool{"/test.Service/Login": true})
	if _, err := interceptor(context.Background(), emailReq{"a@example.com"}, &grpc.UnaryServerInfo{FullMethod: "/test.Service/Login"}, okHandler); err != nil {
		t.Errorf("limiter failure should not fail the call: %v", err)
	}
}

func TestRateKey(t *testing.T) {
	if got := rateKey(context.Background(), emailReq{" Bob@Example.com "}); got != "bob@example.com" {
		t.Errorf("rateKey = %q", got)
	}
	ctx := WithIdentity(context.Background(), "acc-1", "alice@example.com")
	if got := rateKey(ctx, struct{}{}); got != "alice@example.com" {
		t.Errorf("rateKey from identity = %q", got)
	}
	if got := rateKey(context.Background(), struct{}{}); got != "unknown" {
		t.Errorf("rateKey fallback = %q", got)
	}
}
