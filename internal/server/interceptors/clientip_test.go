package interceptors

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"authify/backend/internal/audit"
)

func TestClientIP_ForwardedFor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-forwarded-for", "203.0.113.7, 10.0.0.1"))
	if got := ClientIP(ctx); got != "203.0.113.7" {
		t.Errorf("ClientIP = %q, want 203.0.113.7", got)
	}
}

func TestClientIP_RealIP(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "198.51.100.2"))
	if got := ClientIP(ctx); got != "198.51.100.2" {
		t.Errorf("ClientIP = %q, want 198.51.100.2", got)
	}
}

func TestClientIP_Peer(t *testing.T) {
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 5555}})
	if got := ClientIP(ctx); got != "192.0.2.1" {
		t.Errorf("ClientIP = %q, want 192.0.2.1", got)
	}
}

func TestClientIP_Unknown(t *testing.T) {
	if got := ClientIP(context.Background()); got != "unknown" {
		t.Errorf("ClientIP = %q, want unknown", got)
	}
}

func TestClientIPUnary_StoresIPForAudit(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "198.51.100.2"))
	var got string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		got = audit.ClientIP(ctx)
		return nil, nil
	}
	if _, err := ClientIPUnary()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, handler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if got != "198.51.100.2" {
		t.Errorf("audit.ClientIP = %q, want 198.51.100.2", got)
	}
}
