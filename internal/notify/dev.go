package notify

import (
	"context"
	"log/slog"
	"time"

	"authify/backend/internal/devotp"
	"authify/backend/internal/otp"
)

// DevNotifier logs instead of mailing and keeps codes in a dev OTP store so they can be read
// back over the dev endpoint. Development only.
type DevNotifier struct {
	log   *slog.Logger
	store devotp.Store
	nowF  func() time.Time
}

// NewDevNotifier returns a DevNotifier. store may be nil, in which case codes are only logged.
func NewDevNotifier(log *slog.Logger, store devotp.Store) *DevNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &DevNotifier{log: log, store: store, nowF: func() time.Time { return time.Now().UTC() }}
}

func (n *DevNotifier) SendWelcome(ctx context.Context, email, name string) error {
	n.log.InfoContext(ctx, "welcome mail", "email", email, "name", name)
	return nil
}

func (n *DevNotifier) SendVerificationOTP(ctx context.Context, email, code string) error {
	return n.keep(ctx, email, otp.PurposeVerification, code)
}

func (n *DevNotifier) SendResetOTP(ctx context.Context, email, code string) error {
	return n.keep(ctx, email, otp.PurposeReset, code)
}

func (n *DevNotifier) keep(ctx context.Context, email string, purpose otp.Purpose, code string) error {
	expiresAt := n.nowF().Add(purpose.TTL())
	if n.store != nil {
		n.store.Put(ctx, email, purpose, code, expiresAt)
	}
	n.log.InfoContext(ctx, "otp issued", "email", email, "purpose", purpose.String(), "otp", code, "expires_at", expiresAt)
	return nil
}

var _ Notifier = (*DevNotifier)(nil)
