package interceptors

import "context"

type contextKey struct{ name string }

var (
	accountIDKey = contextKey{"account_id"}
	emailKey     = contextKey{"email"}
)

// WithIdentity returns a context carrying the signed-in account. Handlers and services read it
// via GetAccountID and GetEmail. Both the gRPC auth interceptor and the HTTP auth middleware set it.
func WithIdentity(ctx context.Context, accountID, email string) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, accountID)
	ctx = context.WithValue(ctx, emailKey, email)
	return ctx
}

// GetAccountID returns the account_id from context and true if set; otherwise "", false.
func GetAccountID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accountIDKey).(string)
	return v, ok && v != ""
}

// GetEmail returns the email from context and true if set; otherwise "", false.
func GetEmail(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailKey).(string)
	return v, ok && v != ""
}
