package security

import "time"

// testSecret signs tokens in unit tests only.
const testSecret = "test-secret-test-secret-test-secret!"

// NewTestTokenProvider returns a TokenProvider with a fixed secret, issuer "test-issuer" and
// audience "test-audience". now may be nil. For unit tests only.
func NewTestTokenProvider(now func() time.Time) *TokenProvider {
	p, err := NewTokenProvider([]byte(testSecret), "test-issuer", "test-audience", now)
	if err != nil {
		panic(err)
	}
	return p
}
