package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the lifetime of every session token, measured from its iat claim. JWT times
// have second precision, so iat is the issue time truncated to the second and exp may fall up
// to one second short of SessionTTL after the actual issue instant.
const SessionTTL = 10 * time.Hour

// MinSecretLength is the shortest HMAC secret accepted outside development.
const MinSecretLength = 32

var (
	// ErrInvalidToken is returned for any token that is malformed, forged, expired, or issued for
	// another issuer or audience. Callers cannot tell which check failed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret is returned by NewTokenProvider when no signing secret is configured.
	ErrEmptySecret = errors.New("security: signing secret is empty")
)

// SessionClaims are the claims carried by a session token. They hold no password or OTP data.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// AccountID returns the subject of the token.
func (c *SessionClaims) AccountID() string { return c.Subject }

// TokenProvider issues and verifies HS256 session tokens. Verification is stateless: a token
// stays valid until it expires.
type TokenProvider struct {
	secret   []byte
	issuer   string
	audience string
	nowF     func() time.Time
}

// NewTokenProvider returns a TokenProvider signing with secret. now may be nil, in which case
// the UTC wall clock is used for both issuing and verifying.
func NewTokenProvider(secret []byte, issuer, audience string, now func() time.Time) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &TokenProvider{secret: s, issuer: issuer, audience: audience, nowF: now}, nil
}

// Issue returns a signed token for the account and the instant it expires, exactly SessionTTL
// after issue (at second precision).
func (p *TokenProvider) Issue(accountID, email string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.nowF().Truncate(time.Second)
	expiresAt = now.Add(SessionTTL)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   accountID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate verifies signature, algorithm, issuer, audience, and that now is before exp.
// Every failure is reported as ErrInvalidToken.
func (p *TokenProvider) Validate(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(p.nowF),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
