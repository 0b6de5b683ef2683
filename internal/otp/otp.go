// Package otp generates and compares the six-digit one-time passcodes mailed to account owners.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Generator produces codes and their expiry. Safe for concurrent use.
type Generator struct {
	rand io.Reader
	nowF func() time.Time
}

// NewGenerator returns a Generator backed by crypto/rand. now may be nil, in which case the UTC wall clock is used.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Generator{rand: rand.Reader, nowF: now}
}

// Generate returns a code uniformly sampled from [100000, 999999] and the instant it stops being accepted.
func (g *Generator) Generate(purpose Purpose) (string, time.Time, error) {
	if !purpose.Valid() {
		return "", time.Time{}, ErrUnknownPurpose
	}
	n, err := rand.Int(g.rand, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", time.Time{}, err
	}
	code := strconv.FormatInt(n.Int64()+codeMin, 10)
	return code, g.nowF().Add(purpose.TTL()), nil
}

// Hash returns the hex SHA-256 digest of code. Only digests are persisted.
func Hash(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// Equal compares a submitted code against a stored digest in constant time.
// An empty submission never matches.
func Equal(provided, storedHash string) bool {
	if provided == "" || storedHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Hash(provided)), []byte(storedHash)) == 1
}
