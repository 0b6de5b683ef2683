package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authify/backend/internal/account/domain"
	"authify/backend/internal/otp"
)

func TestMongoDocConversion_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	a := &domain.Account{
		ID: "acc-1", Email: "alice@example.com", Name: "Alice", PasswordHash: "h",
		Verified: true, CreatedAt: now, UpdatedAt: now,
	}
	a.SetOTP(otp.PurposeReset, "123456", now.Add(5*time.Minute), now)

	got := docToDomain(domainToDoc(a))
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Email, got.Email)
	assert.True(t, got.Verified)
	assert.Nil(t, got.VerificationOTP)
	require.NotNil(t, got.ResetOTP)
	assert.Equal(t, a.ResetOTP.CodeHash, got.ResetOTP.CodeHash)
}

func TestMongoDocConversion_EmptySlotDocIsNoSlot(t *testing.T) {
	got := docToDomain(&accountDoc{ID: "acc-1", VerificationOTP: &slotDoc{}})
	assert.Nil(t, got.VerificationOTP)
}
