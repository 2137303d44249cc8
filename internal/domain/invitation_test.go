package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInviteCode(t *testing.T) {
	assert.Equal(t, "AB12CD", NormalizeInviteCode("  ab12cd "))
	assert.Equal(t, "XYZ789", NormalizeInviteCode("xyz789"))
}

func TestValidateInviteCode(t *testing.T) {
	assert.NoError(t, ValidateInviteCode("AB12CD"))
	assert.ErrorIs(t, ValidateInviteCode("AB12"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateInviteCode("AB12CDE"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateInviteCode(""), ErrInvalidInput)
}

func TestInvitation_Claimed(t *testing.T) {
	inv := &Invitation{}
	assert.False(t, inv.Claimed())

	user := "u1"
	inv.ClaimedBy = &user
	assert.True(t, inv.Claimed())
}

func TestInvitation_Expired(t *testing.T) {
	now := time.Now()
	inv := &Invitation{}
	assert.False(t, inv.Expired(now), "no expiry never expires")

	past := now.Add(-time.Hour)
	inv.ExpiresAt = &past
	assert.True(t, inv.Expired(now))

	future := now.Add(time.Hour)
	inv.ExpiresAt = &future
	assert.False(t, inv.Expired(now))
}
