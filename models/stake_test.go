package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBondEntry_MaturedBefore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bond := &BondEntry{
		BondingStartTime: now.Add(-7 * 24 * time.Hour),
		BondingDuration:  7 * 24 * time.Hour,
	}

	// Exactly at the boundary is not yet matured.
	assert.False(t, bond.MaturedBefore(now))
	assert.True(t, bond.MaturedBefore(now.Add(time.Second)))
	assert.False(t, bond.MaturedBefore(now.Add(-time.Second)))
}

func TestClubOwnership_WindowExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ownership := &ClubOwnership{
		StartTimestamp: now.Add(-21 * 24 * time.Hour),
		LockingPeriod:  21 * 24 * time.Hour,
	}

	// The window closes strictly after the locking period elapses.
	assert.False(t, ownership.WindowExpired(now))
	assert.True(t, ownership.WindowExpired(now.Add(time.Second)))
}

func TestInsufficientFeesError_Message(t *testing.T) {
	err := &InsufficientFeesError{Required: 1550, Received: 1000}
	assert.Contains(t, err.Error(), "1550")
	assert.Contains(t, err.Error(), "1000")
}
