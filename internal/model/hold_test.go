package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldStatus_Valid(t *testing.T) {
	for _, s := range []HoldStatus{HoldStatusActive, HoldStatusPickedUp, HoldStatusCancelled, HoldStatusExpired} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, HoldStatus("").Valid())
	assert.False(t, HoldStatus("done").Valid())
}

func TestHoldStatus_Terminal(t *testing.T) {
	assert.False(t, HoldStatusActive.Terminal())
	assert.True(t, HoldStatusPickedUp.Terminal())
	assert.True(t, HoldStatusCancelled.Terminal())
	assert.True(t, HoldStatusExpired.Terminal())

	// Unknown statuses are not terminal either.
	assert.False(t, HoldStatus("done").Terminal())
}

func TestProductHold_Overdue(t *testing.T) {
	now := time.Now().UTC()

	h := &ProductHold{Status: HoldStatusActive, ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, h.Overdue(now))

	h = &ProductHold{Status: HoldStatusActive, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, h.Overdue(now))

	// Terminal holds never read as overdue, regardless of expiry.
	h = &ProductHold{Status: HoldStatusPickedUp, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, h.Overdue(now))
}
