package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusPacked, StatusDispatched, StatusDelivered} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("cancelled"))
	assert.False(t, ValidStatus(""))
}

func TestCanTransitionForwardOnly(t *testing.T) {
	// Single forward steps are the only legal moves.
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusConfirmed, StatusPacked))
	assert.True(t, CanTransition(StatusPacked, StatusDispatched))
	assert.True(t, CanTransition(StatusDispatched, StatusDelivered))

	// No skipping stages.
	assert.False(t, CanTransition(StatusPending, StatusPacked))
	assert.False(t, CanTransition(StatusConfirmed, StatusDelivered))

	// No going backwards or standing still.
	assert.False(t, CanTransition(StatusConfirmed, StatusPending))
	assert.False(t, CanTransition(StatusDelivered, StatusDispatched))
	assert.False(t, CanTransition(StatusPacked, StatusPacked))

	// Terminal stage has no exit.
	assert.False(t, CanTransition(StatusDelivered, StatusPending))

	// Unknown stages never transition.
	assert.False(t, CanTransition("cancelled", StatusPending))
	assert.False(t, CanTransition(StatusPending, "cancelled"))
}
