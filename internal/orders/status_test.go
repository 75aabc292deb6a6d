package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusOpen, StatusCommitted))
	assert.True(t, CanTransition(StatusCommitted, StatusScheduled))
	assert.True(t, CanTransition(StatusScheduled, StatusComplete))
	assert.True(t, CanTransition(StatusComplete, StatusReturned))
	assert.True(t, CanTransition(StatusCommitted, StatusCancelled))

	assert.False(t, CanTransition(StatusComplete, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusComplete))
	assert.False(t, CanTransition(StatusReturned, StatusOpen))
	assert.False(t, CanTransition(StatusScheduled, StatusScheduled))
}

func TestTerminalStatuses(t *testing.T) {
	// Cancelled and Returned accept nothing further
	for _, to := range []Status{StatusOpen, StatusCommitted, StatusScheduled, StatusComplete, StatusCancelled, StatusReturned} {
		assert.False(t, CanTransition(StatusCancelled, to), "Cancelled -> %s", to)
		assert.False(t, CanTransition(StatusReturned, to), "Returned -> %s", to)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusOpen.Modifiable())
	assert.True(t, StatusCommitted.Modifiable())
	assert.False(t, StatusScheduled.Modifiable())
	assert.False(t, StatusComplete.Modifiable())
}

func TestRevenueFor(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	assert.Equal(t, "59.97", RevenueFor(price, 3).StringFixed(2))

	// rounding happens at write time, half up to cents
	price = decimal.RequireFromString("0.115")
	assert.Equal(t, "0.35", RevenueFor(price, 3).StringFixed(2))
}
