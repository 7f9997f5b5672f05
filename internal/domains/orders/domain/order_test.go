package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_DefaultsOrderDateToUTCNow(t *testing.T) {
	before := time.Now().UTC()
	order, err := NewOrder(10, 2, decimal.NewFromInt(50), time.Time{}, "user-1")
	require.NoError(t, err)
	assert.False(t, order.OrderDate.Before(before))
	assert.Equal(t, time.UTC, order.OrderDate.Location())
	assert.Zero(t, order.ID)
}

func TestNewOrder_Invariants(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewOrder(0, 1, decimal.Zero, now, "user-1")
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = NewOrder(10, 0, decimal.Zero, now, "user-1")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(10, 1, decimal.NewFromInt(-1), now, "user-1")
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewOrder(10, 1, decimal.Zero, now, "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestReplace_OverwritesAllFieldsKeepsID(t *testing.T) {
	order, err := NewOrder(10, 2, decimal.NewFromInt(50), time.Now().UTC(), "user-1")
	require.NoError(t, err)
	order.ID = 7

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, order.Replace(20, 5, decimal.NewFromFloat(99.90), when, "user-2"))

	assert.Equal(t, int64(7), order.ID)
	assert.Equal(t, int64(20), order.ProductID)
	assert.Equal(t, int32(5), order.Quantity)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromFloat(99.90)))
	assert.Equal(t, when, order.OrderDate)
	assert.Equal(t, "user-2", order.UserID)
}

func TestReplace_RejectsInvalidReplacementWithoutMutating(t *testing.T) {
	order, err := NewOrder(10, 2, decimal.NewFromInt(50), time.Now().UTC(), "user-1")
	require.NoError(t, err)

	err = order.Replace(0, 2, decimal.Zero, time.Now().UTC(), "user-1")
	assert.ErrorIs(t, err, ErrInvalidProductID)
	assert.Equal(t, int64(10), order.ProductID)
}
