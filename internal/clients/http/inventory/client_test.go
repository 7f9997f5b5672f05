package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderhub/order-service/internal/domains/orders/ports"
)

func TestAdjust_SendsSignedDeltaAndReason(t *testing.T) {
	var got adjustRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stock/123/adjust", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	require.NoError(t, client.Adjust(context.Background(), 123, -10, "reserved for order"))
	assert.Equal(t, int32(-10), got.Quantity)
	assert.Equal(t, "reserved for order", got.Reason)
}

func TestAdjust_RejectedWithDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("insufficient stock"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	err = client.Adjust(context.Background(), 123, -10, "reserved for order")
	require.ErrorIs(t, err, ports.ErrStockRejected)
	assert.NotErrorIs(t, err, ports.ErrStockUnreachable)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestAdjust_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	err = client.Adjust(context.Background(), 123, -10, "reserved for order")
	assert.ErrorIs(t, err, ports.ErrStockUnreachable)
	assert.NotErrorIs(t, err, ports.ErrStockRejected)
}

func TestAdjust_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	err = client.Adjust(context.Background(), 123, 10, "rollback")
	assert.ErrorIs(t, err, ports.ErrStockUnreachable)
}

func TestGetStock_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"productId":123,"productName":"widget","quantity":40,"availableQuantity":30,"reservedQuantity":10}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	level, err := client.GetStock(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, int64(123), level.ProductID)
	assert.Equal(t, int32(30), level.AvailableQuantity)
}

func TestGetStock_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.GetStock(context.Background(), 999)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}
