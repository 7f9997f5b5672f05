// Package inventory implements the stock-adjustment client. An explicit 400
// from the inventory service maps to ports.ErrStockRejected; transport
// failures and unexpected statuses map to ports.ErrStockUnreachable.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/orderhub/order-service/internal/domains/orders/ports"
)

var _ ports.StockAdjuster = (*Client)(nil)

// Client talks to the stock inventory service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the inventory client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("inventory base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

type adjustRequest struct {
	Quantity int32  `json:"quantity"`
	Reason   string `json:"reason"`
}

// StockLevel is the inventory view of a single product.
type StockLevel struct {
	ProductID         int64  `json:"productId"`
	ProductName       string `json:"productName"`
	Quantity          int32  `json:"quantity"`
	AvailableQuantity int32  `json:"availableQuantity"`
	ReservedQuantity  int32  `json:"reservedQuantity"`
}

// Adjust applies a signed quantity delta to a product's stock record. A
// negative delta reserves stock, a positive one releases it.
func (c *Client) Adjust(ctx context.Context, productID int64, delta int32, reason string) error {
	body, err := json.Marshal(adjustRequest{Quantity: delta, Reason: reason})
	if err != nil {
		return fmt.Errorf("encode stock adjustment: %w", err)
	}
	url := fmt.Sprintf("%s/stock/%d/adjust", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build stock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrStockUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ports.ErrStockRejected, rejectionDetail(resp.Body))
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	default:
		return fmt.Errorf("%w: unexpected status %s", ports.ErrStockUnreachable, resp.Status)
	}
}

// GetStock fetches the current stock level for a product.
func (c *Client) GetStock(ctx context.Context, productID int64) (*StockLevel, error) {
	url := fmt.Sprintf("%s/stock/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build stock request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrStockUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no stock record for product %d", ports.ErrProductNotFound, productID)
	case resp.StatusCode == http.StatusOK:
		var level StockLevel
		if err := json.NewDecoder(resp.Body).Decode(&level); err != nil {
			return nil, fmt.Errorf("%w: decode stock level: %w", ports.ErrStockUnreachable, err)
		}
		return &level, nil
	default:
		return nil, fmt.Errorf("%w: unexpected status %s", ports.ErrStockUnreachable, resp.Status)
	}
}

func rejectionDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 1024))
	if err != nil {
		return "adjustment declined"
	}
	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return "adjustment declined"
	}
	return detail
}
