// Package catalog implements the product-lookup client against the remote
// catalog service. A 404 from the catalog maps to ports.ErrProductNotFound;
// every other failure maps to ports.ErrCatalogUnavailable so callers can
// retry transport faults without retrying genuine absence.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderhub/order-service/internal/domains/orders/domain"
	"github.com/orderhub/order-service/internal/domains/orders/ports"
)

var _ ports.ProductCatalog = (*Client)(nil)

// Client talks to the product catalog over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the catalog client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

type productPayload struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// GetProduct fetches a single product by identifier.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: product %d", ports.ErrProductNotFound, id)
	case resp.StatusCode == http.StatusOK:
		var payload productPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: decode product %d: %w", ports.ErrCatalogUnavailable, id, err)
		}
		return payload.toDomain(), nil
	default:
		return nil, fmt.Errorf("%w: unexpected status %s", ports.ErrCatalogUnavailable, resp.Status)
	}
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ports.ErrCatalogUnavailable, resp.Status)
	}
	var payloads []productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("%w: decode products: %w", ports.ErrCatalogUnavailable, err)
	}
	products := make([]domain.Product, 0, len(payloads))
	for _, payload := range payloads {
		products = append(products, *payload.toDomain())
	}
	return products, nil
}

func (p productPayload) toDomain() *domain.Product {
	return &domain.Product{ID: p.ID, Name: p.Name, Price: p.Price}
}
