//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ConsumerName          = "order-service"
	CatalogProviderName   = "product-catalog"
	InventoryProviderName = "stock-inventory"

	StateProductExists = "product with id 101 exists"
	StateProductAbsent = "no product with id 404"
	StateStockSeeded   = "stock for product 101 is seeded"
	StateStockDepleted = "stock for product 101 is depleted"
)

const (
	ExistingProductID int64 = 101
	MissingProductID  int64 = 404
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload provides stable test data for catalog interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":    ExistingProductID,
		"name":  "Pact Widget",
		"price": "19.99",
	}
}

// ExampleStockPayload provides stable test data for inventory interactions.
func ExampleStockPayload() map[string]any {
	return map[string]any{
		"productId":         ExistingProductID,
		"productName":       "Pact Widget",
		"quantity":          100,
		"availableQuantity": 80,
		"reservedQuantity":  20,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
