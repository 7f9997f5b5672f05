package domain

import "github.com/shopspring/decimal"

// Product is the read-only descriptor served by the remote catalog. The
// order workflow only needs existence plus the identifier; the remaining
// attributes are passed through for callers that want them.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}
