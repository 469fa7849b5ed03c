// Package catalog maintains a local snapshot of the upstream product master
// so line entry can resolve products without a round trip per keystroke.
package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry.
type Product struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	CostPrice       decimal.Decimal `json:"costPrice"`
	MRP             decimal.Decimal `json:"mrp"`
	CurrentStock    decimal.Decimal `json:"currentStock"`
	DefaultDiscount decimal.Decimal `json:"defaultDiscount"`
	IsActive        bool            `json:"isActive"`
	SyncedAt        time.Time       `json:"syncedAt"`
}

var (
	// ErrNotFound indicates no catalog entry matched.
	ErrNotFound = errors.New("catalog: product not found")
)
