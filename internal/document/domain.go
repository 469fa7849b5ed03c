// Package document holds the in-progress purchasing document model: the
// ordered line item list, its reducer operations, and the derived totals.
package document

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Type identifies a purchasing document flow.
type Type string

const (
	TypeGRN            Type = "GRN"
	TypePurchaseOrder  Type = "PO"
	TypePurchaseReturn Type = "PRT"
)

// Valid reports whether t names a known document type.
func (t Type) Valid() bool {
	switch t {
	case TypeGRN, TypePurchaseOrder, TypePurchaseReturn:
		return true
	}
	return false
}

// Document statuses, assigned once at submission time.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
)

// Submission states for one draft's create call.
type SubmissionState string

const (
	SubmissionIdle      SubmissionState = "IDLE"
	SubmissionInFlight  SubmissionState = "SUBMITTING"
	SubmissionSucceeded SubmissionState = "SUCCEEDED"
	SubmissionFailed    SubmissionState = "FAILED"
)

// LineItem is one row of a document.
type LineItem struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId,omitempty"`
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountInput   string          `json:"discountInput"`
	ProductDiscount decimal.Decimal `json:"productDiscount"`
	MRP             decimal.Decimal `json:"mrp"`
	BatchNumber     string          `json:"batchNumber,omitempty"`
	CurrentStock    decimal.Decimal `json:"currentStock"`
}

// Header carries the shared document header fields.
type Header struct {
	DocumentNumber string `json:"documentNumber"`
	Date           string `json:"date"`
	CenterID       string `json:"centerId"`
	SupplierID     string `json:"supplierId"`
	RefNumber      string `json:"refNumber,omitempty"`
	Status         Status `json:"status"`
}

// Totals is derived from the line list and never stored independently.
type Totals struct {
	Gross    decimal.Decimal `json:"grossTotal"`
	Discount decimal.Decimal `json:"discountTotal"`
	Net      decimal.Decimal `json:"netTotal"`
}

// CatalogEntry is the slice of the product master a line resolution needs.
type CatalogEntry struct {
	ID              string
	Name            string
	UnitPrice       decimal.Decimal
	CostPrice       decimal.Decimal
	MRP             decimal.Decimal
	CurrentStock    decimal.Decimal
	DefaultDiscount decimal.Decimal
}

var (
	// ErrLineNotFound indicates the referenced line does not exist.
	ErrLineNotFound = errors.New("document: line not found")
)

// ValidationError reports a missing or invalid field on the draft.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document: %s required", e.Field)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}
