package drafts

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

type createDraftRequest struct {
	Type          string `json:"type" validate:"required,oneof=GRN PO PRT"`
	BatchTracking bool   `json:"batchTracking"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type addLineRequest struct {
	ProductID   string           `json:"productId"`
	Name        string           `json:"name"`
	Quantity    int64            `json:"quantity" validate:"omitempty,min=1"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	BatchNumber string           `json:"batchNumber"`
}

func (r addLineRequest) toInput() document.AddLineInput {
	return document.AddLineInput{
		ProductID:   r.ProductID,
		Name:        r.Name,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		BatchNumber: r.BatchNumber,
	}
}

type updateLineRequest struct {
	Name        *string          `json:"name"`
	Quantity    *int64           `json:"quantity" validate:"omitempty,min=1"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	Discount    *string          `json:"discount"`
	BatchNumber *string          `json:"batchNumber"`
}

func (r updateLineRequest) toUpdate() document.LineUpdate {
	return document.LineUpdate{
		Name:          r.Name,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		DiscountInput: r.Discount,
		BatchNumber:   r.BatchNumber,
	}
}

type updateHeaderRequest struct {
	Date       *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	CenterID   *string `json:"centerId"`
	SupplierID *string `json:"supplierId"`
	RefNumber  *string `json:"refNumber"`
	Status     *string `json:"status" validate:"omitempty,oneof=Draft Completed Pending"`
}

func (r updateHeaderRequest) toUpdate() HeaderUpdate {
	update := HeaderUpdate{
		Date:       r.Date,
		CenterID:   r.CenterID,
		SupplierID: r.SupplierID,
		RefNumber:  r.RefNumber,
	}
	if r.Status != nil {
		status := document.Status(*r.Status)
		update.Status = &status
	}
	return update
}
