package document

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Draft is one in-progress document: header, ordered lines and the state of
// its create call. All mutation goes through the reducer methods below so the
// totals stay derivable from the value alone.
type Draft struct {
	ID            string          `json:"id"`
	Type          Type            `json:"type"`
	Header        Header          `json:"header"`
	Lines         []LineItem      `json:"lines"`
	BatchTracking bool            `json:"batchTracking"`
	Submission    SubmissionState `json:"submission"`
	// SubmissionExpires bounds how long the in-flight state holds; past it the
	// draft submits again even if the previous attempt never resolved.
	SubmissionExpires time.Time `json:"submissionExpires"`
	FailureReason     string    `json:"failureReason,omitempty"`
}

// AddLineInput is one candidate row before catalog resolution.
type AddLineInput struct {
	ProductID   string
	Name        string
	Quantity    int64
	UnitPrice   *decimal.Decimal
	BatchNumber string
}

// LineUpdate carries the fields of one in-place line edit.
type LineUpdate struct {
	Name          *string
	Quantity      *int64
	UnitPrice     *decimal.Decimal
	DiscountInput *string
	BatchNumber   *string
}

// AddLine appends or merges one line. When entry is non-nil the candidate
// matched the catalog: unit price defaults to the cost price (falling back to
// the general unit price) and MRP, stock and the discount default are copied
// over. Outside batch tracking, a line for the same product absorbs the new
// quantity instead of duplicating the row.
func (d *Draft) AddLine(input AddLineInput, entry *CatalogEntry) (LineItem, error) {
	line := LineItem{
		ID:          uuid.NewString(),
		ProductID:   strings.TrimSpace(input.ProductID),
		Name:        strings.TrimSpace(input.Name),
		Quantity:    input.Quantity,
		BatchNumber: strings.TrimSpace(input.BatchNumber),
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if entry != nil {
		line.ProductID = entry.ID
		line.Name = entry.Name
		line.UnitPrice = entry.CostPrice
		if line.UnitPrice.IsZero() {
			line.UnitPrice = entry.UnitPrice
		}
		line.MRP = entry.MRP
		line.CurrentStock = entry.CurrentStock
		line.ProductDiscount = entry.DefaultDiscount
	}
	if input.UnitPrice != nil {
		line.UnitPrice = *input.UnitPrice
	}
	line.UnitPrice = d.clampPrice(line.UnitPrice, line.MRP)

	if line.Name == "" {
		return LineItem{}, NewValidationError("productName")
	}
	if d.BatchTracking {
		if line.BatchNumber == "" {
			return LineItem{}, NewValidationError("batchNumber")
		}
		d.Lines = append(d.Lines, line)
		return line, nil
	}

	if idx := d.findMatch(line); idx >= 0 {
		d.Lines[idx].Quantity += line.Quantity
		d.Lines[idx].UnitPrice = line.UnitPrice
		return d.Lines[idx], nil
	}
	d.Lines = append(d.Lines, line)
	return line, nil
}

// UpdateLine applies one in-place field edit. Totals are not recomputed here;
// they are derived lazily on the next ComputeTotals read.
func (d *Draft) UpdateLine(lineID string, update LineUpdate) (LineItem, error) {
	idx := d.indexOf(lineID)
	if idx < 0 {
		return LineItem{}, ErrLineNotFound
	}
	line := &d.Lines[idx]
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return LineItem{}, NewValidationError("productName")
		}
		line.Name = name
	}
	if update.Quantity != nil {
		qty := *update.Quantity
		if qty < 1 {
			qty = 1
		}
		line.Quantity = qty
	}
	if update.UnitPrice != nil {
		price := *update.UnitPrice
		if price.IsNegative() {
			price = decimal.Zero
		}
		line.UnitPrice = d.clampPrice(price, line.MRP)
	}
	if update.DiscountInput != nil {
		line.DiscountInput = strings.TrimSpace(*update.DiscountInput)
	}
	if update.BatchNumber != nil {
		line.BatchNumber = strings.TrimSpace(*update.BatchNumber)
	}
	return *line, nil
}

// RemoveLine deletes one line without disturbing the identity of the others.
func (d *Draft) RemoveLine(lineID string) error {
	idx := d.indexOf(lineID)
	if idx < 0 {
		return ErrLineNotFound
	}
	d.Lines = append(d.Lines[:idx], d.Lines[idx+1:]...)
	return nil
}

// ReplaceLines swaps the whole line set, as when a source document (a PO
// being converted to a GRN, or a GRN to a return) is loaded into the form.
func (d *Draft) ReplaceLines(lines []LineItem) {
	d.Lines = append([]LineItem(nil), lines...)
	for i := range d.Lines {
		if d.Lines[i].ID == "" {
			d.Lines[i].ID = uuid.NewString()
		}
	}
}

// Reset clears the form back to an empty draft, keeping identity and type.
func (d *Draft) Reset() {
	d.Lines = nil
	d.Header.RefNumber = ""
	d.Header.CenterID = ""
	d.Header.SupplierID = ""
	d.Submission = SubmissionIdle
	d.SubmissionExpires = time.Time{}
	d.FailureReason = ""
}

// Totals derives the document totals for the current line list.
func (d *Draft) Totals() Totals {
	return ComputeTotals(d.Lines)
}

// Validate checks the draft is complete enough to submit.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Header.Date) == "" {
		return NewValidationError("date")
	}
	if strings.TrimSpace(d.Header.CenterID) == "" {
		return NewValidationError("centerId")
	}
	if strings.TrimSpace(d.Header.SupplierID) == "" {
		return NewValidationError("supplierId")
	}
	if len(d.Lines) == 0 {
		return NewValidationError("lines")
	}
	for _, line := range d.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return NewValidationError("productName")
		}
		if d.BatchTracking && strings.TrimSpace(line.BatchNumber) == "" {
			return NewValidationError("batchNumber")
		}
	}
	return nil
}

// clampPrice caps the unit price at the MRP for purchase order entry.
func (d *Draft) clampPrice(price, mrp decimal.Decimal) decimal.Decimal {
	if d.Type == TypePurchaseOrder && mrp.IsPositive() && price.GreaterThan(mrp) {
		return mrp
	}
	return price
}

func (d *Draft) indexOf(lineID string) int {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// findMatch locates an existing line for the same product, by id when both
// sides carry one, else by case-insensitive name.
func (d *Draft) findMatch(line LineItem) int {
	for i := range d.Lines {
		if line.ProductID != "" && d.Lines[i].ProductID != "" {
			if d.Lines[i].ProductID == line.ProductID {
				return i
			}
			continue
		}
		if strings.EqualFold(d.Lines[i].Name, line.Name) {
			return i
		}
	}
	return -1
}
