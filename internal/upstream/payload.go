package upstream

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// BuildCreatePayload shapes a draft into the backend's create payload. The
// canonical model is the document package; this is the single serialization
// step. The backend's deployments disagree on key casing, so every field is
// emitted under both its camelCase and snake_case names here and nowhere else.
func BuildCreatePayload(t document.Type, header document.Header, lines []document.LineItem) map[string]any {
	totals := document.ComputeTotals(lines)

	items := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		items = append(items, linePayload(line))
	}

	status := header.Status
	if status == "" {
		status = document.StatusCompleted
	}

	payload := map[string]any{}
	put(payload, "documentNumber", header.DocumentNumber)
	put(payload, numberAlias(t), header.DocumentNumber)
	put(payload, "date", header.Date)
	put(payload, "centerId", header.CenterID)
	put(payload, "supplierId", header.SupplierID)
	put(payload, "refNumber", header.RefNumber)
	put(payload, "status", string(status))
	put(payload, "items", items)
	put(payload, "grossAmount", totals.Gross.StringFixed(2))
	put(payload, "totalDiscount", totals.Discount.StringFixed(2))
	put(payload, "totalAmount", totals.Net.StringFixed(2))
	return payload
}

func linePayload(line document.LineItem) map[string]any {
	item := map[string]any{}
	put(item, "productId", numericID(line.ProductID))
	put(item, "productName", line.Name)
	put(item, "quantity", line.Quantity)
	put(item, "unitPrice", line.UnitPrice.StringFixed(2))
	put(item, "discount", document.LineDiscount(line).StringFixed(2))
	put(item, "grossAmount", document.LineGross(line).StringFixed(2))
	put(item, "lineTotal", document.LineNet(line).StringFixed(2))
	put(item, "mrp", line.MRP.StringFixed(2))
	put(item, "batchNumber", line.BatchNumber)
	return item
}

func numberAlias(t document.Type) string {
	switch t {
	case document.TypePurchaseOrder:
		return "orderNumber"
	case document.TypePurchaseReturn:
		return "purchaseReturnNumber"
	default:
		return "voucherNumber"
	}
}

// numericID resolves a product id to a number when it parses as one. Parse
// failures keep the original value; the backend decides what to do with it.
func numericID(id string) any {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// put writes value under both the camelCase key and its snake_case twin.
func put(m map[string]any, camel string, value any) {
	m[camel] = value
	if snake := snakeKey(camel); snake != camel {
		m[snake] = value
	}
}

func snakeKey(camel string) string {
	var b strings.Builder
	for i, r := range camel {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
