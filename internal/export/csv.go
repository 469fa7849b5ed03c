// Package export serialises submitted documents for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// WriteDocumentCSV serialises a document's lines and totals to CSV: header
// row first, currency amounts to two decimal places. Quoting of embedded
// commas, quotes and newlines follows encoding/csv.
func WriteDocumentCSV(w io.Writer, header document.Header, lines []document.LineItem) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Document", "Date", "Product", "Batch", "Quantity", "Unit Price", "Discount", "Line Total"}); err != nil {
		return err
	}
	for _, line := range lines {
		record := []string{
			header.DocumentNumber,
			header.Date,
			line.Name,
			line.BatchNumber,
			strconv.FormatInt(line.Quantity, 10),
			formatAmount(line.UnitPrice),
			formatAmount(document.LineDiscount(line)),
			formatAmount(document.LineNet(line)),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	totals := document.ComputeTotals(lines)
	summary := [][]string{
		{"", "", "", "", "", "Gross Total", "", formatAmount(totals.Gross)},
		{"", "", "", "", "", "Discount Total", "", formatAmount(totals.Discount)},
		{"", "", "", "", "", "Net Total", "", formatAmount(totals.Net)},
	}
	for _, record := range summary {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}
