package document

// ComputeTotals derives the document totals from the line list. It is a pure
// function: repeated calls over an unchanged list return identical results.
func ComputeTotals(lines []LineItem) Totals {
	totals := Totals{}
	for _, line := range lines {
		totals.Gross = totals.Gross.Add(LineGross(line))
		totals.Discount = totals.Discount.Add(LineDiscount(line))
		totals.Net = totals.Net.Add(LineNet(line))
	}
	return totals
}
