package docnum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

var testNow = time.Date(2025, time.August, 30, 12, 0, 0, 0, time.UTC)

func TestIncrementPreservesPatternAndWidth(t *testing.T) {
	cases := map[string]string{
		"GRN-0009":     "GRN-0010",
		"PO-2025-0099": "PO-2025-0100",
		"PRT-25-9999":  "PRT-25-10000",
		"GRN-7":        "GRN-8",
		"INV-003/A":    "INV-004/A",
	}
	for in, want := range cases {
		got, err := Increment(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}
}

func TestIncrementWithoutDigits(t *testing.T) {
	_, err := Increment("DRAFT")
	require.ErrorIs(t, err, ErrNoSequence)
	_, err = Increment("")
	require.ErrorIs(t, err, ErrNoSequence)
}

func TestSeedPerType(t *testing.T) {
	require.Equal(t, "GRN-0001", Seed(document.TypeGRN, testNow))
	require.Equal(t, "PO-2025-0001", Seed(document.TypePurchaseOrder, testNow))
	require.Equal(t, "PRT-25-0001", Seed(document.TypePurchaseReturn, testNow))
}

func TestNormalize(t *testing.T) {
	// Bare sequences get the canonical prefix.
	require.Equal(t, "GRN-0007", Normalize(document.TypeGRN, "7", testNow))
	require.Equal(t, "PO-2025-0012", Normalize(document.TypePurchaseOrder, "12", testNow))
	require.Equal(t, "PRT-25-0003", Normalize(document.TypePurchaseReturn, "3", testNow))

	// Values already carrying the type prefix keep it, re-padded.
	require.Equal(t, "GRN-0042", Normalize(document.TypeGRN, "GRN-42", testNow))
	require.Equal(t, "PO-2024-0100", Normalize(document.TypePurchaseOrder, "PO-2024-0100", testNow))

	// Wide sequences keep their width.
	require.Equal(t, "GRN-10000", Normalize(document.TypeGRN, "GRN-10000", testNow))

	// Garbage falls back to the seed.
	require.Equal(t, "GRN-0001", Normalize(document.TypeGRN, "", testNow))
	require.Equal(t, "PO-2025-0001", Normalize(document.TypePurchaseOrder, "pending", testNow))
}
