// Package docnum produces and maintains the sequential document numbers shown
// in the entry form header for each purchasing document type.
package docnum

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// ErrNoSequence indicates a number carries no trailing digit run to advance.
var ErrNoSequence = errors.New("docnum: no digit sequence in number")

// sequencePattern splits a document number into prefix, digit run and suffix.
var sequencePattern = regexp.MustCompile(`^(.*?)(\d+)([^0-9]*)$`)

const seqWidth = 4

// Increment advances the trailing digit run of a document number, preserving
// the surrounding pattern and the digit width. The width grows when the
// incremented value overflows the original padding.
func Increment(number string) (string, error) {
	m := sequencePattern.FindStringSubmatch(strings.TrimSpace(number))
	if m == nil {
		return "", ErrNoSequence
	}
	seq, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return "", ErrNoSequence
	}
	return m[1] + fmt.Sprintf("%0*d", len(m[2]), seq+1) + m[3], nil
}

// Seed returns the hardcoded first number for a document type, used when no
// previous number is known at all.
func Seed(t document.Type, now time.Time) string {
	return typePrefix(t, now) + fmt.Sprintf("%0*d", seqWidth, 1)
}

// Normalize converts a server-reported next number into the canonical display
// form for the document type: GRN-<digits>, PO-<yyyy>-<seq>, PRT-<yy>-<seq>.
// Bare sequence values get the canonical prefix attached; values that already
// carry the type's prefix keep it, with the sequence re-padded.
func Normalize(t document.Type, raw string, now time.Time) string {
	m := sequencePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Seed(t, now)
	}
	seq, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return Seed(t, now)
	}
	width := len(m[2])
	if width < seqWidth {
		width = seqWidth
	}
	prefix := m[1]
	if !strings.HasPrefix(prefix, string(t)+"-") {
		prefix = typePrefix(t, now)
	}
	return prefix + fmt.Sprintf("%0*d", width, seq)
}

func typePrefix(t document.Type, now time.Time) string {
	switch t {
	case document.TypePurchaseOrder:
		return fmt.Sprintf("PO-%04d-", now.Year())
	case document.TypePurchaseReturn:
		return fmt.Sprintf("PRT-%02d-", now.Year()%100)
	default:
		return "GRN-"
	}
}
