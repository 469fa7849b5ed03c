package upstream

import (
	"context"
	"fmt"
	"strconv"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// FetchNextNumber asks the backend for the next number of a document type. The
// value is returned raw; canonical formatting is the allocator's concern.
func (c *Client) FetchNextNumber(ctx context.Context, t document.Type) (string, error) {
	body, err := c.getJSON(ctx, nextNumberPath(t))
	if err != nil {
		return "", err
	}
	if next := digNext(body); next != "" {
		return next, nil
	}
	return "", fmt.Errorf("upstream: next number for %s: no recognizable value in response", t)
}

// digNext finds the next-number value under the casings and nestings the
// backend has been observed to use.
func digNext(body map[string]any) string {
	keys := []string{"next", "nextNumber", "next_number", "number"}
	for _, key := range keys {
		if s := asString(body[key]); s != "" {
			return s
		}
	}
	if nested, ok := body["data"].(map[string]any); ok {
		for _, key := range keys {
			if s := asString(nested[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// asString renders scalar JSON values as strings; integral floats drop the
// fractional part so numeric counters read as plain sequences.
func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
