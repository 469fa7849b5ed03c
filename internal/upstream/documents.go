package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// CreatedDocument is the backend's answer to a successful create call.
type CreatedDocument struct {
	ID     int64
	Number string
}

// CreateDocument posts a create payload for the document type. Rejections come
// back as *SubmissionError; 422 bodies are mined for the product references
// the backend could not match so the user sees specifics, not a shrug.
func (c *Client) CreateDocument(ctx context.Context, t document.Type, payload map[string]any) (CreatedDocument, error) {
	status, body, err := c.postJSON(ctx, createPath(t), payload)
	if err != nil {
		return CreatedDocument{}, &SubmissionError{Message: "document creation failed: " + err.Error()}
	}

	if status >= 200 && status < 300 {
		return parseCreated(body), nil
	}

	if status == 422 {
		return CreatedDocument{}, parseValidationFailure(body)
	}

	c.logger.Warn("document creation rejected", slog.String("docType", string(t)), slog.Int("status", status))
	message := backendMessage(body)
	if message == "" {
		message = fmt.Sprintf("document creation failed with status %d, please retry", status)
	}
	return CreatedDocument{}, &SubmissionError{Status: status, Message: message}
}

func parseCreated(body map[string]any) CreatedDocument {
	data, ok := body["data"].(map[string]any)
	if !ok {
		data = body
	}
	created := CreatedDocument{}
	if id, ok := data["id"].(float64); ok {
		created.ID = int64(id)
	}
	for _, key := range []string{
		"voucherNumber", "voucher_number",
		"orderNumber", "order_number",
		"purchaseReturnNumber", "purchase_return_number",
		"documentNumber", "document_number",
	} {
		if s := asString(data[key]); s != "" {
			created.Number = s
			break
		}
	}
	return created
}

func parseValidationFailure(body map[string]any) *SubmissionError {
	missing := missingProductRefs(body)
	if len(missing) > 0 {
		return &SubmissionError{
			Status:          422,
			Message:         "missing product references: " + strings.Join(missing, ", "),
			MissingProducts: missing,
		}
	}
	message := backendMessage(body)
	if message == "" {
		message = "document rejected by backend validation"
	}
	return &SubmissionError{Status: 422, Message: message}
}

// missingProductRefs extracts unmatched product identifiers from the shapes
// the backend emits: a flat array, a nested errors object keyed per item
// field, or a comma/whitespace separated string.
func missingProductRefs(body map[string]any) []string {
	if body == nil {
		return nil
	}
	var refs []string
	for _, key := range []string{"missingProductIds", "missing_product_ids", "missingProducts", "missing_products"} {
		refs = append(refs, refList(body[key])...)
		if data, ok := body["data"].(map[string]any); ok {
			refs = append(refs, refList(data[key])...)
		}
	}
	if errObj, ok := body["errors"].(map[string]any); ok {
		for key := range errObj {
			if strings.Contains(key, "product") {
				refs = append(refs, key)
			}
		}
	}
	if len(refs) == 0 {
		return nil
	}
	sort.Strings(refs)
	deduped := refs[:0]
	for i, ref := range refs {
		if i == 0 || refs[i-1] != ref {
			deduped = append(deduped, ref)
		}
	}
	return deduped
}

func refList(value any) []string {
	switch v := value.(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
	default:
		return nil
	}
}

func backendMessage(body map[string]any) string {
	if body == nil {
		return ""
	}
	if s := asString(body["message"]); s != "" {
		return s
	}
	switch errs := body["errors"].(type) {
	case string:
		return errs
	case []any:
		var parts []string
		for _, item := range errs {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		var parts []string
		for key, value := range errs {
			parts = append(parts, key+": "+flattenMessages(value))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return ""
}

func flattenMessages(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		var parts []string
		for _, item := range v {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
