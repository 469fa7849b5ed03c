package upstream

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, slog.Default())
}

func TestCreateDocumentSuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/grn", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":42,"voucherNumber":"GRN-0010"}}`))
	})

	created, err := client.CreateDocument(context.Background(), document.TypeGRN, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, int64(42), created.ID)
	require.Equal(t, "GRN-0010", created.Number)
}

func TestCreateDocumentNumberKeyPerType(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/purchase-orders", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":7,"order_number":"PO-2025-0003"}}`))
	})

	created, err := client.CreateDocument(context.Background(), document.TypePurchaseOrder, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "PO-2025-0003", created.Number)
}

func TestCreateDocument422WithNestedErrors(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"items.0.product_id":["missing"]}}`))
	})

	_, err := client.CreateDocument(context.Background(), document.TypeGRN, map[string]any{})
	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.True(t, submissionErr.Validation())
	require.Contains(t, submissionErr.Message, "items.0.product_id")
	require.Equal(t, []string{"items.0.product_id"}, submissionErr.MissingProducts)
}

func TestCreateDocument422WithArrayOfIDs(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"missing_product_ids":[12,34]}`))
	})

	_, err := client.CreateDocument(context.Background(), document.TypeGRN, map[string]any{})
	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, []string{"12", "34"}, submissionErr.MissingProducts)
	require.Contains(t, submissionErr.Message, "12")
	require.Contains(t, submissionErr.Message, "34")
}

func TestCreateDocument422WithDelimitedString(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"missingProductIds":"12, 34 56"}`))
	})

	_, err := client.CreateDocument(context.Background(), document.TypeGRN, map[string]any{})
	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, []string{"12", "34", "56"}, submissionErr.MissingProducts)
}

func TestCreateDocument422MessageFallback(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"supplier is inactive"}`))
	})

	_, err := client.CreateDocument(context.Background(), document.TypeGRN, map[string]any{})
	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, "supplier is inactive", submissionErr.Message)
	require.Empty(t, submissionErr.MissingProducts)
}

func TestCreateDocumentGenericFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`oops`))
	})

	_, err := client.CreateDocument(context.Background(), document.TypeGRN, map[string]any{})
	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.False(t, submissionErr.Validation())
	require.Contains(t, submissionErr.Message, "retry")
}
