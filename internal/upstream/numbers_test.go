package upstream

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

func TestFetchNextNumberShapes(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"next":"GRN-0007"}`, "GRN-0007"},
		{`{"nextNumber":"PO-2025-0001"}`, "PO-2025-0001"},
		{`{"next_number":17}`, "17"},
		{`{"data":{"next":"PRT-25-0002"}}`, "PRT-25-0002"},
	}
	for _, tc := range cases {
		body := tc.body
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/grn/next-number", r.URL.Path)
			_, _ = w.Write([]byte(body))
		})
		got, err := client.FetchNextNumber(context.Background(), document.TypeGRN)
		require.NoError(t, err, body)
		require.Equal(t, tc.want, got)
	}
}

func TestFetchNextNumberUnrecognizedBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	_, err := client.FetchNextNumber(context.Background(), document.TypeGRN)
	require.Error(t, err)
}

func TestFetchNextNumberServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.FetchNextNumber(context.Background(), document.TypeGRN)
	require.Error(t, err)
}
