package upstream

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListSuppliersNormalizesShapes(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/suppliers", r.URL.Path)
		// Bare array root, mixed id types and name keys.
		_, _ = w.Write([]byte(`[{"id":1,"supplierName":"Acme"},{"id":"2","name":"Globex"},{"note":"skipped"}]`))
	})

	refs, err := client.ListSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, NamedRef{ID: "1", Name: "Acme"}, refs[0])
	require.Equal(t, NamedRef{ID: "2", Name: "Globex"}, refs[1])
}

func TestListCentersWrappedData(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/centers", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":5,"centerName":"Main Store"}]}`))
	})

	refs, err := client.ListCenters(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "Main Store", refs[0].Name)
}

func TestListProducts(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[
			{"id":101,"productName":"Widget","cost_price":80,"salePrice":120,"mrp":150,"stock":12,"discount":"5"},
			{"id":102,"name":"Gadget","unitPrice":"9.50","is_active":false},
			{"name":"No ID"}
		]}`))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.Equal(t, "101", products[0].ID)
	require.Equal(t, "Widget", products[0].Name)
	require.True(t, products[0].CostPrice.Equal(dec(t, "80")))
	require.True(t, products[0].UnitPrice.Equal(dec(t, "120")))
	require.True(t, products[0].MRP.Equal(dec(t, "150")))
	require.True(t, products[0].CurrentStock.Equal(dec(t, "12")))
	require.True(t, products[0].DefaultDiscount.Equal(dec(t, "5")))
	require.True(t, products[0].IsActive)

	require.Equal(t, "Gadget", products[1].Name)
	require.True(t, products[1].UnitPrice.Equal(dec(t, "9.50")))
	require.False(t, products[1].IsActive)
}

func TestListSuppliersUpstreamDown(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := client.ListSuppliers(context.Background())
	require.Error(t, err)
}
