package upstream

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/procure-gateway/internal/catalog"
)

// NamedRef is one master data entry normalized to an {id, name} shape.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListSuppliers fetches the supplier master.
func (c *Client) ListSuppliers(ctx context.Context) ([]NamedRef, error) {
	return c.listNamed(ctx, "/api/suppliers", "supplierName")
}

// ListCenters fetches the center/location master.
func (c *Client) ListCenters(ctx context.Context) ([]NamedRef, error) {
	return c.listNamed(ctx, "/api/centers", "centerName")
}

func (c *Client) listNamed(ctx context.Context, path, altNameKey string) ([]NamedRef, error) {
	body, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("upstream: load %s: %w", path, err)
	}
	items, _ := body["data"].([]any)
	refs := make([]NamedRef, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ref := NamedRef{ID: asString(entry["id"]), Name: firstString(entry, "name", altNameKey)}
		if ref.ID == "" && ref.Name == "" {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// ListProducts fetches the product master, normalized into catalog entries.
// Satisfies catalog.ProductSource for the background sync.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	body, err := c.getJSON(ctx, "/api/products")
	if err != nil {
		return nil, fmt.Errorf("upstream: load products: %w", err)
	}
	items, _ := body["data"].([]any)
	products := make([]catalog.Product, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		product := catalog.Product{
			ID:              asString(entry["id"]),
			Code:            firstString(entry, "code", "productCode", "product_code"),
			Name:            firstString(entry, "name", "productName", "product_name"),
			UnitPrice:       firstDecimal(entry, "unitPrice", "unit_price", "salePrice", "sale_price"),
			CostPrice:       firstDecimal(entry, "costPrice", "cost_price", "cost"),
			MRP:             firstDecimal(entry, "mrp"),
			CurrentStock:    firstDecimal(entry, "currentStock", "current_stock", "stock"),
			DefaultDiscount: firstDecimal(entry, "discount", "defaultDiscount", "default_discount"),
			IsActive:        boolOrDefault(entry["isActive"], boolOrDefault(entry["is_active"], true)),
		}
		if product.ID == "" || product.Name == "" {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func firstString(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := asString(entry[key]); s != "" {
			return s
		}
	}
	return ""
}

func firstDecimal(entry map[string]any, keys ...string) decimal.Decimal {
	for _, key := range keys {
		switch v := entry[key].(type) {
		case float64:
			return decimal.NewFromFloat(v)
		case string:
			if d, err := decimal.NewFromString(v); err == nil {
				return d
			}
		}
	}
	return decimal.Zero
}

func boolOrDefault(value any, fallback bool) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}
