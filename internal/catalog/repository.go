package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository describes catalog persistence operations.
type Repository interface {
	Get(ctx context.Context, id string) (Product, error)
	GetByNameKey(ctx context.Context, nameKey string) (Product, error)
	List(ctx context.Context, search string, limit int) ([]Product, error)
	Upsert(ctx context.Context, product Product, nameKey string) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository constructs the Postgres-backed catalog repository.
func NewRepository(db *pgxpool.Pool, logger *slog.Logger) Repository {
	return &repository{db: db, logger: logger}
}

const productColumns = `id, code, name, unit_price, cost_price, mrp, current_stock, default_discount, is_active, synced_at`

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM catalog_products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *repository) GetByNameKey(ctx context.Context, nameKey string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM catalog_products WHERE name_key = $1`, nameKey)
	return scanProduct(row)
}

func (r *repository) List(ctx context.Context, search string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE is_active`
	args := []interface{}{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR code ILIKE $1)`
		args = append(args, "%"+search+"%")
		query += ` ORDER BY name LIMIT $2`
		args = append(args, limit)
	} else {
		query += ` ORDER BY name LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Upsert writes one synced product, keyed by the upstream id. Two distinct
// upstream products can fold to the same name key; the second insert trips the
// unique index and is skipped with a warning rather than failing the sync run.
func (r *repository) Upsert(ctx context.Context, product Product, nameKey string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO catalog_products (id, code, name, name_key, unit_price, cost_price, mrp, current_stock, default_discount, is_active, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			name_key = EXCLUDED.name_key,
			unit_price = EXCLUDED.unit_price,
			cost_price = EXCLUDED.cost_price,
			mrp = EXCLUDED.mrp,
			current_stock = EXCLUDED.current_stock,
			default_discount = EXCLUDED.default_discount,
			is_active = EXCLUDED.is_active,
			synced_at = EXCLUDED.synced_at`,
		product.ID, product.Code, product.Name, nameKey,
		product.UnitPrice, product.CostPrice, product.MRP,
		product.CurrentStock, product.DefaultDiscount, product.IsActive, product.SyncedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.ConstraintName == "uq_catalog_products_name_key" {
			r.logger.Warn("catalog name collision, keeping earlier product",
				slog.String("id", product.ID), slog.String("nameKey", nameKey))
			return nil
		}
		return err
	}
	return nil
}

// PruneBefore removes entries not refreshed by the latest sync run.
func (r *repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM catalog_products WHERE synced_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.UnitPrice, &p.CostPrice, &p.MRP,
		&p.CurrentStock, &p.DefaultDiscount, &p.IsActive, &p.SyncedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}
