package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	byID      map[string]Product
	byNameKey map[string]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]Product), byNameKey: make(map[string]Product)}
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) GetByNameKey(ctx context.Context, nameKey string) (Product, error) {
	p, ok := r.byNameKey[nameKey]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) List(ctx context.Context, search string, limit int) ([]Product, error) {
	var out []Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) Upsert(ctx context.Context, product Product, nameKey string) error {
	r.byID[product.ID] = product
	r.byNameKey[nameKey] = product
	return nil
}

func (r *memoryRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var pruned int64
	for id, p := range r.byID {
		if p.SyncedAt.Before(cutoff) {
			delete(r.byID, id)
			pruned++
		}
	}
	return pruned, nil
}

type staticSource struct {
	products []Product
	err      error
}

func (s *staticSource) ListProducts(ctx context.Context) ([]Product, error) {
	return s.products, s.err
}

func TestNameKey(t *testing.T) {
	require.Equal(t, "widget", NameKey("  Widget "))
	require.Equal(t, NameKey("CAFÉ"), NameKey("café"))
	require.Equal(t, "", NameKey("   "))
}

func TestResolveByID(t *testing.T) {
	repo := newMemoryRepo()
	require.NoError(t, repo.Upsert(context.Background(), Product{ID: "101", Name: "Widget"}, "widget"))
	svc := NewService(repo)

	product, found, err := svc.ResolveByID(context.Background(), "101")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Widget", product.Name)

	_, found, err = svc.ResolveByID(context.Background(), "999")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = svc.ResolveByID(context.Background(), "")
	require.NoError(t, err)
	require.False(t, found)
}

func TestResolveByNameIsCaseInsensitive(t *testing.T) {
	repo := newMemoryRepo()
	require.NoError(t, repo.Upsert(context.Background(), Product{ID: "101", Name: "Widget"}, NameKey("Widget")))
	svc := NewService(repo)

	product, found, err := svc.ResolveByName(context.Background(), "wIdGeT")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "101", product.ID)
}

func TestSyncerUpsertsAndPrunes(t *testing.T) {
	repo := newMemoryRepo()
	stale := Product{ID: "900", Name: "Old", SyncedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Upsert(context.Background(), stale, NameKey(stale.Name)))

	source := &staticSource{products: []Product{
		{ID: "101", Name: "Widget", CostPrice: decimal.NewFromInt(80)},
		{ID: "102", Name: "Gadget"},
	}}
	syncer := NewSyncer(source, repo)

	count, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = repo.Get(context.Background(), "900")
	require.ErrorIs(t, err, ErrNotFound)
	fresh, err := repo.Get(context.Background(), "101")
	require.NoError(t, err)
	require.False(t, fresh.SyncedAt.IsZero())
}
