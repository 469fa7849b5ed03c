package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Service resolves line entry candidates against the catalog snapshot.
type Service struct {
	repo Repository
}

// NewService constructs the catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NameKey folds a product name for case-insensitive exact matching. Names are
// NFC-normalized first so composed and decomposed spellings collide.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}

// ResolveByID looks a product up by upstream id. A miss is reported via the
// boolean, not an error; free-text product names are allowed when unmatched.
func (s *Service) ResolveByID(ctx context.Context, id string) (Product, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, false, nil
	}
	product, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return product, true, nil
}

// ResolveByName looks a product up by case-insensitive exact name.
func (s *Service) ResolveByName(ctx context.Context, name string) (Product, bool, error) {
	key := NameKey(name)
	if key == "" {
		return Product{}, false, nil
	}
	product, err := s.repo.GetByNameKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return product, true, nil
}

// Search lists active products for the entry form's product picker.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	return s.repo.List(ctx, strings.TrimSpace(query), limit)
}

// ProductSource lists products from the upstream master data API.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// Syncer refreshes the catalog snapshot from the upstream product master.
type Syncer struct {
	source ProductSource
	repo   Repository
	now    func() time.Time
}

// NewSyncer constructs a Syncer.
func NewSyncer(source ProductSource, repo Repository) *Syncer {
	return &Syncer{source: source, repo: repo, now: time.Now}
}

// Sync pulls the upstream product list, upserts every entry and prunes rows
// the upstream no longer reports. Returns the number of products written.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	started := s.now()
	written := 0
	for _, product := range products {
		product.SyncedAt = s.now()
		if err := s.repo.Upsert(ctx, product, NameKey(product.Name)); err != nil {
			return written, err
		}
		written++
	}
	if _, err := s.repo.PruneBefore(ctx, started); err != nil {
		return written, err
	}
	return written, nil
}
