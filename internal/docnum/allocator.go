package docnum

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// NextFetcher retrieves the server-suggested next number for a document type.
type NextFetcher interface {
	FetchNextNumber(ctx context.Context, t document.Type) (string, error)
}

// Allocator produces the next-in-sequence document number, tolerating backend
// unavailability with a pattern-preserving local increment of the last known
// number. Allocation failures are never fatal to the entry form.
type Allocator struct {
	fetcher NextFetcher
	store   Store
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group
}

// NewAllocator constructs an Allocator.
func NewAllocator(fetcher NextFetcher, store Store, logger *slog.Logger) *Allocator {
	return &Allocator{fetcher: fetcher, store: store, logger: logger, now: time.Now}
}

// Next returns the number to display for a fresh document of the given type.
// The second return is true when the number was derived locally because the
// fetch failed; callers surface that as a soft notice only.
func (a *Allocator) Next(ctx context.Context, t document.Type) (string, bool) {
	value, err, _ := a.group.Do(string(t), func() (any, error) {
		raw, err := a.fetcher.FetchNextNumber(ctx, t)
		if err != nil {
			return nil, err
		}
		return Normalize(t, raw, a.now()), nil
	})
	if err == nil {
		number := value.(string)
		a.remember(ctx, t, number)
		return number, false
	}
	a.logger.Warn("next number fetch failed, deriving locally",
		slog.String("docType", string(t)), slog.Any("error", err))
	return a.localNext(ctx, t), true
}

// ConfirmUsed records a number consumed by a successful creation and returns
// the reconciled next number. The last-used value is incremented optimistically
// first; a refetch then reconciles against the server, and a server value
// identical to the consumed number (its counter not yet advanced) is bumped
// locally once more so the form never shows a duplicate.
func (a *Allocator) ConfirmUsed(ctx context.Context, t document.Type, used string) string {
	used = strings.TrimSpace(used)

	next, err := Increment(used)
	if err != nil {
		next = Seed(t, a.now())
	}

	if raw, ferr := a.fetcher.FetchNextNumber(ctx, t); ferr == nil {
		fetched := Normalize(t, raw, a.now())
		if fetched == used {
			if bumped, berr := Increment(fetched); berr == nil {
				fetched = bumped
			}
		}
		next = fetched
	} else {
		a.logger.Warn("next number reconcile failed, keeping optimistic increment",
			slog.String("docType", string(t)), slog.Any("error", ferr))
	}

	a.remember(ctx, t, next)
	return next
}

func (a *Allocator) localNext(ctx context.Context, t document.Type) string {
	last, err := a.store.LastNumber(ctx, t)
	if err != nil || last == "" {
		return Seed(t, a.now())
	}
	next, ierr := Increment(last)
	if ierr != nil {
		return Seed(t, a.now())
	}
	return next
}

func (a *Allocator) remember(ctx context.Context, t document.Type, number string) {
	if err := a.store.SetLastNumber(ctx, t, number); err != nil {
		a.logger.Warn("persist last number failed", slog.String("docType", string(t)), slog.Any("error", err))
	}
}
