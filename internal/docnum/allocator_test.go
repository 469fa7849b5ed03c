package docnum

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

type fakeFetcher struct {
	next  string
	err   error
	calls int
}

func (f *fakeFetcher) FetchNextNumber(ctx context.Context, t document.Type) (string, error) {
	f.calls++
	return f.next, f.err
}

func TestAllocatorNextFromServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fetcher := &fakeFetcher{next: "GRN-0007"}
	alloc := NewAllocator(fetcher, NewRedisStore(client), slog.Default())

	number, fallback := alloc.Next(context.Background(), document.TypeGRN)
	require.Equal(t, "GRN-0007", number)
	require.False(t, fallback)

	// The fetched number is remembered for later fallback.
	last, err := NewRedisStore(client).LastNumber(context.Background(), document.TypeGRN)
	require.NoError(t, err)
	require.Equal(t, "GRN-0007", last)
}

func TestAllocatorNextFallsBackToLocalIncrement(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)

	require.NoError(t, store.SetLastNumber(context.Background(), document.TypeGRN, "GRN-0009"))

	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	alloc := NewAllocator(fetcher, store, slog.Default())

	number, fallback := alloc.Next(context.Background(), document.TypeGRN)
	require.Equal(t, "GRN-0010", number)
	require.True(t, fallback)
}

func TestAllocatorNextSeedsWhenNothingKnown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fetcher := &fakeFetcher{err: errors.New("down")}
	alloc := NewAllocator(fetcher, NewRedisStore(client), slog.Default())

	number, fallback := alloc.Next(context.Background(), document.TypeGRN)
	require.Equal(t, "GRN-0001", number)
	require.True(t, fallback)
}

func TestConfirmUsedReconcilesWithServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fetcher := &fakeFetcher{next: "GRN-0011"}
	alloc := NewAllocator(fetcher, NewRedisStore(client), slog.Default())

	next := alloc.ConfirmUsed(context.Background(), document.TypeGRN, "GRN-0010")
	require.Equal(t, "GRN-0011", next)
}

func TestConfirmUsedBumpsStaleServerCounter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	// Server still reports the number that was just consumed.
	fetcher := &fakeFetcher{next: "GRN-0010"}
	alloc := NewAllocator(fetcher, NewRedisStore(client), slog.Default())

	next := alloc.ConfirmUsed(context.Background(), document.TypeGRN, "GRN-0010")
	require.NotEqual(t, "GRN-0010", next)
	require.Equal(t, "GRN-0011", next)
}

func TestConfirmUsedKeepsOptimisticIncrementOnFetchFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fetcher := &fakeFetcher{err: errors.New("down")}
	alloc := NewAllocator(fetcher, NewRedisStore(client), slog.Default())

	next := alloc.ConfirmUsed(context.Background(), document.TypeGRN, "GRN-0010")
	require.Equal(t, "GRN-0011", next)
}
