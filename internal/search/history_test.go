package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	getErr, setErr, delErr error
}

func (s *failingStore) Get(context.Context, string) ([]byte, error) { return nil, s.getErr }
func (s *failingStore) Set(context.Context, string, []byte) error   { return s.setErr }
func (s *failingStore) Delete(context.Context, string) error         { return s.delErr }

func newTestHistory(store Store) *History {
	h := NewHistory(store, zerolog.Nop())
	clock := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return h
}

func queries(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Query
	}
	return out
}

func TestHistory_AddMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(NewMemoryStore())

	h.Add(ctx, "s1", "alebrije")
	h.Add(ctx, "s1", "talavera")
	got := h.Add(ctx, "s1", "rebozo")

	assert.Equal(t, []string{"rebozo", "talavera", "alebrije"}, queries(got))
	assert.Equal(t, got, h.Get(ctx, "s1"))
	assert.Greater(t, got[0].Timestamp, got[1].Timestamp)
}

func TestHistory_AddDeduplicatesIgnoringCase(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(NewMemoryStore())

	h.Add(ctx, "s1", "Barro Negro")
	h.Add(ctx, "s1", "huipil")
	got := h.Add(ctx, "s1", "barro negro")

	assert.Equal(t, []string{"barro negro", "huipil"}, queries(got))
}

func TestHistory_AddTrimsAndIgnoresBlank(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(NewMemoryStore())

	h.Add(ctx, "s1", "  seda  ")
	got := h.Add(ctx, "s1", "   ")

	assert.Equal(t, []string{"seda"}, queries(got))
}

func TestHistory_CapsEntries(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(NewMemoryStore())

	for i := 0; i < MaxHistoryEntries+5; i++ {
		h.Add(ctx, "s1", fmt.Sprintf("consulta %d", i))
	}

	got := h.Get(ctx, "s1")
	require.Len(t, got, MaxHistoryEntries)
	assert.Equal(t, fmt.Sprintf("consulta %d", MaxHistoryEntries+4), got[0].Query)
	assert.Equal(t, "consulta 5", got[MaxHistoryEntries-1].Query)
}

func TestHistory_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(NewMemoryStore())

	h.Add(ctx, "s1", "talavera")
	h.Add(ctx, "s2", "alebrije")

	assert.Equal(t, []string{"talavera"}, queries(h.Get(ctx, "s1")))
	assert.Equal(t, []string{"alebrije"}, queries(h.Get(ctx, "s2")))
}

func TestHistory_Remove(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(NewMemoryStore())

	h.Add(ctx, "s1", "talavera")
	h.Add(ctx, "s1", "alebrije")

	got := h.Remove(ctx, "s1", "TALAVERA")
	assert.Equal(t, []string{"alebrije"}, queries(got))

	got = h.Remove(ctx, "s1", "missing")
	assert.Equal(t, []string{"alebrije"}, queries(got))
}

func TestHistory_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h := newTestHistory(store)

	h.Add(ctx, "s1", "talavera")
	h.Clear(ctx, "s1")

	got := h.Get(ctx, "s1")
	require.NotNil(t, got)
	assert.Empty(t, got)

	raw, err := store.Get(ctx, Key("s1"))
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestHistory_CorruptedDataResets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, Key("s1"), []byte("{not json")))
	h := newTestHistory(store)

	got := h.Get(ctx, "s1")
	require.NotNil(t, got)
	assert.Empty(t, got)

	raw, err := store.Get(ctx, Key("s1"))
	require.NoError(t, err)
	assert.Nil(t, raw, "corrupted key should be removed")

	got = h.Add(ctx, "s1", "rebozo")
	assert.Equal(t, []string{"rebozo"}, queries(got))
}

func TestHistory_StoreFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	h := newTestHistory(&failingStore{getErr: boom, setErr: boom, delErr: boom})

	assert.Empty(t, h.Get(ctx, "s1"))
	assert.Equal(t, []string{"talavera"}, queries(h.Add(ctx, "s1", "talavera")))
	assert.Empty(t, h.Remove(ctx, "s1", "talavera"))
	assert.NotPanics(t, func() { h.Clear(ctx, "s1") })
}

func TestKey(t *testing.T) {
	assert.Equal(t, "papalote-search-history:abc", Key("abc"))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
