package search

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// HistoryKey prefixes every session's history key.
	HistoryKey = "papalote-search-history"

	// MaxHistoryEntries is how many distinct queries are remembered.
	MaxHistoryEntries = 10
)

// Entry is one remembered query. Timestamp is in Unix milliseconds.
type Entry struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"`
}

// History keeps each session's most recent distinct queries. Storage
// failures are logged and never surface to callers: a broken read yields an
// empty history and a broken write is dropped.
type History struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewHistory creates a history backed by store.
func NewHistory(store Store, logger zerolog.Logger) *History {
	return &History{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "search-history").Logger(),
	}
}

// Key returns the storage key of a session's history.
func Key(session string) string {
	return HistoryKey + ":" + session
}

// Get returns a session's history, most recent first.
func (h *History) Get(ctx context.Context, session string) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.load(ctx, session)
}

// Add records query at the front of the history, dropping any earlier entry
// with the same text regardless of case. Blank queries are ignored.
func (h *History) Add(ctx context.Context, session, query string) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.load(ctx, session)
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	entries = addEntry(entries, Entry{Query: query, Timestamp: h.now().UnixMilli()})
	h.save(ctx, session, entries)

	return entries
}

// Remove deletes query from the history, ignoring case.
func (h *History) Remove(ctx context.Context, session, query string) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.load(ctx, session)
	kept := withoutQuery(entries, strings.TrimSpace(query))
	if len(kept) != len(entries) {
		h.save(ctx, session, kept)
	}

	return kept
}

// Clear forgets a session's history.
func (h *History) Clear(ctx context.Context, session string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(ctx, Key(session)); err != nil {
		h.logger.Error().Err(err).Str("session", session).Msg("failed to clear search history")
	}
}

func (h *History) load(ctx context.Context, session string) []Entry {
	key := Key(session)

	raw, err := h.store.Get(ctx, key)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("failed to read search history")
		return []Entry{}
	}
	if len(raw) == 0 {
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("corrupted search history, resetting")
		if delErr := h.store.Delete(ctx, key); delErr != nil {
			h.logger.Error().Err(delErr).Str("key", key).Msg("failed to reset search history")
		}
		return []Entry{}
	}

	if entries == nil {
		return []Entry{}
	}
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}
	return entries
}

func (h *History) save(ctx context.Context, session string, entries []Entry) {
	key := Key(session)

	raw, err := json.Marshal(entries)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("failed to encode search history")
		return
	}
	if err := h.store.Set(ctx, key, raw); err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("failed to write search history")
	}
}

// addEntry puts e first, removes older entries with the same query, and
// caps the result at MaxHistoryEntries.
func addEntry(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, MaxHistoryEntries)
	out = append(out, e)
	for _, old := range withoutQuery(entries, e.Query) {
		if len(out) == MaxHistoryEntries {
			break
		}
		out = append(out, old)
	}
	return out
}

func withoutQuery(entries []Entry, query string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !strings.EqualFold(e.Query, query) {
			out = append(out, e)
		}
	}
	return out
}
