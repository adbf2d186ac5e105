package collection

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/response"
)

// Loader retrieves the full list from the server.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Renderer draws a list or, when there is nothing to show, a placeholder.
type Renderer[T any] interface {
	Rows(items []T)
	Placeholder(message string)
}

// Fetcher loads a remote list, caches the unfiltered copy and renders it.
// Filtering and "show all" work on the cache and never refetch.
type Fetcher[T any] struct {
	name      string
	load      Loader[T]
	field     func(T) string
	render    Renderer[T]
	emptyText string
	log       zerolog.Logger

	mu     sync.Mutex
	cache  []T
	query  string
	loaded bool
}

// Options configures a Fetcher.
type Options[T any] struct {
	// Name identifies the list in logs.
	Name string
	Load Loader[T]
	// Field is the display field the filter matches against.
	Field func(T) string
	// Render may be nil for headless use.
	Render Renderer[T]
	// EmptyText is shown when the server returns no rows.
	EmptyText string
}

// New creates a Fetcher.
func New[T any](opts Options[T], log zerolog.Logger) *Fetcher[T] {
	if opts.EmptyText == "" {
		opts.EmptyText = "No records found."
	}
	return &Fetcher[T]{
		name:      opts.Name,
		load:      opts.Load,
		field:     opts.Field,
		render:    opts.Render,
		emptyText: opts.EmptyText,
		log:       log.With().Str("collection", opts.Name).Logger(),
	}
}

// Load fetches the list. On success the cache is replaced, the filter is
// cleared and the full list is rendered. On failure the cache is dropped and
// the placeholder shows the error, so a stale table is never left on screen.
// Concurrent loads are not ordered; the last reply to arrive wins.
func (f *Fetcher[T]) Load(ctx context.Context) ([]T, error) {
	items, err := f.load(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.query = ""
	if err != nil {
		f.cache = nil
		f.loaded = false
		f.log.Warn().Err(err).Msg("Load failed")
		f.placeholder(response.DisplayOf(err))
		return nil, err
	}

	f.cache = append([]T(nil), items...)
	f.loaded = true
	f.log.Debug().Int("count", len(items)).Msg("Loaded")
	f.draw(f.cache, f.emptyText)
	return f.copy(f.cache), nil
}

// Filter renders the cached rows whose display field contains q, ignoring
// case. An empty q is the same as ShowAll.
func (f *Fetcher[T]) Filter(q string) []T {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.query = strings.TrimSpace(q)
	out := f.visible()
	f.draw(out, "No records match \""+f.query+"\".")
	return out
}

// ShowAll clears the filter and renders the cached list.
func (f *Fetcher[T]) ShowAll() []T {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.query = ""
	f.draw(f.cache, f.emptyText)
	return f.copy(f.cache)
}

// Items returns the cached unfiltered list.
func (f *Fetcher[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copy(f.cache)
}

// Visible returns the cached rows that pass the current filter.
func (f *Fetcher[T]) Visible() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible()
}

// Query returns the active filter text.
func (f *Fetcher[T]) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Loaded reports whether the last load succeeded.
func (f *Fetcher[T]) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

// Find returns the first cached item matching pred.
func (f *Fetcher[T]) Find(pred func(T) bool) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.cache {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (f *Fetcher[T]) visible() []T {
	if f.query == "" || f.field == nil {
		return f.copy(f.cache)
	}
	needle := strings.ToLower(f.query)
	out := make([]T, 0, len(f.cache))
	for _, it := range f.cache {
		if strings.Contains(strings.ToLower(f.field(it)), needle) {
			out = append(out, it)
		}
	}
	return out
}

func (f *Fetcher[T]) draw(items []T, empty string) {
	if f.render == nil {
		return
	}
	if len(items) == 0 {
		f.render.Placeholder(empty)
		return
	}
	f.render.Rows(f.copy(items))
}

func (f *Fetcher[T]) placeholder(msg string) {
	if f.render != nil {
		f.render.Placeholder(msg)
	}
}

func (f *Fetcher[T]) copy(items []T) []T {
	return append([]T(nil), items...)
}
