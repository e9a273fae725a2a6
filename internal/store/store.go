// Package store owns the reader's user state: saved verses, preferred
// translation and search history, which are persisted, plus the daily verse
// and status flags, which are not.
//
// A Store is created once with Open and handed to its consumers. Every
// operation updates memory synchronously; durable changes are written behind
// by a single background goroutine. Use Flush to observe a write and Close to
// drain pending writes before exit.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/verse-companion/internal/catalog"
	"github.com/taiwoajasa245/verse-companion/internal/kv"
)

const (
	DefaultKey          = "bible-storage"
	DefaultHistoryLimit = 10
	defaultWriteTimeout = 10 * time.Second
)

type options struct {
	key                string
	defaultTranslation string
	historyLimit       int
	writeTimeout       time.Duration
	log                *zap.Logger
	rng                *rand.Rand
	onPersistError     func(error)
}

type Option func(*options)

// WithKey sets the storage key of the durable blob.
func WithKey(key string) Option {
	return func(o *options) { o.key = key }
}

func WithDefaultTranslation(code string) Option {
	return func(o *options) { o.defaultTranslation = code }
}

func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithRand fixes the source used to pick the daily verse.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithPersistErrorHandler is called from the writer goroutine after every
// failed durable write.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onPersistError = fn }
}

type Store struct {
	mu      sync.Mutex
	durable DurableState
	session SessionState

	catalog      *catalog.Catalog
	rng          *rand.Rand
	historyLimit int
	log          *zap.Logger
	writer       *writer
}

// Open loads the durable state from blobs and starts the background writer.
// A missing or unreadable blob is not an error: the store starts from
// defaults and the problem is logged.
func Open(ctx context.Context, blobs kv.Store, cat *catalog.Catalog, opts ...Option) (*Store, error) {
	if blobs == nil {
		return nil, errors.New("store requires a blob backend")
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if cat.Len() == 0 {
		return nil, errors.New("store requires a non-empty catalog")
	}

	o := options{
		key:                DefaultKey,
		defaultTranslation: catalog.DefaultTranslation,
		historyLimit:       DefaultHistoryLimit,
		writeTimeout:       defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.historyLimit <= 0 {
		o.historyLimit = DefaultHistoryLimit
	}

	s := &Store{
		catalog:      cat,
		rng:          o.rng,
		historyLimit: o.historyLimit,
		log:          o.log,
	}
	s.durable = load(ctx, blobs, o)
	s.writer = newWriter(blobs, o.key, o.writeTimeout, o.log, o.onPersistError)
	return s, nil
}

func load(ctx context.Context, blobs kv.Store, o options) DurableState {
	defaults := DurableState{
		SavedVerses:          []Verse{},
		PreferredTranslation: o.defaultTranslation,
		SearchHistory:        []string{},
	}

	data, err := blobs.Get(ctx, o.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			o.log.Debug("no stored state, using defaults", zap.String("key", o.key))
		} else {
			o.log.Warn("failed to read stored state, using defaults", zap.String("key", o.key), zap.Error(err))
		}
		return defaults
	}

	var stored DurableState
	if err := json.Unmarshal(data, &stored); err != nil {
		o.log.Warn("stored state is malformed, using defaults", zap.String("key", o.key), zap.Error(err))
		return defaults
	}
	return stored.normalize(o.defaultTranslation, o.historyLimit)
}

// persistLocked hands a snapshot of the durable state to the writer.
// Callers hold s.mu so snapshots reach the writer in mutation order.
func (s *Store) persistLocked() {
	s.writer.schedule(s.durable.clone())
}

// AddSavedVerse saves v under its derived id. Saving a verse that is already
// saved changes nothing.
func (s *Store) AddSavedVerse(v Verse) {
	v.ID = DeriveID(v.Reference, v.Translation)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(v.ID) >= 0 {
		return
	}
	s.durable.SavedVerses = append(s.durable.SavedVerses, v)
	s.persistLocked()
}

// RemoveSavedVerse removes the verse with the given id, if saved.
func (s *Store) RemoveSavedVerse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.durable.SavedVerses = slices.Delete(s.durable.SavedVerses, i, i+1)
	s.persistLocked()
}

// ToggleSavedVerse removes v when it is saved and saves it otherwise. It
// reports whether v is saved afterwards.
func (s *Store) ToggleSavedVerse(v Verse) bool {
	v.ID = DeriveID(v.Reference, v.Translation)

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := true
	if i := s.indexLocked(v.ID); i >= 0 {
		s.durable.SavedVerses = slices.Delete(s.durable.SavedVerses, i, i+1)
		saved = false
	} else {
		s.durable.SavedVerses = append(s.durable.SavedVerses, v)
	}
	s.persistLocked()
	return saved
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.durable.SavedVerses, func(v Verse) bool { return v.ID == id })
}

func (s *Store) IsSaved(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

func (s *Store) SavedVerses() []Verse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.durable.SavedVerses)
}

// SetPreferredTranslation replaces the preferred translation. The code is
// not validated here.
func (s *Store) SetPreferredTranslation(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durable.PreferredTranslation = code
	s.persistLocked()
}

func (s *Store) PreferredTranslation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durable.PreferredTranslation
}

// AddSearchQuery records query as the most recent search. A query already in
// the history is left where it is.
func (s *Store) AddSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.durable.SearchHistory, query) {
		return
	}

	history := make([]string, 0, min(len(s.durable.SearchHistory)+1, s.historyLimit))
	history = append(history, query)
	history = append(history, s.durable.SearchHistory...)
	if len(history) > s.historyLimit {
		history = history[:s.historyLimit]
	}
	s.durable.SearchHistory = history
	s.persistLocked()
}

func (s *Store) ClearSearchHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durable.SearchHistory = []string{}
	s.persistLocked()
}

func (s *Store) SearchHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.durable.SearchHistory)
}

// RefreshDailyVerse picks a random catalog verse as the daily verse. The
// daily verse is never persisted.
func (s *Store) RefreshDailyVerse() Verse {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.catalog.Random(s.rng)
	v := Verse{
		ID:          e.VerseID(),
		Reference:   e.Reference,
		Text:        e.Text,
		Translation: e.Translation,
	}
	s.session.DailyVerse = &v
	return v
}

func (s *Store) DailyVerse() (Verse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.DailyVerse == nil {
		return Verse{}, false
	}
	return *s.session.DailyVerse, true
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.IsLoading = loading
}

func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Error = msg
}

func (s *Store) ClearError() {
	s.SetError("")
}

// View returns a copy of the whole state.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SavedVerses:          slices.Clone(s.durable.SavedVerses),
		PreferredTranslation: s.durable.PreferredTranslation,
		SearchHistory:        slices.Clone(s.durable.SearchHistory),
		IsLoading:            s.session.IsLoading,
	}
	if s.session.DailyVerse != nil {
		dv := *s.session.DailyVerse
		v.DailyVerse = &dv
	}
	if s.session.Error != "" {
		msg := s.session.Error
		v.Error = &msg
	}
	return v
}

// Flush blocks until every change made before the call has been written, or
// ctx ends. It returns the error of the latest write attempt.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close drains pending writes and stops the writer. Later mutations still
// change memory but are no longer persisted.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.close(ctx)
}
