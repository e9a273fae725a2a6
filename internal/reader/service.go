package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/verse-companion/internal/catalog"
	"github.com/taiwoajasa245/verse-companion/internal/explain"
	"github.com/taiwoajasa245/verse-companion/internal/store"
)

var (
	ErrNotFound           = errors.New("verse not found")
	ErrEmptyQuery         = errors.New("search query is empty")
	ErrUnknownTranslation = errors.New("unknown translation")
	ErrInvalidVerse       = errors.New("verse needs a reference and a translation")
)

type ReaderService struct {
	store        *store.Store
	catalog      *catalog.Catalog
	shelf        *catalog.Shelf
	launcher     *explain.Launcher
	assistantURL string
	log          *zap.Logger

	mu       sync.Mutex
	position catalog.Position
}

func NewReaderService(st *store.Store, cat *catalog.Catalog, launcher *explain.Launcher, assistantURL string, log *zap.Logger) *ReaderService {
	if cat == nil {
		cat = catalog.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	shelf := catalog.DefaultShelf()
	return &ReaderService{
		store:        st,
		catalog:      cat,
		shelf:        shelf,
		position:     shelf.Start(),
		launcher:     launcher,
		assistantURL: assistantURL,
		log:          log,
	}
}

func toVerse(e catalog.Entry) store.Verse {
	return store.Verse{
		ID:          e.VerseID(),
		Reference:   e.Reference,
		Text:        e.Text,
		Translation: e.Translation,
	}
}

// State returns the merged store view.
func (s *ReaderService) State() store.View {
	return s.store.View()
}

// DailyVerse returns today's verse, picking one first if none is set yet.
func (s *ReaderService) DailyVerse() store.Verse {
	if v, ok := s.store.DailyVerse(); ok {
		return v
	}
	return s.RefreshDailyVerse()
}

func (s *ReaderService) RefreshDailyVerse() store.Verse {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	v := s.store.RefreshDailyVerse()
	s.log.Debug("daily verse refreshed", zap.String("reference", v.Reference))
	return v
}

// Search records the trimmed query in the history and returns matching
// catalog verses.
func (s *ReaderService) Search(query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, ErrEmptyQuery
	}

	s.store.AddSearchQuery(query)

	result := SearchResult{Query: query, Results: []store.Verse{}}
	for _, e := range s.catalog.Search(query) {
		result.Results = append(result.Results, toVerse(e))
	}
	return result, nil
}

func (s *ReaderService) History() []string {
	return s.store.SearchHistory()
}

func (s *ReaderService) ClearHistory() {
	s.store.ClearSearchHistory()
}

// CatalogVerse returns the catalog verse with the given numeric id.
func (s *ReaderService) CatalogVerse(id int) (store.Verse, error) {
	e, ok := s.catalog.ByID(id)
	if !ok {
		return store.Verse{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return toVerse(e), nil
}

func (s *ReaderService) VerseDetail(id int) (VerseDetail, error) {
	v, err := s.CatalogVerse(id)
	if err != nil {
		return VerseDetail{}, err
	}

	savedID := store.DeriveID(v.Reference, v.Translation)
	return VerseDetail{
		Verse:      v,
		SavedID:    savedID,
		IsSaved:    s.store.IsSaved(savedID),
		ShareText:  ShareText(v),
		ExplainURL: s.ExplainURL(v.Reference, v.Text),
	}, nil
}

func (s *ReaderService) Saved() []store.Verse {
	return s.store.SavedVerses()
}

func validVerse(v store.Verse) error {
	if v.Reference == "" || v.Translation == "" {
		return ErrInvalidVerse
	}
	return nil
}

// Save stores v and returns its derived id.
func (s *ReaderService) Save(v store.Verse) (string, error) {
	if err := validVerse(v); err != nil {
		return "", err
	}
	s.store.AddSavedVerse(v)
	return store.DeriveID(v.Reference, v.Translation), nil
}

func (s *ReaderService) Unsave(id string) {
	s.store.RemoveSavedVerse(id)
}

// ToggleSaved flips the saved state of v and reports the new state.
func (s *ReaderService) ToggleSaved(v store.Verse) (bool, error) {
	if err := validVerse(v); err != nil {
		return false, err
	}
	return s.store.ToggleSavedVerse(v), nil
}

func (s *ReaderService) Translation() catalog.Translation {
	code := s.store.PreferredTranslation()
	if t, ok := catalog.LookupTranslation(code); ok {
		return t
	}
	return catalog.Translation{ID: code, Name: strings.ToUpper(code)}
}

func (s *ReaderService) Translations() []catalog.Translation {
	return catalog.Translations()
}

// SetTranslation accepts only translations offered in settings.
func (s *ReaderService) SetTranslation(code string) (catalog.Translation, error) {
	t, ok := catalog.LookupTranslation(code)
	if !ok {
		return catalog.Translation{}, fmt.Errorf("%w: %q", ErrUnknownTranslation, code)
	}
	s.store.SetPreferredTranslation(t.ID)
	return t, nil
}

func (s *ReaderService) ExplainURL(reference, text string) string {
	return explain.ShareURL(s.assistantURL, reference, text)
}

// Explain opens the chat assistant for a verse.
func (s *ReaderService) Explain(ctx context.Context, reference, text string) (string, error) {
	if s.launcher == nil {
		return s.ExplainURL(reference, text), errors.New("no launcher configured")
	}
	return s.launcher.Explain(ctx, reference, text)
}

// ShareText is the message used when sharing a verse.
func ShareText(v store.Verse) string {
	return fmt.Sprintf(`"%s" - %s (%s)`, v.Text, v.Reference, strings.ToUpper(v.Translation))
}
