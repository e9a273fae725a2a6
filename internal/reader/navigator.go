package reader

import (
	"strings"

	"github.com/taiwoajasa245/verse-companion/internal/catalog"
)

// ChapterView is the reader header: where the reader is, in which
// translation, and which way it can still move.
type ChapterView struct {
	Book        catalog.Book `json:"book"`
	Chapter     int          `json:"chapter"`
	Translation string       `json:"translation"`
	HasPrev     bool         `json:"has_prev"`
	HasNext     bool         `json:"has_next"`
}

func (s *ReaderService) Books() []catalog.Book {
	return s.shelf.Books()
}

// ChapterAt describes p without moving the reader.
func (s *ReaderService) ChapterAt(p catalog.Position) ChapterView {
	b, _ := s.shelf.Book(p.Book)
	return ChapterView{
		Book:        b,
		Chapter:     p.Chapter,
		Translation: strings.ToUpper(s.store.PreferredTranslation()),
		HasPrev:     s.shelf.HasPrev(p),
		HasNext:     s.shelf.HasNext(p),
	}
}

// Reading is the current position. It is session state: every run starts at
// the first book.
func (s *ReaderService) Reading() ChapterView {
	s.mu.Lock()
	p := s.position
	s.mu.Unlock()
	return s.ChapterAt(p)
}

// OpenChapter jumps to a chapter of a book.
func (s *ReaderService) OpenChapter(book string, chapter int) (ChapterView, error) {
	p, err := s.shelf.Open(book, chapter)
	if err != nil {
		return ChapterView{}, err
	}

	s.mu.Lock()
	s.position = p
	s.mu.Unlock()
	return s.ChapterAt(p), nil
}

// SelectBook opens chapter 1 of book.
func (s *ReaderService) SelectBook(book string) (ChapterView, error) {
	return s.OpenChapter(book, 1)
}

// NextChapter advances the reader; at the end of the last book it stays put.
func (s *ReaderService) NextChapter() ChapterView {
	s.mu.Lock()
	s.position, _ = s.shelf.Next(s.position)
	p := s.position
	s.mu.Unlock()
	return s.ChapterAt(p)
}

// PrevChapter steps back; at Genesis 1 it stays put.
func (s *ReaderService) PrevChapter() ChapterView {
	s.mu.Lock()
	s.position, _ = s.shelf.Prev(s.position)
	p := s.position
	s.mu.Unlock()
	return s.ChapterAt(p)
}
