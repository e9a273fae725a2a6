package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed books.yaml
var booksYAML []byte

var ErrUnknownBook = errors.New("unknown book")

type Book struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Chapters int    `yaml:"chapters" json:"chapters"`
}

// Position is a chapter in the reader.
type Position struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

// Shelf is the ordered list of readable books. Navigation runs across book
// boundaries and stops at both ends of the shelf.
type Shelf struct {
	books []Book
}

var (
	shelfOnce    sync.Once
	defaultShelf *Shelf
)

// DefaultShelf returns the embedded book list.
func DefaultShelf() *Shelf {
	shelfOnce.Do(func() {
		var books []Book
		if err := yaml.Unmarshal(booksYAML, &books); err != nil {
			panic(fmt.Sprintf("catalog: embedded books: %v", err))
		}
		s, err := NewShelf(books)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded books: %v", err))
		}
		defaultShelf = s
	})
	return defaultShelf
}

// NewShelf validates books: at least one, unique ids, one chapter or more each.
func NewShelf(books []Book) (*Shelf, error) {
	if len(books) == 0 {
		return nil, errors.New("shelf needs at least one book")
	}
	seen := make(map[string]bool, len(books))
	for _, b := range books {
		if b.ID == "" || seen[b.ID] {
			return nil, fmt.Errorf("duplicate or empty book id %q", b.ID)
		}
		if b.Chapters < 1 {
			return nil, fmt.Errorf("book %q has no chapters", b.ID)
		}
		seen[b.ID] = true
	}
	return &Shelf{books: slices.Clone(books)}, nil
}

func (s *Shelf) Books() []Book {
	return slices.Clone(s.books)
}

func (s *Shelf) index(id string) int {
	return slices.IndexFunc(s.books, func(b Book) bool { return b.ID == id })
}

func (s *Shelf) Book(id string) (Book, bool) {
	i := s.index(id)
	if i < 0 {
		return Book{}, false
	}
	return s.books[i], true
}

// Start is chapter 1 of the first book.
func (s *Shelf) Start() Position {
	return Position{Book: s.books[0].ID, Chapter: 1}
}

// Open returns chapter of book, or an error when either is out of range.
func (s *Shelf) Open(book string, chapter int) (Position, error) {
	b, ok := s.Book(book)
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrUnknownBook, book)
	}
	if chapter < 1 || chapter > b.Chapters {
		return Position{}, fmt.Errorf("%s has chapters 1-%d, not %d", b.Name, b.Chapters, chapter)
	}
	return Position{Book: b.ID, Chapter: chapter}, nil
}

// Next moves one chapter forward, into chapter 1 of the following book after
// a book's last chapter. At the last chapter of the last book it returns p
// and false.
func (s *Shelf) Next(p Position) (Position, bool) {
	i := s.index(p.Book)
	if i < 0 {
		return p, false
	}
	if p.Chapter < s.books[i].Chapters {
		return Position{Book: p.Book, Chapter: p.Chapter + 1}, true
	}
	if i < len(s.books)-1 {
		return Position{Book: s.books[i+1].ID, Chapter: 1}, true
	}
	return p, false
}

// Prev moves one chapter back, into the last chapter of the preceding book
// from chapter 1. At chapter 1 of the first book it returns p and false.
func (s *Shelf) Prev(p Position) (Position, bool) {
	i := s.index(p.Book)
	if i < 0 {
		return p, false
	}
	if p.Chapter > 1 {
		return Position{Book: p.Book, Chapter: p.Chapter - 1}, true
	}
	if i > 0 {
		prev := s.books[i-1]
		return Position{Book: prev.ID, Chapter: prev.Chapters}, true
	}
	return p, false
}

func (s *Shelf) HasNext(p Position) bool {
	_, ok := s.Next(p)
	return ok
}

func (s *Shelf) HasPrev(p Position) bool {
	_, ok := s.Prev(p)
	return ok
}
