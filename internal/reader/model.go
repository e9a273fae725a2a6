package reader

import "github.com/taiwoajasa245/verse-companion/internal/store"

type SaveVerseRequest struct {
	Reference   string `json:"reference"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

func (r SaveVerseRequest) Verse() store.Verse {
	return store.Verse{Reference: r.Reference, Text: r.Text, Translation: r.Translation}
}

type TranslationRequest struct {
	Translation string `json:"translation"`
}

// OpenChapterRequest selects a book; a missing chapter means chapter 1.
type OpenChapterRequest struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

type ExplainRequest struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// VerseDetail is what the verse screen shows for a catalog entry.
type VerseDetail struct {
	Verse      store.Verse `json:"verse"`
	SavedID    string      `json:"saved_id"`
	IsSaved    bool        `json:"is_saved"`
	ShareText  string      `json:"share_text"`
	ExplainURL string      `json:"explain_url"`
}

type SearchResult struct {
	Query   string        `json:"query"`
	Results []store.Verse `json:"results"`
}
