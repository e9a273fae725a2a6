package store

// Verse is a saved or displayed verse. Two verses are the same entity when
// their derived ids match.
type Verse struct {
	ID          string `json:"id"`
	Reference   string `json:"reference"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// DeriveID is the canonical id of a verse: reference and translation joined
// with a dash, e.g. "John 3:16-kjv".
func DeriveID(reference, translation string) string {
	return reference + "-" + translation
}

// DurableState is the only part of the state that is written to storage.
type DurableState struct {
	SavedVerses          []Verse  `json:"savedVerses"`
	PreferredTranslation string   `json:"preferredTranslation"`
	SearchHistory        []string `json:"searchHistory"`
}

// SessionState lives for the process only.
type SessionState struct {
	DailyVerse *Verse
	IsLoading  bool
	Error      string
}

// View merges durable and session state for consumers.
type View struct {
	SavedVerses          []Verse  `json:"savedVerses"`
	PreferredTranslation string   `json:"preferredTranslation"`
	SearchHistory        []string `json:"searchHistory"`
	DailyVerse           *Verse   `json:"dailyVerse"`
	IsLoading            bool     `json:"isLoading"`
	Error                *string  `json:"error"`
}

func (d DurableState) clone() DurableState {
	out := DurableState{
		PreferredTranslation: d.PreferredTranslation,
		SavedVerses:          make([]Verse, len(d.SavedVerses)),
		SearchHistory:        make([]string, len(d.SearchHistory)),
	}
	copy(out.SavedVerses, d.SavedVerses)
	copy(out.SearchHistory, d.SearchHistory)
	return out
}

// normalize restores the invariants on state read from storage: unique saved
// ids, a bounded duplicate-free history and a non-empty translation.
func (d DurableState) normalize(defaultTranslation string, historyLimit int) DurableState {
	out := DurableState{
		PreferredTranslation: d.PreferredTranslation,
		SavedVerses:          make([]Verse, 0, len(d.SavedVerses)),
		SearchHistory:        make([]string, 0, len(d.SearchHistory)),
	}
	if out.PreferredTranslation == "" {
		out.PreferredTranslation = defaultTranslation
	}

	seenIDs := make(map[string]bool, len(d.SavedVerses))
	for _, v := range d.SavedVerses {
		v.ID = DeriveID(v.Reference, v.Translation)
		if seenIDs[v.ID] {
			continue
		}
		seenIDs[v.ID] = true
		out.SavedVerses = append(out.SavedVerses, v)
	}

	seenQueries := make(map[string]bool, len(d.SearchHistory))
	for _, q := range d.SearchHistory {
		if seenQueries[q] || len(out.SearchHistory) == historyLimit {
			continue
		}
		seenQueries[q] = true
		out.SearchHistory = append(out.SearchHistory, q)
	}
	return out
}
