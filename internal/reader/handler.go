package reader

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taiwoajasa245/verse-companion/internal/catalog"
	"github.com/taiwoajasa245/verse-companion/pkg/response"
)

type ReaderHandler struct {
	service *ReaderService
}

func NewReaderHandler(service *ReaderService) ReaderHandler {
	return ReaderHandler{service: service}
}

// Routes mounts the reader endpoints on r.
func (h *ReaderHandler) Routes(r chi.Router) {
	r.Get("/state", h.GetStateHandler)

	r.Get("/daily-verse", h.GetDailyVerseHandler)
	r.Post("/daily-verse/refresh", h.RefreshDailyVerseHandler)

	r.Get("/verses", h.ListVersesHandler)
	r.Get("/verses/{id}", h.GetVerseHandler)

	r.Get("/search", h.SearchHandler)
	r.Get("/search/history", h.GetSearchHistoryHandler)
	r.Delete("/search/history", h.ClearSearchHistoryHandler)

	r.Get("/saved", h.GetSavedVersesHandler)
	r.Post("/saved", h.SaveVerseHandler)
	r.Patch("/saved/toggle", h.ToggleSavedVerseHandler)
	r.Delete("/saved/{id}", h.RemoveSavedVerseHandler)

	r.Get("/translation", h.GetTranslationHandler)
	r.Put("/translation", h.SetTranslationHandler)
	r.Get("/translations", h.ListTranslationsHandler)

	r.Get("/books", h.ListBooksHandler)
	r.Get("/reading", h.GetReadingHandler)
	r.Put("/reading", h.OpenChapterHandler)
	r.Post("/reading/next", h.NextChapterHandler)
	r.Post("/reading/prev", h.PrevChapterHandler)

	r.Post("/explain", h.ExplainHandler)
}

func (h *ReaderHandler) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.State(), "successfully")
}

func (h *ReaderHandler) GetDailyVerseHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.DailyVerse(), "successfully")
}

func (h *ReaderHandler) RefreshDailyVerseHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.RefreshDailyVerse(), "successfully")
}

func (h *ReaderHandler) ListVersesHandler(w http.ResponseWriter, r *http.Request) {
	response.List(w, h.service.catalog.All(), "successfully")
}

func (h *ReaderHandler) GetVerseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid verse id", map[string]string{
			"id": "id must be a number",
		})
		return
	}

	detail, err := h.service.VerseDetail(id)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Verse not found", err.Error())
		return
	}

	response.Success(w, detail, "successfully")
}

func (h *ReaderHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.URL.Query().Get("q"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing required fields", map[string]string{
			"q": "search query is required",
		})
		return
	}

	response.Success(w, result, "successfully")
}

func (h *ReaderHandler) GetSearchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	response.List(w, h.service.History(), "successfully")
}

func (h *ReaderHandler) ClearSearchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	h.service.ClearHistory()
	response.List(w, []string{}, "search history cleared")
}

func (h *ReaderHandler) GetSavedVersesHandler(w http.ResponseWriter, r *http.Request) {
	response.List(w, h.service.Saved(), "successfully")
}

func decodeVerse(w http.ResponseWriter, r *http.Request) (SaveVerseRequest, bool) {
	var req SaveVerseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return req, false
	}

	if req.Reference == "" || req.Translation == "" {
		response.Error(w, http.StatusBadRequest, "Missing required fields", map[string]string{
			"reference":   "reference is required",
			"translation": "translation is required",
		})
		return req, false
	}
	return req, true
}

func (h *ReaderHandler) SaveVerseHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVerse(w, r)
	if !ok {
		return
	}

	id, err := h.service.Save(req.Verse())
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to save verse", err.Error())
		return
	}

	response.Success(w, map[string]string{"id": id}, "successfully")
}

func (h *ReaderHandler) ToggleSavedVerseHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVerse(w, r)
	if !ok {
		return
	}

	saved, err := h.service.ToggleSaved(req.Verse())
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to toggle verse", err.Error())
		return
	}

	response.Success(w, map[string]bool{
		"is_saved": saved,
	}, "successfully")
}

func (h *ReaderHandler) RemoveSavedVerseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid verse id", err.Error())
		return
	}

	h.service.Unsave(id)
	response.Success(w, map[string]string{"id": id}, "successfully")
}

// pathParam returns a decoded URL parameter. chi matches on RawPath when the
// request has one (an escaped "/" in the id), and on the decoded Path
// otherwise, so only the former still needs unescaping.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func (h *ReaderHandler) GetTranslationHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Translation(), "successfully")
}

func (h *ReaderHandler) SetTranslationHandler(w http.ResponseWriter, r *http.Request) {
	var req TranslationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	t, err := h.service.SetTranslation(req.Translation)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownTranslation) {
			status = http.StatusBadRequest
		}
		response.Error(w, status, "Failed to change translation", err.Error())
		return
	}

	response.Success(w, t, "Changed to "+t.Name)
}

func (h *ReaderHandler) ListTranslationsHandler(w http.ResponseWriter, r *http.Request) {
	response.List(w, h.service.Translations(), "successfully")
}

func (h *ReaderHandler) ListBooksHandler(w http.ResponseWriter, r *http.Request) {
	response.List(w, h.service.Books(), "successfully")
}

func (h *ReaderHandler) GetReadingHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Reading(), "successfully")
}

func (h *ReaderHandler) OpenChapterHandler(w http.ResponseWriter, r *http.Request) {
	var req OpenChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if req.Book == "" {
		response.Error(w, http.StatusBadRequest, "Missing required fields", map[string]string{
			"book": "book is required",
		})
		return
	}
	if req.Chapter == 0 {
		req.Chapter = 1
	}

	view, err := h.service.OpenChapter(req.Book, req.Chapter)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, catalog.ErrUnknownBook) {
			status = http.StatusNotFound
		}
		response.Error(w, status, "Failed to open chapter", err.Error())
		return
	}

	response.Success(w, view, "successfully")
}

func (h *ReaderHandler) NextChapterHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.NextChapter(), "successfully")
}

func (h *ReaderHandler) PrevChapterHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.PrevChapter(), "successfully")
}

// ExplainHandler returns the assistant link; the caller opens it.
func (h *ReaderHandler) ExplainHandler(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if req.Reference == "" || req.Text == "" {
		response.Error(w, http.StatusBadRequest, "Missing required fields", map[string]string{
			"reference": "reference is required",
			"text":      "text is required",
		})
		return
	}

	response.Success(w, map[string]string{
		"url": h.service.ExplainURL(req.Reference, req.Text),
	}, "successfully")
}
