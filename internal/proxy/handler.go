package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/verse-companion/pkg/response"
)

const (
	msgInvalidQuestion = "Please provide a valid question."
	msgNoVerse         = "No relevant Bible verse found."
	msgUpstreamFailed  = "Error processing your request."
)

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type Handler struct {
	client *Client
	log    *zap.Logger
}

func NewHandler(client *Client, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{client: client, log: log}
}

// Answer formats a passage the way the ask endpoint reports it.
func Answer(p *Passage) string {
	if p == nil || p.Text == "" {
		return msgNoVerse
	}
	return fmt.Sprintf("Bible Verse: %s (%s)", p.Text, p.Reference)
}

// AskHandler answers POST /ask. Every response, including errors, has the
// {"answer": ...} shape.
func (h *Handler) AskHandler(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		response.Write(w, http.StatusBadRequest, AskResponse{Answer: msgInvalidQuestion})
		return
	}

	passage, err := h.client.Lookup(r.Context(), req.Question)
	if err != nil {
		h.log.Error("bible api lookup failed", zap.String("question", req.Question), zap.Error(err))
		response.Write(w, http.StatusInternalServerError, AskResponse{Answer: msgUpstreamFailed})
		return
	}

	response.Write(w, http.StatusOK, AskResponse{Answer: Answer(passage)})
}
