package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second)
}

func ask(t *testing.T, h *Handler, body string) (int, AskResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.AskHandler(rec, req)

	var resp AskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, resp
}

func TestAsk_Success(t *testing.T) {
	var gotPath string
	client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"reference":"John 3:16","text":"For God so loved the world","translation_id":"web"}`))
	})

	code, resp := ask(t, NewHandler(client, nil), `{"question":"John 3:16"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bible Verse: For God so loved the world (John 3:16)", resp.Answer)
	assert.Equal(t, "/John 3:16", gotPath)
}

func TestAsk_NoText(t *testing.T) {
	client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reference":"","text":""}`))
	})

	code, resp := ask(t, NewHandler(client, nil), `{"question":"love"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, msgNoVerse, resp.Answer)
}

func TestAsk_NonJSONSuccessBody(t *testing.T) {
	for _, body := range []string{`<html>`, `"just a string"`, ``} {
		client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(body))
		})

		code, resp := ask(t, NewHandler(client, nil), `{"question":"John 3:16"}`)
		assert.Equal(t, http.StatusOK, code, body)
		assert.Equal(t, msgNoVerse, resp.Answer, body)
	}
}

func TestAsk_InvalidInput(t *testing.T) {
	called := false
	client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	h := NewHandler(client, nil)

	for _, body := range []string{`{}`, `{"question":""}`, `not json`, ``} {
		code, resp := ask(t, h, body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.Equal(t, msgInvalidQuestion, resp.Answer, body)
	}
	assert.False(t, called, "invalid input must not reach upstream")
}

func TestAsk_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := ask(t, NewHandler(newUpstream(t, tt.handler), nil), `{"question":"John 3:16"}`)
			assert.Equal(t, http.StatusInternalServerError, code)
			assert.Equal(t, msgUpstreamFailed, resp.Answer)
		})
	}
}

func TestLookup_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Lookup(context.Background(), "John 3:16")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAnswer(t *testing.T) {
	assert.Equal(t, msgNoVerse, Answer(nil))
	assert.Equal(t, "Bible Verse: x (y)", Answer(&Passage{Text: "x", Reference: "y"}))
}
