package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoajasa245/verse-companion/internal/catalog"
	"github.com/taiwoajasa245/verse-companion/internal/kv"
	"github.com/taiwoajasa245/verse-companion/internal/proxy"
	"github.com/taiwoajasa245/verse-companion/internal/reader"
	"github.com/taiwoajasa245/verse-companion/internal/store"
	"github.com/taiwoajasa245/verse-companion/pkg/config"
)

type fakeDB struct{ status string }

func (f fakeDB) Health() map[string]string { return map[string]string{"status": f.status} }
func (fakeDB) DB() *sql.DB                { return nil }
func (fakeDB) Close() error               { return nil }

func newTestServer(t *testing.T, upstream http.HandlerFunc, db *fakeDB) (*Server, *store.Store) {
	t.Helper()

	if upstream == nil {
		upstream = http.NotFound
	}
	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	st, err := store.Open(context.Background(), kv.NewMemoryStore(), catalog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	cfg := &config.Config{Port: "0", StorageDriver: "memory", DailyVerseInterval: time.Millisecond}
	svc := reader.NewReaderService(st, catalog.Default(), nil, "https://chat.example.com", nil)
	ask := proxy.NewHandler(proxy.NewClient(up.URL, time.Second), nil)

	if db == nil {
		return NewServer(cfg, svc, ask, nil, nil), st
	}
	return NewServer(cfg, svc, ask, *db, nil), st
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestServerIsWorking(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to Verse Companion api")
}

func TestAskRoute(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reference":"Psalm 23:1","text":"The LORD is my shepherd"}`))
	}, nil)

	for _, path := range []string{"/ask", "/verse-companion/v1/ask"} {
		rec := do(t, s, http.MethodPost, path, `{"question":"psalm 23:1"}`)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Bible Verse: The LORD is my shepherd (Psalm 23:1)", body["answer"])
	}

	rec := do(t, s, http.MethodPost, "/ask", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReaderRoutesMounted(t *testing.T) {
	s, st := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/verse-companion/v1/saved",
		`{"reference":"John 3:16","text":"For God so loved the world","translation":"kjv"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, st.IsSaved("John 3:16-kjv"))

	rec = do(t, s, http.MethodGet, "/verse-companion/v1/translations", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:8081", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"memory"`)

	s, _ = newTestServer(t, nil, &fakeDB{status: "down"})
	rec = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s, _ = newTestServer(t, nil, &fakeDB{status: "up"})
	rec = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBackgroundJobs(t *testing.T) {
	s, st := newTestServer(t, nil, nil)

	s.StartBackgroundJobs()
	require.Eventually(t, func() bool {
		_, ok := st.DailyVerse()
		return ok
	}, time.Second, 5*time.Millisecond)
	s.StopBackgroundJobs()
}

func TestHTTPServer(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)
	hs := s.HTTPServer()
	assert.Equal(t, ":0", hs.Addr)
	assert.Equal(t, 10*time.Second, hs.ReadTimeout)
}
