package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taiwoajasa245/verse-companion/internal/reader"
	"github.com/taiwoajasa245/verse-companion/pkg/response"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.ServerIsWorking)
	r.Get("/health", s.HealthHandler)

	// the companion app posts here directly
	r.Post("/ask", s.ask.AskHandler)

	r.Route("/verse-companion/v1", func(r chi.Router) {
		r.Get("/", s.ServerIsWorking)
		r.Post("/ask", s.ask.AskHandler)
		s.loadReaderRoutes(r)
	})

	return r
}

func (s *Server) ServerIsWorking(w http.ResponseWriter, r *http.Request) {
	resp := make(map[string]string)
	resp["message"] = "Welcome to Verse Companion api"
	response.Success(w, resp, "Success")
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		response.Success(w, map[string]string{
			"status":  "up",
			"storage": s.cfg.StorageDriver,
		}, "Success")
		return
	}

	stats := s.db.Health()
	if stats["status"] != "up" {
		response.Error(w, http.StatusServiceUnavailable, "Database unavailable", stats)
		return
	}
	response.Success(w, stats, "Success")
}

func (s *Server) loadReaderRoutes(router chi.Router) {
	readerHandler := reader.NewReaderHandler(s.reader)
	readerHandler.Routes(router)
}
