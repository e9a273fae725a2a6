package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/verse-companion/internal/database"
	"github.com/taiwoajasa245/verse-companion/internal/proxy"
	"github.com/taiwoajasa245/verse-companion/internal/reader"
	"github.com/taiwoajasa245/verse-companion/pkg/config"
)

type Server struct {
	port    string
	db      database.Service
	handler http.Handler
	cfg     *config.Config
	log     *zap.Logger
	reader  *reader.ReaderService
	ask     *proxy.Handler
	cancel  context.CancelFunc
	jobs    chan struct{}
}

// NewServer constructs the app server with all dependencies injected. db is
// nil unless the PostgreSQL storage driver is in use.
func NewServer(cfg *config.Config, svc *reader.ReaderService, ask *proxy.Handler, db database.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		port:   cfg.Port,
		db:     db,
		cfg:    cfg,
		log:    log,
		reader: svc,
		ask:    ask,
	}

	if db != nil {
		stats := db.Health()
		if stats["status"] != "up" {
			log.Warn("database is not healthy", zap.Any("health", stats))
		} else {
			log.Info("database connection successful")
		}
	}

	s.handler = s.RegisterRoutes()
	return s
}

// HTTPServer returns the actual *http.Server instance
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// StartBackgroundJobs runs scheduled jobs
func (s *Server) StartBackgroundJobs() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.jobs = make(chan struct{})

	go func() {
		defer close(s.jobs)
		s.reader.StartScheduler(ctx, s.cfg.DailyVerseInterval)
	}()
}

// StopBackgroundJobs cancels the scheduler and waits for it to return.
func (s *Server) StopBackgroundJobs() {
	if s.cancel != nil {
		s.cancel()
		<-s.jobs
		s.log.Info("background jobs stopped gracefully")
	}
}
