// Package server exposes drills, stats and sparring rounds over a JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/session"
	"github.com/sabta/casedrill/internal/sparring"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/telemetry"
)

// idleTTL is how long an untouched drill or sparring round is kept.
const idleTTL = 2 * time.Hour

// Options holds the server's dependencies. Only Logger and Source are
// required.
type Options struct {
	Logger *slog.Logger
	Source drillgen.Source

	// Stats receives finished drills. A fresh aggregator is used when nil.
	Stats *stats.Aggregator

	// Repo persists history. Nil disables the history endpoints.
	Repo store.EventRepo

	// Coach grades sparring answers. Nil disables feedback.
	Coach *sparring.Coach

	CORSOrigins []string
	Clock       func() time.Time
}

// Server holds the in-memory drills and sparring rounds.
type Server struct {
	logger *slog.Logger
	source drillgen.Source
	stats  *stats.Aggregator
	repo   store.EventRepo
	coach  *sparring.Coach
	now    func() time.Time
	cors   []string

	drills  *registry[*session.Session]
	rounds  *registry[*sparring.Session]
	handler http.Handler
}

// New creates a Server and builds its routes.
func New(opts Options) *Server {
	s := &Server{
		logger: opts.Logger,
		source: drillgen.Locked(opts.Source),
		stats:  opts.Stats,
		repo:   opts.Repo,
		coach:  opts.Coach,
		now:    opts.Clock,
		cors:   opts.CORSOrigins,
		drills: newRegistry[*session.Session](),
		rounds: newRegistry[*sparring.Session](),
	}
	if s.stats == nil {
		s.stats = stats.NewAggregator()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.cors) == 0 {
		s.cors = []string{"*"}
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler including CORS.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(telemetry.Middleware(routeName), s.logRequests)

	api.HandleFunc("/categories", s.listCategories).Methods("GET")

	api.HandleFunc("/drills", s.createDrill).Methods("POST")
	api.HandleFunc("/drills/{id}", s.getDrill).Methods("GET")
	api.HandleFunc("/drills/{id}", s.deleteDrill).Methods("DELETE")
	api.HandleFunc("/drills/{id}/answers", s.submitAnswer).Methods("POST")
	api.HandleFunc("/drills/{id}/stop", s.stopDrill).Methods("POST")
	api.HandleFunc("/drills/{id}/result", s.drillResult).Methods("GET")

	api.HandleFunc("/stats", s.getStats).Methods("GET")
	api.HandleFunc("/history", s.listHistory).Methods("GET")
	api.HandleFunc("/history/{id}", s.historyAnswers).Methods("GET")

	api.HandleFunc("/sparring/topics", s.listTopics).Methods("GET")
	api.HandleFunc("/sparring", s.createRound).Methods("POST")
	api.HandleFunc("/sparring/{id}", s.getRound).Methods("GET")
	api.HandleFunc("/sparring/{id}/answer", s.answerRound).Methods("POST")
	api.HandleFunc("/sparring/{id}/next", s.nextQuestion).Methods("POST")
	api.HandleFunc("/sparring/{id}/end", s.endRound).Methods("POST")
	api.HandleFunc("/sparring/{id}/feedback", s.roundFeedback).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cors,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server forced to shutdown", "error", err)
		return err
	}
	return nil
}

// entry guards one drill or round. Handlers hold mu for the whole request.
type entry[T any] struct {
	mu      sync.Mutex
	val     T
	touched time.Time
}

// registry maps IDs to entries.
type registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{entries: make(map[string]*entry[T])}
}

func (r *registry[T]) put(id string, val T, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.entries {
		if !e.mu.TryLock() {
			continue
		}
		if now.Sub(e.touched) > idleTTL {
			delete(r.entries, k)
		}
		e.mu.Unlock()
	}
	r.entries[id] = &entry[T]{val: val, touched: now}
}

// with runs fn with the entry locked. It reports false if id is unknown.
func (r *registry[T]) with(id string, now time.Time, fn func(T)) bool {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = now
	fn(e.val)
	return true
}

func (r *registry[T]) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	return ok
}
