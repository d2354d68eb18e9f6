// Package server exposes the projection engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wealthpath/wealthpath/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Event is emitted whenever the service computes a projection.
type Event struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	FinalBalance float64   `json:"final_balance"`
	GoalMet      bool      `json:"goal_met"`
	Verdict      string    `json:"verdict"`
	TopCategory  string    `json:"top_category,omitempty"`
	Count        int       `json:"count,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Requests        int64     `json:"requests"`
	Projections     int64     `json:"projections"`
	Rejected        int64     `json:"rejected"`
	ScenarioCount   int       `json:"scenario_count"`
	StoreEnabled    bool      `json:"store_enabled"`
	MaxBatch        int       `json:"max_batch"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the HTTP API. The engine is stateless; the service only
// keeps counters and a ring buffer of recent events.
type Service struct {
	cfg   Config
	store *store.Store

	startedAt   time.Time
	requests    atomic.Int64
	projections atomic.Int64
	rejected    atomic.Int64

	mu          sync.RWMutex
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service with the provided config. st may be nil, in which
// case the scenario endpoints respond 503.
func New(cfg Config, st *store.Store) *Service {
	return &Service{
		cfg:       cfg.withDefaults(),
		store:     st,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the routed HTTP handler.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)

		r.Post("/projections", s.handleProject)
		r.Post("/projections/sweep", s.handleSweep)
		r.Post("/projections/batch", s.handleBatch)

		r.Get("/scenarios", s.handleListScenarios)
		r.Get("/scenarios/{id}/projection", s.handleScenarioProjection)
	})

	return r
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Printf("wealthpath api listening on http://%s", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	log.Printf("wealthpath api error: %v", err)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	st := Status{
		StartedAt:    s.startedAt,
		Requests:     s.requests.Load(),
		Projections:  s.projections.Load(),
		Rejected:     s.rejected.Load(),
		StoreEnabled: s.store != nil,
		MaxBatch:     s.cfg.MaxBatch,
	}
	if s.store != nil {
		n, err := s.store.ScenarioCount()
		if err != nil {
			s.recordError(fmt.Errorf("counting scenarios: %w", err))
		}
		st.ScenarioCount = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	st.LastError = s.lastError
	st.EventCount = len(s.events)
	st.SubscriberCount = len(s.subs)
	return st
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
