package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wealthpath/wealthpath/internal/export"
	"github.com/wealthpath/wealthpath/internal/input"
	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/pipeline"
	"github.com/wealthpath/wealthpath/internal/projection"
	"github.com/wealthpath/wealthpath/internal/store"
	"github.com/wealthpath/wealthpath/internal/validate"
)

// errStoreDisabled is returned by scenario endpoints when no store is configured.
var errStoreDisabled = errors.New("scenario store not configured")

// projectionRequest is the body of the projection endpoints. A missing
// profile uses the configured default.
type projectionRequest struct {
	Summary input.Document          `json:"summary"`
	Profile *model.UserProfile      `json:"profile,omitempty"`
	Lever   model.OptimizationLever `json:"lever"`
}

// projectionResponse is the engine result plus its headline labels.
type projectionResponse struct {
	model.ProjectionResult
	Verdict  string `json:"verdict"`
	CashFlow string `json:"cash_flow"`
}

type roundedResponse struct {
	export.RoundedResult
	CashFlow string `json:"cash_flow"`
}

type sweepResponse struct {
	Step   float64            `json:"step"`
	Points []model.SweepPoint `json:"points"`
}

type scenarioView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	BurnRate         float64   `json:"burn_rate"`
	Categories       int       `json:"categories"`
	CurrentSavings   float64   `json:"current_savings"`
	Goal             float64   `json:"goal"`
	ReductionPercent float64   `json:"reduction_percent"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type batchItem struct {
	ID     string                  `json:"id"`
	Name   string                  `json:"name"`
	Result *model.ProjectionResult `json:"result,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

type batchResponse struct {
	Total     int                 `json:"total"`
	Projected int                 `json:"projected"`
	Invalid   int                 `json:"invalid"`
	Stats     pipeline.BatchStats `json:"stats"`
	Results   []batchItem         `json:"results"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func (s *Service) handleProject(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	summary := req.Summary.Summary()
	profile := s.profileOrDefault(req.Profile)

	if err := validate.Inputs(summary, profile, req.Lever); err != nil {
		s.reject(w, err)
		return
	}

	result := projection.Compute(summary, profile, req.Lever)
	if err := validate.Result(result); err != nil {
		s.reject(w, err)
		return
	}
	s.projections.Add(1)
	s.publishEvent(projectionEvent("projection", "api", result))

	label := projection.CashFlowLabel(summary.BurnRate)
	if wantRounded(r) {
		writeJSON(w, http.StatusOK, roundedResponse{RoundedResult: export.Rounded(result), CashFlow: label})
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{
		ProjectionResult: result,
		Verdict:          result.Verdict(),
		CashFlow:         label,
	})
}

func (s *Service) handleSweep(w http.ResponseWriter, r *http.Request) {
	step := s.cfg.SweepStep
	if raw := r.URL.Query().Get("step"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			s.rejected.Add(1)
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid step %q", raw))
			return
		}
		step = v
	}

	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	summary := req.Summary.Summary()
	profile := s.profileOrDefault(req.Profile)

	if err := errors.Join(validate.Summary(summary), validate.Profile(profile)); err != nil {
		s.reject(w, err)
		return
	}

	points := projection.LeverSweep(summary, profile, step)
	s.projections.Add(int64(len(points)))
	writeJSON(w, http.StatusOK, sweepResponse{Step: step, Points: points})
}

func (s *Service) handleListScenarios(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errStoreDisabled)
		return
	}
	scenarios, err := s.store.ListScenarios()
	if err != nil {
		s.recordError(fmt.Errorf("listing scenarios: %w", err))
		writeError(w, http.StatusInternalServerError, errors.New("listing scenarios failed"))
		return
	}

	views := make([]scenarioView, 0, len(scenarios))
	for _, sc := range scenarios {
		views = append(views, scenarioView{
			ID:               sc.ID,
			Name:             sc.Name,
			BurnRate:         sc.Summary.BurnRate,
			Categories:       len(sc.Summary.Categories),
			CurrentSavings:   sc.Profile.CurrentSavings,
			Goal:             sc.Profile.Goal,
			ReductionPercent: sc.Lever.ReductionPercent,
			UpdatedAt:        sc.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Service) handleScenarioProjection(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errStoreDisabled)
		return
	}
	id := chi.URLParam(r, "id")
	sc, err := s.store.GetScenario(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.recordError(fmt.Errorf("loading scenario %s: %w", id, err))
		writeError(w, http.StatusInternalServerError, errors.New("loading scenario failed"))
		return
	}

	if err := validate.Inputs(sc.Summary, sc.Profile, sc.Lever); err != nil {
		s.reject(w, err)
		return
	}

	result := projection.Compute(sc.Summary, sc.Profile, sc.Lever)
	if err := validate.Result(result); err != nil {
		s.reject(w, err)
		return
	}
	s.projections.Add(1)
	s.publishEvent(projectionEvent("projection", "scenario:"+sc.Name, result))

	label := projection.CashFlowLabel(sc.Summary.BurnRate)
	if wantRounded(r) {
		writeJSON(w, http.StatusOK, roundedResponse{RoundedResult: export.Rounded(result), CashFlow: label})
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{
		ProjectionResult: result,
		Verdict:          result.Verdict(),
		CashFlow:         label,
	})
}

func (s *Service) handleBatch(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errStoreDisabled)
		return
	}
	scenarios, err := s.store.ListScenarios()
	if err != nil {
		s.recordError(fmt.Errorf("listing scenarios: %w", err))
		writeError(w, http.StatusInternalServerError, errors.New("listing scenarios failed"))
		return
	}
	if len(scenarios) > s.cfg.MaxBatch {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%d scenarios exceeds batch limit of %d", len(scenarios), s.cfg.MaxBatch))
		return
	}

	br := pipeline.ProjectAll(scenarios, nil)
	s.projections.Add(int64(br.Projected))

	resp := batchResponse{
		Total:     br.Total,
		Projected: br.Projected,
		Invalid:   br.Invalid,
		Stats:     pipeline.Aggregate(br),
		Results:   make([]batchItem, 0, len(br.Results)),
	}
	for _, sr := range br.Results {
		item := batchItem{ID: sr.Scenario.ID, Name: sr.Scenario.Name}
		if sr.Err != nil {
			item.Error = sr.Err.Error()
		} else {
			result := sr.Result
			item.Result = &result
		}
		resp.Results = append(resp.Results, item)
	}

	s.publishEvent(Event{
		Type:         "batch",
		Source:       "batch",
		Count:        br.Projected,
		FinalBalance: resp.Stats.BestFinalBalance,
		TopCategory:  resp.Stats.Best,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) decodeRequest(w http.ResponseWriter, r *http.Request) (projectionRequest, bool) {
	var req projectionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.rejected.Add(1)
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return projectionRequest{}, false
	}
	return req, true
}

func (s *Service) profileOrDefault(p *model.UserProfile) model.UserProfile {
	if p == nil {
		return s.cfg.defaultProfile()
	}
	return *p
}

func (s *Service) reject(w http.ResponseWriter, err error) {
	s.rejected.Add(1)
	writeError(w, http.StatusBadRequest, err)
}

func projectionEvent(typ, source string, r model.ProjectionResult) Event {
	return Event{
		Type:         typ,
		Source:       source,
		FinalBalance: r.FinalBalance,
		GoalMet:      r.GoalMet,
		Verdict:      r.Verdict(),
		TopCategory:  r.TopCategory,
	}
}

func wantRounded(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("rounded"))
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("wealthpath api error: encoding response: %v", err)
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"encoding response failed"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
