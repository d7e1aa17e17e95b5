package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/session"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type categoryView struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories,omitempty"`
	Adaptive      bool     `json:"adaptive"`
}

type createDrillRequest struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Difficulty  int    `json:"difficulty"`
	Minutes     int    `json:"minutes"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

type answerView struct {
	Input      string             `json:"input"`
	Correct    bool               `json:"correct"`
	Expected   drillgen.Answer    `json:"expected"`
	Difficulty int                `json:"difficulty"`
	LeveledUp  bool               `json:"leveled_up"`
	Next       *drillgen.Question `json:"next,omitempty"`
	Finished   bool               `json:"finished"`
}

type drillView struct {
	ID               string             `json:"id"`
	Phase            string             `json:"phase"`
	Category         string             `json:"category"`
	Subcategory      string             `json:"subcategory,omitempty"`
	Difficulty       int                `json:"difficulty"`
	DurationSeconds  int                `json:"duration_seconds"`
	RemainingSeconds int                `json:"remaining_seconds"`
	Attempts         int                `json:"attempts"`
	Correct          int                `json:"correct"`
	Streak           int                `json:"streak"`
	Question         *drillgen.Question `json:"question,omitempty"`
	Last             *answerView        `json:"last,omitempty"`
}

type resultView struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory,omitempty"`
	Attempted       int       `json:"attempted"`
	Correct         int       `json:"correct"`
	Accuracy        float64   `json:"accuracy"`
	FinalDifficulty int       `json:"final_difficulty"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	StoppedEarly    bool      `json:"stopped_early"`
}

type historyView struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory,omitempty"`
	Minutes         float64   `json:"minutes"`
	StartedAt       time.Time `json:"started_at"`
	Finished        bool      `json:"finished"`
	Attempted       int       `json:"attempted"`
	Correct         int       `json:"correct"`
	Accuracy        float64   `json:"accuracy"`
	FinalDifficulty int       `json:"final_difficulty"`
	StoppedEarly    bool      `json:"stopped_early"`
}

func newAnswerView(res *session.AnswerResult) *answerView {
	if res == nil {
		return nil
	}
	return &answerView{
		Input:      res.Input,
		Correct:    res.Correct,
		Expected:   res.Expected,
		Difficulty: res.Difficulty,
		LeveledUp:  res.LeveledUp,
		Next:       res.Next,
		Finished:   res.Finished,
	}
}

func newDrillView(d *session.Session) drillView {
	return drillView{
		ID:               d.ID,
		Phase:            d.Phase.String(),
		Category:         string(d.Config.Category),
		Subcategory:      string(d.Config.Subcategory),
		Difficulty:       d.Difficulty,
		DurationSeconds:  int(d.Config.Duration / time.Second),
		RemainingSeconds: int(math.Ceil(d.Remaining().Seconds())),
		Attempts:         d.Attempts,
		Correct:          d.Correct,
		Streak:           d.Streak,
		Question:         d.Current,
		Last:             newAnswerView(d.Last),
	}
}

func newResultView(res session.Result) resultView {
	return resultView{
		ID:              res.SessionID,
		Category:        string(res.Category),
		Subcategory:     string(res.Subcategory),
		Attempted:       res.Attempted,
		Correct:         res.Correct,
		Accuracy:        res.Accuracy,
		FinalDifficulty: res.FinalDifficulty,
		StartedAt:       res.StartedAt,
		EndedAt:         res.EndedAt,
		DurationSeconds: res.Duration.Seconds(),
		StoppedEarly:    res.StoppedEarly,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /categories
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	var out []categoryView
	for _, c := range drillgen.Categories() {
		v := categoryView{Name: string(c), Adaptive: drillgen.IsAdaptive(c)}
		for _, sub := range drillgen.Subcategories(c) {
			v.Subcategories = append(v.Subcategories, string(sub))
		}
		out = append(out, v)
	}
	respondJSON(w, http.StatusOK, out)
}

// POST /drills
func (s *Server) createDrill(w http.ResponseWriter, r *http.Request) {
	var req createDrillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Canonicalize known names; unknown ones go through so the generator
	// reports them.
	cfg := session.Config{
		Category:    drillgen.Category(req.Category),
		Subcategory: drillgen.Subcategory(req.Subcategory),
		Difficulty:  req.Difficulty,
		Duration:    session.DefaultDuration,
	}
	if c, err := drillgen.ParseCategory(req.Category); err == nil {
		cfg.Category = c
		if sub, err := drillgen.ParseSubcategory(c, req.Subcategory); err == nil {
			cfg.Subcategory = sub
		}
	}
	if req.Minutes != 0 {
		cfg.Duration = session.Minutes(req.Minutes)
	}

	opts := []session.Option{session.WithClock(s.now)}
	if s.repo != nil {
		opts = append(opts, session.WithRecorder(session.NewEventRecorder(s.repo)))
	}
	d := session.New(s.source, s.stats, opts...)

	if err := d.Configure(cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := d.Start(); err != nil {
		if errors.Is(err, session.ErrUnrecognizedConfig) {
			respondError(w, http.StatusUnprocessableEntity, d.Fault)
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.drills.put(d.ID, d, s.now())
	respondJSON(w, http.StatusCreated, newDrillView(d))
}

// GET /drills/{id}
func (s *Server) getDrill(w http.ResponseWriter, r *http.Request) {
	var view drillView
	found := s.drills.with(mux.Vars(r)["id"], s.now(), func(d *session.Session) {
		d.CheckTimeout()
		view = newDrillView(d)
	})
	if !found {
		respondError(w, http.StatusNotFound, "drill not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /drills/{id}/answers
func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		res session.AnswerResult
		err error
	)
	found := s.drills.with(mux.Vars(r)["id"], s.now(), func(d *session.Session) {
		res, err = d.SubmitAnswer(req.Answer)
	})

	switch {
	case !found:
		respondError(w, http.StatusNotFound, "drill not found")
	case errors.Is(err, session.ErrSessionExpired), errors.Is(err, session.ErrWrongPhase):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrUnrecognizedConfig):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondJSON(w, http.StatusOK, newAnswerView(&res))
	}
}

// POST /drills/{id}/stop
func (s *Server) stopDrill(w http.ResponseWriter, r *http.Request) {
	var (
		res session.Result
		err error
	)
	found := s.drills.with(mux.Vars(r)["id"], s.now(), func(d *session.Session) {
		res, err = d.Stop()
	})

	switch {
	case !found:
		respondError(w, http.StatusNotFound, "drill not found")
	case err != nil:
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondJSON(w, http.StatusOK, newResultView(res))
	}
}

// GET /drills/{id}/result
func (s *Server) drillResult(w http.ResponseWriter, r *http.Request) {
	var (
		res      session.Result
		finished bool
	)
	found := s.drills.with(mux.Vars(r)["id"], s.now(), func(d *session.Session) {
		if finished = d.CheckTimeout(); finished {
			res = d.Finalize()
		}
	})

	switch {
	case !found:
		respondError(w, http.StatusNotFound, "drill not found")
	case !finished:
		respondError(w, http.StatusConflict, "drill is still running")
	default:
		respondJSON(w, http.StatusOK, newResultView(res))
	}
}

// DELETE /drills/{id}
//
// Discards the drill. A drill still running is finalized first so its
// counts reach the stats.
func (s *Server) deleteDrill(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	found := s.drills.with(id, s.now(), func(d *session.Session) {
		if d.Phase == session.PhaseActive {
			d.Finalize()
		}
	})
	if !found || !s.drills.remove(id) {
		respondError(w, http.StatusNotFound, "drill not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /stats
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Categories []stats.Row `json:"categories"`
	}{s.stats.Snapshot()})
}

// GET /history?limit=N
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	drills, err := s.repo.RecentDrills(r.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		s.logger.Error("store error", "error", err, "entity", "history")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]historyView, 0, len(drills))
	for _, d := range drills {
		out = append(out, historyView{
			ID:              d.SessionID,
			Category:        d.Category,
			Subcategory:     d.Subcategory,
			Minutes:         d.Duration.Minutes(),
			StartedAt:       d.StartedAt,
			Finished:        d.Finished,
			Attempted:       d.Attempted,
			Correct:         d.Correct,
			Accuracy:        d.Accuracy,
			FinalDifficulty: d.FinalDifficulty,
			StoppedEarly:    d.StoppedEarly,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /history/{id}
func (s *Server) historyAnswers(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	answers, err := s.repo.DrillAnswers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.logger.Error("store error", "error", err, "entity", "drill answers")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	type answerRow struct {
		Question   string    `json:"question"`
		Expected   string    `json:"expected"`
		Given      string    `json:"given"`
		Correct    bool      `json:"correct"`
		Difficulty int       `json:"difficulty"`
		AnsweredAt time.Time `json:"answered_at"`
	}
	out := make([]answerRow, 0, len(answers))
	for _, a := range answers {
		out = append(out, answerRow{a.Question, a.Expected, a.Given, a.Correct, a.Difficulty, a.AnsweredAt})
	}
	respondJSON(w, http.StatusOK, out)
}
