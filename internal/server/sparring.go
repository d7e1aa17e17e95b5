package server

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sabta/casedrill/internal/sparring"
)

type createRoundRequest struct {
	Topics []string `json:"topics"`
	Count  int      `json:"count"`

	// TimeLimitSeconds is the per-question timer. Omitted means the
	// default; zero turns the timer off.
	TimeLimitSeconds *int `json:"time_limit_seconds"`
}

type roundAnswerRequest struct {
	Answer string `json:"answer"`
}

type roundView struct {
	ID               string           `json:"id"`
	Index            int              `json:"index"`
	Total            int              `json:"total"`
	Done             bool             `json:"done"`
	Current          *sparring.Item   `json:"current,omitempty"`
	Timed            bool             `json:"timed"`
	RemainingSeconds int              `json:"remaining_seconds,omitempty"`
	Replies          []sparring.Reply `json:"replies"`
}

func newRoundView(rd *sparring.Session) roundView {
	v := roundView{
		ID:      rd.ID,
		Index:   rd.Index(),
		Total:   rd.Len(),
		Done:    rd.Done(),
		Replies: rd.Replies(),
	}
	if item, ok := rd.Current(); ok {
		v.Current = &item
	}
	if left, limited := rd.Remaining(); limited {
		v.Timed = true
		v.RemainingSeconds = int(math.Ceil(left.Seconds()))
	}
	if v.Replies == nil {
		v.Replies = []sparring.Reply{}
	}
	return v
}

// GET /sparring/topics
func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	type topicView struct {
		Name      string `json:"name"`
		Questions int    `json:"questions"`
	}
	var out []topicView
	for _, t := range sparring.Topics() {
		out = append(out, topicView{Name: t, Questions: len(sparring.Prompts(t))})
	}
	respondJSON(w, http.StatusOK, out)
}

// POST /sparring
func (s *Server) createRound(w http.ResponseWriter, r *http.Request) {
	var req createRoundRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cfg := sparring.Config{
		Topics:    req.Topics,
		Count:     req.Count,
		TimeLimit: sparring.DefaultTimeLimit,
	}
	if req.TimeLimitSeconds != nil {
		cfg.TimeLimit = time.Duration(*req.TimeLimitSeconds) * time.Second
	}

	rd, err := sparring.New(cfg, nil, sparring.WithClock(s.now))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.rounds.put(rd.ID, rd, s.now())
	respondJSON(w, http.StatusCreated, newRoundView(rd))
}

// GET /sparring/{id}
func (s *Server) getRound(w http.ResponseWriter, r *http.Request) {
	var view roundView
	if !s.rounds.with(mux.Vars(r)["id"], s.now(), func(rd *sparring.Session) {
		view = newRoundView(rd)
	}) {
		respondError(w, http.StatusNotFound, "round not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /sparring/{id}/answer
func (s *Server) answerRound(w http.ResponseWriter, r *http.Request) {
	var req roundAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	var (
		reply sparring.Reply
		err   error
	)
	if !s.rounds.with(id, s.now(), func(rd *sparring.Session) {
		reply, err = rd.Record(req.Answer)
	}) {
		respondError(w, http.StatusNotFound, "round not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	s.saveReply(r, id, reply)
	respondJSON(w, http.StatusOK, reply)
}

// POST /sparring/{id}/next
func (s *Server) nextQuestion(w http.ResponseWriter, r *http.Request) {
	var view roundView
	if !s.rounds.with(mux.Vars(r)["id"], s.now(), func(rd *sparring.Session) {
		rd.Next()
		view = newRoundView(rd)
	}) {
		respondError(w, http.StatusNotFound, "round not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /sparring/{id}/end
func (s *Server) endRound(w http.ResponseWriter, r *http.Request) {
	var view roundView
	if !s.rounds.with(mux.Vars(r)["id"], s.now(), func(rd *sparring.Session) {
		rd.End()
		view = newRoundView(rd)
	}) {
		respondError(w, http.StatusNotFound, "round not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /sparring/{id}/feedback
//
// Reviews the most recent reply. The round stays locked while the coach
// runs.
func (s *Server) roundFeedback(w http.ResponseWriter, r *http.Request) {
	if s.coach == nil {
		respondError(w, http.StatusServiceUnavailable, "no AI provider configured")
		return
	}

	id := mux.Vars(r)["id"]
	var (
		reply   sparring.Reply
		replied bool
		err     error
	)
	if !s.rounds.with(id, s.now(), func(rd *sparring.Session) {
		if reply, replied = rd.LastReply(); !replied {
			return
		}
		var fb sparring.Feedback
		if fb, err = s.coach.Review(r.Context(), reply.Item, reply.Answer); err != nil {
			return
		}
		rd.Attach(reply.Index, fb)
		reply.Feedback = &fb
	}) {
		respondError(w, http.StatusNotFound, "round not found")
		return
	}

	switch {
	case !replied, errors.Is(err, sparring.ErrEmptyAnswer):
		respondError(w, http.StatusConflict, "nothing to review yet")
	case err != nil:
		s.logger.Error("coach review failed", "error", err, "round", id)
		respondError(w, http.StatusBadGateway, "feedback unavailable")
	default:
		s.saveReply(r, id, reply)
		respondJSON(w, http.StatusOK, reply)
	}
}

// saveReply appends reply to the history. Failures are logged only.
func (s *Server) saveReply(r *http.Request, roundID string, reply sparring.Reply) {
	if s.repo == nil {
		return
	}
	if err := sparring.Save(r.Context(), s.repo, roundID, reply); err != nil {
		s.logger.Warn("failed to save sparring reply", "error", err, "round", roundID)
	}
}
