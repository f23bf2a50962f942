package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/abhisek/mathcraft/internal/spacedrep"
	"github.com/abhisek/mathcraft/internal/store"
)

// Operation is the only kind of question served.
const Operation = "multiplication"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context(), learnerFrom(r.Context()).ID, s.now())
	if err != nil {
		s.internalError(w, "start session", err)
		return
	}
	respondJSON(w, map[string]string{"session_id": sess.ID}, http.StatusOK)
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		respondError(w, "session_id is required", http.StatusBadRequest)
		return
	}

	found, err := s.sessions.End(r.Context(), learnerFrom(r.Context()).ID, req.SessionID, s.now())
	if err != nil {
		s.internalError(w, "end session", err)
		return
	}
	if !found {
		respondError(w, "Session not found", http.StatusNotFound)
		return
	}
	respondJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	u := learnerFrom(r.Context())
	sum, err := s.progress.Summary(r.Context(), u.ID)
	if err != nil {
		s.internalError(w, "stats", err)
		return
	}
	respondJSON(w, scoring.Stats{
		Username:      u.Username,
		TotalCorrect:  sum.TotalCorrect,
		TotalAttempts: sum.TotalAttempts,
	}, http.StatusOK)
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	questions, err := s.questions.All(ctx)
	if err != nil {
		s.internalError(w, "load questions", err)
		return
	}
	records, err := s.progress.All(ctx, learnerFrom(ctx).ID)
	if err != nil {
		s.internalError(w, "load progress", err)
		return
	}

	cards := make([]spacedrep.Card, len(records))
	for i, rec := range records {
		cards[i] = spacedrep.CardFromRecord(rec)
	}

	q, _, err := s.picker.Pick(s.now(), questions, cards)
	if err != nil {
		s.internalError(w, "pick question", err)
		return
	}
	respondJSON(w, scoring.Question{
		ID:        strconv.Itoa(q.ID),
		A:         q.A,
		B:         q.B,
		Operation: Operation,
	}, http.StatusOK)
}

// flexibleID accepts a question id sent either as a JSON string or number.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID   flexibleID `json:"question_id"`
		Answer       *int       `json:"answer"`
		ResponseTime float64    `json:"response_time"`
		SessionID    string     `json:"session_id"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.QuestionID == "" {
		respondError(w, "question_id is required", http.StatusBadRequest)
		return
	}
	if req.Answer == nil {
		respondError(w, "answer is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	qid, err := strconv.Atoi(string(req.QuestionID))
	if err != nil {
		respondError(w, "Question not found", http.StatusNotFound)
		return
	}
	q, err := s.questions.Get(ctx, qid)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, "Question not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, "load question", err)
		return
	}

	now := s.now()
	correct := *req.Answer == q.Answer
	responseTime := req.ResponseTime
	if responseTime < 0 || math.IsNaN(responseTime) {
		responseTime = 0
	}

	// The card is rebuilt from progress read inside the save transaction.
	rec, _, err := s.events.SaveAnswer(ctx, store.AnswerEventData{
		UserID:       learnerFrom(ctx).ID,
		SessionID:    req.SessionID,
		QuestionID:   q.ID,
		Answer:       *req.Answer,
		Correct:      correct,
		ResponseTime: responseTime,
		Timestamp:    now,
	}, func(prev *store.ProgressRecord) store.ProgressRecord {
		card := spacedrep.NewCard(q.ID, now)
		if prev != nil {
			card = spacedrep.CardFromRecord(*prev)
		}
		card.RecordAnswer(correct, responseTime, now)
		return card.Record()
	})
	if err != nil {
		s.internalError(w, "save answer", err)
		return
	}

	respondJSON(w, scoring.Result{
		Correct:        correct,
		CorrectAnswer:  q.Answer,
		NextReviewDays: rec.IntervalDays,
	}, http.StatusOK)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := s.now()
	u := learnerFrom(ctx)

	sum, err := s.progress.Summary(ctx, u.ID)
	if err != nil {
		s.internalError(w, "dashboard summary", err)
		return
	}
	minutes, err := s.sessions.TotalMinutes(ctx, u.ID)
	if err != nil {
		s.internalError(w, "dashboard minutes", err)
		return
	}
	due, err := s.progress.DueCount(ctx, u.ID, now)
	if err != nil {
		s.internalError(w, "dashboard due", err)
		return
	}
	recent, err := s.sessions.Recent(ctx, u.ID, RecentSessionLimit)
	if err != nil {
		s.internalError(w, "dashboard sessions", err)
		return
	}

	d := scoring.Dashboard{
		Username:           u.Username,
		QuestionsPracticed: sum.Practiced,
		TotalAttempts:      sum.TotalAttempts,
		TotalCorrect:       sum.TotalCorrect,
		TotalWrong:         sum.TotalWrong,
		TotalTimeMinutes:   round1(minutes),
		QuestionsDue:       due,
		RecentSessions:     make([]scoring.SessionSummary, 0, len(recent)),
	}
	if sum.TotalAttempts > 0 {
		d.Accuracy = round1(float64(sum.TotalCorrect) / float64(sum.TotalAttempts) * 100)
	}
	for _, sess := range recent {
		ss := scoring.SessionSummary{
			ID:                sess.ID,
			StartedAt:         sess.StartedAt,
			EndedAt:           sess.EndedAt,
			QuestionsAnswered: sess.QuestionsAnswered,
			CorrectAnswers:    sess.CorrectAnswers,
		}
		if sess.EndedAt != nil {
			ss.DurationMinutes = round1(sess.EndedAt.Sub(sess.StartedAt).Minutes())
		}
		d.RecentSessions = append(d.RecentSessions, ss)
	}

	respondJSON(w, d, http.StatusOK)
}

func (s *Server) mistakes(w http.ResponseWriter, r *http.Request) {
	records, err := s.progress.Mistakes(r.Context(), learnerFrom(r.Context()).ID)
	if err != nil {
		s.internalError(w, "mistakes", err)
		return
	}

	out := make([]scoring.Mistake, len(records))
	for i, m := range records {
		out[i] = scoring.Mistake{
			QuestionID:    strconv.Itoa(m.Question.ID),
			A:             m.Question.A,
			B:             m.Question.B,
			Answer:        m.Question.Answer,
			WrongCount:    m.Progress.WrongCount,
			CorrectCount:  m.Progress.CorrectCount,
			TotalAttempts: m.Progress.TotalAttempts,
			NextReviewAt:  m.Progress.NextReview,
		}
	}
	respondJSON(w, map[string][]scoring.Mistake{"mistakes": out}, http.StatusOK)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Printf("%s: %v", op, err)
	respondError(w, "Internal server error", http.StatusInternalServerError)
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, maxBodyBytes)); err != nil {
		return err
	}
	if buf.Len() == 0 {
		return nil
	}
	return json.Unmarshal(buf.Bytes(), v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
