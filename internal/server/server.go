// Package server exposes the analysis pipeline over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/pipeline"
	"golang.org/x/time/rate"
)

const (
	MAX_BODY_BYTES       = 64 << 10
	SHUTDOWN_TIMEOUT     = 10 * time.Second
	DEFAULT_RECENT_LIMIT = 20
	MAX_RECENT_LIMIT     = 100
)

type Analyzer interface {
	Run(ctx context.Context, feedback string) (pipeline.Result, error)
}

type RecentLister interface {
	Recent(ctx context.Context, n int64) ([]models.FeedbackRecord, error)
}

type Server struct {
	analyzer Analyzer
	limiter  *rate.Limiter
	healthy  *atomic.Bool
	mux      *http.ServeMux
}

// New wires the routes. healthy may be nil, in which case inference is
// always reported as healthy.
func New(analyzer Analyzer, cfg config.APIConfig, healthy *atomic.Bool) *Server {
	s := &Server{
		analyzer: analyzer,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		healthy:  healthy,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/feedback", s.handleFeedback)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// WithRecent exposes GET /api/feedback/recent backed by lister.
func (s *Server) WithRecent(lister RecentLister) *Server {
	s.mux.HandleFunc("GET /api/feedback/recent", func(w http.ResponseWriter, r *http.Request) {
		s.handleRecent(w, r, lister)
	})
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type FeedbackResponse struct {
	ID              string                  `json:"id"`
	Feedback        string                  `json:"feedback"`
	Sentiment       models.SentimentOutcome `json:"sentiment"`
	Summary         string                  `json:"summary"`
	Category        string                  `json:"category"`
	FlaggedKeywords []string                `json:"flagged_keywords"`
	BaselineScore   float64                 `json:"baseline_score"`
	Saved           bool                    `json:"saved"`
	SaveError       string                  `json:"save_error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many submissions, try again shortly"})
		return
	}

	var sub models.FeedbackSubmission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MAX_BODY_BYTES)).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := pipeline.ValidateSubmission(sub.Feedback); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.analyzer.Run(r.Context(), sub.Feedback)
	if err != nil {
		status := statusFor(err)
		slog.Error("[Server] Analysis failed",
			slog.Int("status", status),
			slog.String("error", err.Error()))
		writeJSON(w, status, errorResponse{Error: pipeline.FailureMessage(err)})
		return
	}

	resp := FeedbackResponse{
		ID:              res.Record.ID,
		Feedback:        res.Record.Feedback,
		Sentiment:       res.Sentiment,
		Summary:         res.Record.Summary,
		Category:        res.Record.Category,
		FlaggedKeywords: res.Record.FlaggedKeywords,
		BaselineScore:   res.Record.BaselineScore,
		Saved:           res.Saved,
	}
	if resp.FlaggedKeywords == nil {
		resp.FlaggedKeywords = []string{}
	}
	if res.SaveErr != nil {
		resp.SaveError = res.SaveErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request, lister RecentLister) {
	limit := DEFAULT_RECENT_LIMIT
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MAX_RECENT_LIMIT {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("limit must be between 1 and %d", MAX_RECENT_LIMIT),
			})
			return
		}
		limit = n
	}

	records, err := lister.Recent(r.Context(), int64(limit))
	if err != nil {
		slog.Error("[Server] Failed to list recent feedback", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: pipeline.FailureMessage(err)})
		return
	}
	if records == nil {
		records = []models.FeedbackRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	inference := "healthy"
	if s.healthy != nil && !s.healthy.Load() {
		inference = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "inference": inference})
}

func statusFor(err error) int {
	var (
		infErr       *models.InferenceError
		malformedErr *models.MalformedResponseError
		cfgErr       *models.ConfigurationError
	)
	switch {
	case errors.Is(err, models.ErrEmptyFeedback):
		return http.StatusBadRequest
	case errors.As(err, &infErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("[Server] Failed to write response", slog.String("error", err.Error()))
	}
}
