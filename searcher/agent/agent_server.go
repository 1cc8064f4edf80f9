package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fiveinarow/game"
	"fiveinarow/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// FindMoveRequest is the board an agent server evaluates. Human defaults to the AI's opponent.
type FindMoveRequest struct {
	Rows   int          `json:"rows"`
	Cols   int          `json:"cols"`
	Stones []game.Stone `json:"stones"`
	AI     game.Owner   `json:"ai"`
	Human  game.Owner   `json:"human"`
	Limit  int          `json:"limit,omitempty"`
}

type FindMoveResponse struct {
	Cell *game.Cell `json:"cell,omitempty"`
	OK   bool       `json:"ok"`
}

type RankResponse struct {
	Candidates []searcher.Candidate `json:"candidates"`
}

// maxRequestBytes caps request bodies. A full board of the largest size fits well within it.
const maxRequestBytes = 4 << 20

// AgentServer serves the greedy selector over HTTP.
type AgentServer struct {
	options []searcher.Option
}

func NewAgentServer(options ...searcher.Option) *AgentServer {
	return &AgentServer{options: options}
}

func (s *AgentServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/findmove", s.handleFindMove)
	r.Post("/rank", s.handleRank)
	return r
}

// StartAgentServer serves until ctx is cancelled.
func StartAgentServer(ctx context.Context, addr string, options ...searcher.Option) error {
	log.Info().Msgf("starting agent server on %s with bias %d", addr, searcher.NewGreedy(options...).Bias())

	server := &http.Server{
		Addr:    addr,
		Handler: NewAgentServer(options...).Handler(),
	}
	return serve(ctx, server)
}

func serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down agent server: %w", err)
	}
	log.Info().Msg("agent server stopped")
	return nil
}

func (s *AgentServer) handleFindMove(w http.ResponseWriter, r *http.Request) {
	board, req, err := decodeBoard(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// A fresh selector per request keeps concurrent requests independent
	cell, ok := searcher.NewGreedy(s.options...).SelectMove(board, req.AI, req.Human)
	resp := FindMoveResponse{OK: ok}
	if ok {
		resp.Cell = &cell
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *AgentServer) handleRank(w http.ResponseWriter, r *http.Request) {
	board, req, err := decodeBoard(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	candidates := searcher.NewGreedy(s.options...).Rank(board, req.AI, req.Human, req.Limit)
	writeJSON(w, http.StatusOK, RankResponse{Candidates: candidates})
}

func decodeBoard(w http.ResponseWriter, r *http.Request) (*game.Grid, FindMoveRequest, error) {
	var req FindMoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		return nil, req, fmt.Errorf("bad request: %w", err)
	}
	if req.AI == game.None {
		return nil, req, errors.New("bad request: ai side is required")
	}
	if req.Human == game.None {
		req.Human = req.AI.Opponent()
	}
	if req.Human == req.AI {
		return nil, req, errors.New("bad request: ai and human must be different sides")
	}
	board, err := game.NewGridFromStones(req.Rows, req.Cols, req.Stones)
	if err != nil {
		return nil, req, err
	}
	return board, req, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
