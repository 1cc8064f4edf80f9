package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"fiveinarow/communication"
	"fiveinarow/game"
	"fiveinarow/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Archive gives read access to finished games.
type Archive interface {
	ListGames(ctx context.Context, limit int) ([]storage.GameRecord, error)
	GetGame(ctx context.Context, id string) (storage.GameRecord, error)
}

type Option func(sc *ServerCommunicator)

func WithArchive(archive Archive) Option {
	return func(sc *ServerCommunicator) {
		sc.archive = archive
	}
}

// ServerCommunicator serves one game to browsers over HTTP and websockets.
type ServerCommunicator struct {
	gameState *game.GameState
	actions   chan communication.Action
	mutex     sync.RWMutex
	hub       *hub
	archive   Archive
}

// NewServerCommunicator initializes and returns a new ServerCommunicator.
func NewServerCommunicator(options ...Option) *ServerCommunicator {
	sc := &ServerCommunicator{
		gameState: nil, // Initialize to nil as GameMaster will set it
		actions:   make(chan communication.Action, 100),
		hub:       newHub(),
	}
	for _, option := range options {
		option(sc)
	}
	return sc
}

func (sc *ServerCommunicator) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/state", sc.handleGetGameState)
	r.Post("/api/move", sc.handleMove)
	r.Post("/api/new", sc.handleNewGame)
	r.Get("/api/games", sc.handleListGames)
	r.Get("/api/games/{id}", sc.handleGetGame)
	r.Get("/ws", sc.handleWS)
	return r
}

// Start serves until ctx is cancelled.
func (sc *ServerCommunicator) Start(ctx context.Context, addr string) error {
	log.Info().Msgf("starting game server on %s", addr)

	server := &http.Server{
		Addr:    addr,
		Handler: sc.Handler(),
	}
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
		return fmt.Errorf("failed to shut down game server: %w", err)
	}
	log.Info().Msg("game server stopped")
	return nil
}

func (sc *ServerCommunicator) GetGameState(ctx context.Context) (*game.GameState, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	if sc.gameState == nil {
		return nil, errNoGame
	}
	return sc.gameState.Copy(), nil
}

// UpdateGameState stores gs and pushes its snapshot to every websocket client.
func (sc *ServerCommunicator) UpdateGameState(gs *game.GameState) {
	sc.mutex.Lock()
	sc.gameState = gs.Copy()
	sc.mutex.Unlock()

	sc.hub.broadcast(wsMessage{Type: "state", Payload: mustMarshal(gs.Snapshot())})
}

func (sc *ServerCommunicator) SendAction(ctx context.Context, action communication.Action) error {
	reply := make(chan error, 1)
	action.Reply = reply

	select {
	case sc.actions <- action:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (sc *ServerCommunicator) ReceiveAction(ctx context.Context) (communication.Action, error) {
	select {
	case action := <-sc.actions:
		return action, nil
	case <-ctx.Done():
		return communication.Action{}, ctx.Err()
	}
}

var errNoGame = errors.New("no game in progress")

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (sc *ServerCommunicator) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	gs, err := sc.GetGameState(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, gs.Snapshot())
}

func (sc *ServerCommunicator) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request: %w", err))
		return
	}
	action := communication.Action{Type: communication.PlaceAction, Cell: game.Cell{Row: req.Row, Col: req.Col}}
	sc.applyAndRespond(w, r, action)
}

func (sc *ServerCommunicator) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sc.applyAndRespond(w, r, communication.Action{Type: communication.NewGameAction})
}

func (sc *ServerCommunicator) applyAndRespond(w http.ResponseWriter, r *http.Request, action communication.Action) {
	if err := sc.SendAction(r.Context(), action); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	sc.handleGetGameState(w, r)
}

func (sc *ServerCommunicator) handleListGames(w http.ResponseWriter, r *http.Request) {
	if sc.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no game archive configured"))
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("bad limit %q", raw))
			return
		}
		limit = n
	}
	games, err := sc.archive.ListGames(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (sc *ServerCommunicator) handleGetGame(w http.ResponseWriter, r *http.Request) {
	if sc.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no game archive configured"))
		return
	}
	record, err := sc.archive.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (sc *ServerCommunicator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{hub: sc.hub, conn: conn, send: make(chan []byte, 16)}
	sc.hub.register(c)
	log.Debug().Msgf("websocket client connected, %d total", sc.hub.len())

	if gs, err := sc.GetGameState(r.Context()); err == nil {
		c.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(gs.Snapshot())})
	}

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, c.send); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
		}
	}()

	// Clients may play through the socket as well
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			sc.hub.unregister(c)
			return
		}
		var action communication.Action
		switch msg.Type {
		case "move":
			var req moveRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				c.sendJSON(errorMessage(err))
				continue
			}
			action = communication.Action{Type: communication.PlaceAction, Cell: game.Cell{Row: req.Row, Col: req.Col}}
		case "new":
			action = communication.Action{Type: communication.NewGameAction}
		default:
			continue
		}
		if err := sc.SendAction(r.Context(), action); err != nil {
			c.sendJSON(errorMessage(err))
		}
	}
}

// statusOf maps game errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrOccupied), errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidBoardState):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, errNoGame):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) wsMessage {
	return wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": err.Error()})}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
