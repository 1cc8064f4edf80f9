package gamemaster

import (
	"context"
	"errors"
	"sync"
	"time"

	"fiveinarow/game"
	"fiveinarow/meta"
	"fiveinarow/searcher/agent"
	"fiveinarow/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNotStarted = errors.New("game not started - call Init first")

type Update struct {
	Move  game.Stone
	State *game.GameState
}

// UpdateGetter returns the next pending update without blocking. ok is false when there is none.
type UpdateGetter func() (u Update, ok bool)

type Engine interface {
	Init() (*game.GameState, UpdateGetter)
	// Play applies the human move, then the AI's answer
	Play(cell game.Cell) error
	State() *game.GameState
}

// Recorder receives every finished or abandoned game.
type Recorder interface {
	SaveGame(ctx context.Context, r storage.GameRecord) error
}

type Option func(e *LocalEngine)

func WithSize(rows, cols int) Option {
	return func(e *LocalEngine) {
		e.rows, e.cols = rows, cols
	}
}

func WithRules(rules game.Rules) Option {
	return func(e *LocalEngine) {
		e.rules = rules
	}
}

// WithAIFirst lets the AI open every game.
func WithAIFirst() Option {
	return func(e *LocalEngine) {
		e.aiFirst = true
	}
}

// WithRecorder archives games under the given name for the AI side.
func WithRecorder(recorder Recorder, agentName string) Option {
	return func(e *LocalEngine) {
		e.recorder = recorder
		e.agentName = agentName
	}
}

// LocalEngine hosts a human (Black) against an agent (White).
type LocalEngine struct {
	agent      agent.Agent
	human, ai  game.Owner
	rows, cols int
	rules      game.Rules
	aiFirst    bool
	recorder   Recorder
	agentName  string

	mu        sync.Mutex
	id        string
	startedAt time.Time
	state     *game.GameState
	updateCh  chan Update
	gameOver  bool
}

func NewLocalEngine(a agent.Agent, options ...Option) *LocalEngine {
	e := &LocalEngine{ // Default values
		agent:     a,
		human:     game.Black,
		ai:        game.White,
		rows:      meta.DefaultRows,
		cols:      meta.DefaultCols,
		rules:     game.NewStandardRules(),
		agentName: "greedy",
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Init starts a new game, abandoning the current one if it is still running.
func (e *LocalEngine) Init() (*game.GameState, UpdateGetter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != nil && !e.gameOver {
		e.finish(storage.Abandoned)
	}

	first := e.human
	if e.aiFirst {
		first = e.ai
	}
	e.id = uuid.NewString()
	e.startedAt = time.Now()
	e.state = game.NewGameState(e.rows, e.cols, e.rules, first)
	e.gameOver = false
	// Room for every move of the game, so Play never blocks on a slow reader
	e.updateCh = make(chan Update, e.rows*e.cols)

	log.Info().Msgf("game %s started, %s moves first", e.id, first)

	if e.aiFirst {
		e.aiMove()
	}

	updateCh := e.updateCh
	return e.state.Copy(), func() (Update, bool) {
		select {
		case u, ok := <-updateCh:
			return u, ok
		default:
			// No updates yet
			return Update{}, false
		}
	}
}

// Play applies the human stone and checks for a win. Only then is the agent asked,
// and its stone is applied and checked before Play returns.
func (e *LocalEngine) Play(cell game.Cell) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return ErrNotStarted
	}
	if e.gameOver {
		return game.ErrGameOver
	}
	if e.state.Player() != e.human {
		return game.ErrNotYourTurn
	}

	if err := e.apply(cell); err != nil {
		return err
	}
	if !e.gameOver {
		e.aiMove()
	}
	return nil
}

func (e *LocalEngine) State() *game.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil
	}
	return e.state.Copy()
}

// ID returns the UUID of the current game.
func (e *LocalEngine) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *LocalEngine) apply(cell game.Cell) error {
	newState, err := e.state.Play(cell)
	if err != nil {
		return err
	}
	e.state = newState
	e.updateCh <- Update{Move: *newState.LastMove, State: newState.Copy()}

	switch {
	case newState.Winner() != game.None:
		log.Info().Msgf("game %s won by %s", e.id, newState.Winner())
		e.finish(storage.Five)
	case newState.Drawn:
		log.Info().Msgf("game %s ended in a draw", e.id)
		e.finish(storage.Draw)
	}
	return nil
}

func (e *LocalEngine) aiMove() {
	move, ok, metrics := e.agent.FindMove(e.state.Copy())
	if !ok {
		// No move left for the AI ends the game as a draw
		log.Warn().Msgf("game %s: agent found no move, declaring a draw", e.id)
		drawn := e.state.Copy()
		drawn.Drawn = true
		e.state = drawn
		e.finish(storage.Draw)
		return
	}
	log.Debug().Msgf("game %s: agent plays (%d,%d) after %s", e.id, move.Row, move.Col, metrics.Duration)

	if err := e.apply(move); err != nil {
		log.Error().Err(err).Msgf("game %s: agent returned an illegal move %+v", e.id, move)
		// Forcing the first legal move keeps the game going
		if err := e.apply(e.state.LegalMoves()[0]); err != nil {
			panic(err)
		}
	}
}

// finish closes the update channel and archives the game.
func (e *LocalEngine) finish(termination storage.Termination) {
	e.gameOver = true
	close(e.updateCh)

	if e.recorder == nil || e.state.MoveCount() == 0 {
		return
	}
	record := storage.GameRecord{
		ID:          e.id,
		StartedAt:   e.startedAt,
		EndedAt:     time.Now(),
		Rows:        e.rows,
		Cols:        e.cols,
		Winner:      e.state.Winner(),
		Termination: termination,
		Moves:       e.state.Board.Stones(),
	}
	record.Black, record.White = "human", e.agentName
	if e.ai == game.Black {
		record.Black, record.White = e.agentName, "human"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.recorder.SaveGame(ctx, record); err != nil {
		log.Error().Err(err).Msgf("failed to archive game %s", e.id)
	}
}
