package engine

import (
	"fiveinarow/experiments/metrics"
	"fiveinarow/game"
	"fiveinarow/meta"
	"fiveinarow/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

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

func WithMaxTurns(maxTurns int) Option {
	return func(e *LocalEngine) {
		e.maxTurns = maxTurns
	}
}

// WithObserver registers a function called with every new state.
func WithObserver(observe func(state *game.GameState)) Option {
	return func(e *LocalEngine) {
		e.observers = append(e.observers, observe)
	}
}

// LocalEngine plays two agents against each other. Agents[0] plays Black and moves first.
type LocalEngine struct {
	State  *game.GameState
	Agents []agent.Agent

	rows, cols int
	rules      game.Rules
	maxTurns   int
	observers  []func(state *game.GameState)
}

func NewLocalEngine(agents []agent.Agent, options ...Option) *LocalEngine {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	e := &LocalEngine{ // Default values
		Agents:   agents,
		rows:     meta.DefaultRows,
		cols:     meta.DefaultCols,
		rules:    game.NewStandardRules(),
		maxTurns: meta.MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	e.State = game.NewGameState(e.rows, e.cols, e.rules, game.Black)
	return e
}

// Run executes the entire game loop until a winner is found or the game ends otherwise.
func (e *LocalEngine) Run() (game.Owner, metrics.GameMetric, []metrics.MoveMetric) {
	id := uuid.NewString()
	collector := metrics.NewCollector()
	collector.Start(id, e.State.Player())

	log.Debug().Msgf("game %s: %s is starting", id, e.State.Player())

	turnCount := 1
	for !e.State.IsOver() && turnCount <= e.maxTurns {
		player := e.State.Player()

		move, ok, search := e.agentFor(player).FindMove(e.State)
		if !ok {
			log.Warn().Msgf("game %s: %s found no move on turn %d", id, player, turnCount)
			break
		}

		newState, err := e.State.Play(move)
		if err != nil {
			// Force the first legal move like a forfeited choice
			log.Warn().Err(err).Msgf("game %s: %s returned an illegal move %+v", id, player, move)
			move = e.State.LegalMoves()[0]
			if newState, err = e.State.Play(move); err != nil {
				panic(err)
			}
		}
		collector.AddMove(player, move, search)

		e.State = newState
		for _, observe := range e.observers {
			observe(e.State)
		}
		turnCount++
	}

	switch {
	case e.State.Winner() != game.None:
		log.Debug().Msgf("game %s ended with winner %s after %d moves", id, e.State.Winner(), e.State.MoveCount())
	case e.State.Drawn:
		log.Debug().Msgf("game %s ended in a draw", id)
	default:
		log.Debug().Msgf("game %s stopped after %d turns (no winner yet)", id, turnCount-1)
	}

	gameMetric, moveMetrics := collector.Complete(e.State.Winner())
	return e.State.Winner(), gameMetric, moveMetrics
}

func (e *LocalEngine) agentFor(player game.Owner) agent.Agent {
	if player == game.Black {
		return e.Agents[0]
	}
	return e.Agents[1]
}
