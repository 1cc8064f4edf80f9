package experiments

import (
	"fmt"
	"sync"

	"fiveinarow/engine"
	"fiveinarow/experiments/metrics"
	"fiveinarow/game"
	"fiveinarow/meta"
	"fiveinarow/searcher"
	"fiveinarow/searcher/agent"
	"fiveinarow/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const NumGames = 20 // Per match up

const experimentSeed = 42

var biasConfigs = []metrics.AgentConfig{
	{ID: 1, Kind: "sampling", Bias: 0, Temperature: 0.5, Seed: 1},
	{ID: 2, Kind: "sampling", Bias: searcher.Bias, Temperature: 0.5, Seed: 2},
	{ID: 3, Kind: "sampling", Bias: 1000, Temperature: 0.5, Seed: 3},
	{ID: 4, Kind: "sampling", Bias: searcher.LevelFour, Temperature: 0.5, Seed: 4},
}

// RunBiasExperiment pairs agents with different bias values against a baseline agent,
// and checks the greedy agent against a random one. Results go under root/bias.
func RunBiasExperiment(root string) error {
	baseline := metrics.AgentConfig{ID: 0, Kind: "sampling", Bias: searcher.Bias, Temperature: 0.5, Seed: 100}
	greedy := metrics.AgentConfig{ID: 5, Kind: "greedy", Bias: searcher.Bias}
	random := metrics.AgentConfig{ID: 6, Kind: "random", Seed: 200}

	// Each matchup pairs the baseline agent against a bias agent
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range biasConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	matchUps = append(matchUps, []metrics.AgentConfig{greedy, random})

	configs := append([]metrics.AgentConfig{baseline, greedy, random}, biasConfigs...)
	return runExperiment(root, "bias", configs, matchUps, NumGames)
}

type job struct {
	game    int // Record ID
	matchUp int
	first   metrics.AgentConfig // Plays Black
	second  metrics.AgentConfig
	seed    uint64
}

type result struct {
	game    metrics.GameRecord
	moves   []metrics.MoveRecord
	winner  game.Owner
	matchUp int
}

func runExperiment(root, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig, numGames int) error {
	log.Info().Msgf("starting %s experiment...", name)

	// Derive every game's seed up front so results do not depend on scheduling
	rng := rand.New(rand.NewSource(experimentSeed))
	jobs := []job{}
	for mi, matchUp := range matchUps {
		for i := 0; i < numGames; i++ {
			first, second := matchUp[0], matchUp[1]
			if i%2 == 1 { // Alternate the starting agent
				first, second = second, first
			}
			jobs = append(jobs, job{game: len(jobs) + 1, matchUp: mi, first: first, second: second, seed: rng.Uint64()})
		}
	}

	results := make([]result, len(jobs))
	jobCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < meta.Goroutines; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				results[i] = runGame(jobs[i])
			}
		}()
	}
	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()

	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	wins := make([]map[int]int, len(matchUps))
	for i := range wins {
		wins[i] = map[int]int{}
	}
	for _, r := range results {
		gameRecords = append(gameRecords, r.game)
		moveRecords = append(moveRecords, r.moves...)
		switch r.winner {
		case game.Black:
			wins[r.matchUp][r.game.Agent1]++
		case game.White:
			wins[r.matchUp][r.game.Agent2]++
		}
	}
	for mi, matchUp := range matchUps {
		log.Info().Msgf("matchup %d of %d: agent %d won %d, agent %d won %d of %d games",
			mi+1, len(matchUps), matchUp[0].ID, wins[mi][matchUp[0].ID], matchUp[1].ID, wins[mi][matchUp[1].ID], numGames)
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}

// runGame executes a single game between two agents
func runGame(j job) result {
	agents := []agent.Agent{
		createAgent(j.first, j.seed),
		createAgent(j.second, j.seed+1),
	}
	options := []engine.Option{}
	if size := j.first.BoardSize; size > 0 {
		options = append(options, engine.WithSize(size, size), engine.WithMaxTurns(size*size))
	}
	e := engine.NewLocalEngine(agents, options...)

	winner, gameMetric, moveMetrics := e.Run()

	r := result{
		game: metrics.GameRecord{
			ID:         j.game,
			Agent1:     j.first.ID,
			Agent2:     j.second.ID,
			GameMetric: gameMetric,
		},
		winner:  winner,
		matchUp: j.matchUp,
	}
	for _, mm := range moveMetrics {
		r.moves = append(r.moves, metrics.MoveRecord{Game: j.game, MoveMetric: mm})
	}
	log.Debug().Msgf("completed game %d with winner: %s", j.game, winner)
	return r
}

func createAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	greedy := searcher.NewGreedy(searcher.WithBias(config.Bias), searcher.WithMetrics())
	switch config.Kind {
	case "random":
		return agent.NewRandomAgent(seed)
	case "sampling":
		return agent.NewSamplingAgent(greedy, config.Temperature, seed)
	case "greedy":
		return agent.NewEvaluationAgent(greedy)
	}
	panic(fmt.Sprintf("unknown agent kind %q", config.Kind))
}

// Names lists the experiments Run knows.
var Names = []string{"bias", "throughput"}

var runners = []func(root string) error{RunBiasExperiment, RunThroughputExperiment}

// Run runs the named experiment and stores its results under root.
func Run(root, name string) error {
	i := utils.FindIndex(Names, name)
	if i < 0 {
		return fmt.Errorf("unknown experiment %q, want one of %v", name, Names)
	}
	return runners[i](root)
}
