package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fiveinarow/communication/client"
	"fiveinarow/communication/server"
	"fiveinarow/config"
	"fiveinarow/engine"
	"fiveinarow/experiments"
	"fiveinarow/game"
	"fiveinarow/gamemaster"
	"fiveinarow/player"
	"fiveinarow/searcher"
	"fiveinarow/searcher/agent"
	"fiveinarow/storage"

	"github.com/rs/zerolog/log"
)

const usage = `usage: fiveinarow <command> [flags]

commands:
  serve       host human-vs-AI games over HTTP and websockets
  agent       serve the move selector over HTTP
  selfplay    play one game between two agents
  play        join a game server as the human seat with an agent
  experiment  run a self-play experiment (%s)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, strings.Join(experiments.Names, ", "))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	cfg := config.Load()
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfg.BindFlags(fs)

	var run func(ctx context.Context, cfg *config.Config) error
	switch cmd {
	case "serve":
		run = serve
	case "agent":
		run = serveAgent
	case "selfplay":
		run = selfPlay(fs)
	case "play":
		run = play(fs)
	case "experiment":
		run = experiment(fs)
	default:
		fmt.Fprintf(os.Stderr, usage, strings.Join(experiments.Names, ", "))
		os.Exit(2)
	}

	fs.Parse(args)
	cfg.SetupLogging()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msgf("%s failed", cmd)
	}
}

func newAgent(ctx context.Context, cfg *config.Config) (agent.Agent, string, error) {
	if cfg.AgentURL != "" {
		remote := agent.NewRemoteAgent(cfg.AgentURL, cfg.AgentTimeout)
		if err := remote.Ping(ctx); err != nil {
			return nil, "", fmt.Errorf("agent server %s is not reachable: %w", cfg.AgentURL, err)
		}
		return remote, cfg.AgentURL, nil
	}
	return agent.NewEvaluationAgent(searcher.NewGreedy(searcher.WithBias(cfg.Bias))), "greedy", nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	a, name, err := newAgent(ctx, cfg)
	if err != nil {
		return err
	}
	engineOptions := []gamemaster.Option{gamemaster.WithSize(cfg.Rows, cfg.Cols)}
	serverOptions := []server.Option{}
	if cfg.AIFirst {
		engineOptions = append(engineOptions, gamemaster.WithAIFirst())
	}
	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		engineOptions = append(engineOptions, gamemaster.WithRecorder(store, name))
		serverOptions = append(serverOptions, server.WithArchive(store))
	}

	comm := server.NewServerCommunicator(serverOptions...)
	gm := gamemaster.NewGameMaster(comm, gamemaster.NewLocalEngine(a, engineOptions...))
	gm.InitializeGame()

	errCh := make(chan error, 1)
	go func() { errCh <- gm.RunGame(ctx) }()
	if err := comm.Start(ctx, cfg.Addr); err != nil {
		return err
	}
	return <-errCh
}

func serveAgent(ctx context.Context, cfg *config.Config) error {
	return agent.StartAgentServer(ctx, cfg.AgentAddr, searcher.WithBias(cfg.Bias))
}

func selfPlay(fs *flag.FlagSet) func(ctx context.Context, cfg *config.Config) error {
	remotes := fs.String("remotes", "", "comma separated agent server URLs for Black and White")
	hook := fs.String("hook", "", "URL receiving a snapshot after every move")
	temperature := fs.Float64("temperature", 0, "sample among the best moves at this temperature (0 plays greedy)")
	seed := fs.Uint64("seed", 1, "seed of the sampling agents")

	return func(ctx context.Context, cfg *config.Config) error {
		options := []engine.Option{engine.WithSize(cfg.Rows, cfg.Cols), engine.WithMaxTurns(cfg.Rows * cfg.Cols)}
		if *hook != "" {
			options = append(options, engine.WithVisualHook(*hook))
		}

		var e engine.Engine
		var final func() *game.GameState
		if *remotes != "" {
			urls := strings.Split(*remotes, ",")
			if len(urls) != 2 {
				return fmt.Errorf("need two agent URLs, got %d", len(urls))
			}
			remote := engine.NewRemoteEngine(urls, cfg.AgentTimeout, options...)
			if err := remote.Ping(ctx); err != nil {
				return err
			}
			e, final = remote, func() *game.GameState { return remote.State }
		} else {
			agents := make([]agent.Agent, 2)
			for i := range agents {
				greedy := searcher.NewGreedy(searcher.WithBias(cfg.Bias), searcher.WithMetrics())
				if *temperature > 0 {
					agents[i] = agent.NewSamplingAgent(greedy, *temperature, *seed+uint64(i))
				} else {
					agents[i] = agent.NewEvaluationAgent(greedy)
				}
			}
			local := engine.NewLocalEngine(agents, options...)
			e, final = local, func() *game.GameState { return local.State }
		}

		winner, gameMetric, _ := e.Run()
		fmt.Println(final().Board)
		log.Info().Msgf("game %s: winner %s after %d moves in %s", gameMetric.ID, winner, gameMetric.TotalMoves, gameMetric.Duration)
		return nil
	}
}

func play(fs *flag.FlagSet) func(ctx context.Context, cfg *config.Config) error {
	serverURL := fs.String("server", "http://localhost:8080", "game server URL")

	return func(ctx context.Context, cfg *config.Config) error {
		a, _, err := newAgent(ctx, cfg)
		if err != nil {
			return err
		}
		p := player.NewPlayer(game.Black, a, client.NewClientCommunicator(*serverURL))
		winner, err := p.Play(ctx)
		if err != nil {
			return err
		}
		log.Info().Msgf("winner: %s", winner)
		return nil
	}
}

func experiment(fs *flag.FlagSet) func(ctx context.Context, cfg *config.Config) error {
	name := fs.String("name", "bias", "experiment to run: "+strings.Join(experiments.Names, ", "))
	out := fs.String("out", "experiments", "directory receiving the CSV results")

	return func(ctx context.Context, cfg *config.Config) error {
		return experiments.Run(*out, *name)
	}
}
