package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gmkornilov/chess-puzzle-trainer/internal/api"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/config"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/dao"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/db"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/puzzle"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/scraper"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/transport/ws"
	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		panic(err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("trainer stopped", zap.Error(err))
	}
}

func run(cfg *config.Configuration, logger *zap.Logger) error {
	var repo dao.PuzzleRepository
	var puzzles []puzgen.Puzzle
	var err error

	switch cfg.Puzzles.Source {
	case config.SourceEmbedded:
		puzzles, err = puzzle.Embedded()
	case config.SourceFile:
		puzzles, err = puzzle.LoadFile(cfg.Puzzles.File)
	case config.SourceMongo:
		dbClient, dbErr := db.NewDbClient(cfg)
		if dbErr != nil {
			return dbErr
		}
		defer dbClient.Close()
		repo = dao.NewPuzzleRepository(dbClient)
		puzzles, err = repo.All(context.Background())
		if err == nil {
			err = puzzle.ValidateAll(puzzles)
		}
	default:
		err = fmt.Errorf("unknown puzzle source %q", cfg.Puzzles.Source)
	}
	if err != nil {
		return err
	}
	logger.Info("puzzles loaded", zap.String("source", cfg.Puzzles.Source), zap.Int("count", len(puzzles)))

	store := puzzle.NewStore(puzzles)

	sinks := []scraper.Sink{func(ctx context.Context, generated []puzgen.Puzzle) error {
		store.Add(generated...)
		return nil
	}}
	if repo != nil {
		sinks = append(sinks, repo.InsertAll)
	}
	factory := &scraper.JobFactory{
		Client:      scraper.NewChessComClient(cfg.Generator.ChessComURL),
		NewAnalyzer: scraper.EngineAnalyzerFactory(cfg.Stockfish.Path, cfg.Stockfish.Args...),
		Sink:        scraper.Sinks(sinks...),
		Options: puzgen.Options{
			Depth:         cfg.Generator.Depth,
			MaxComplexity: cfg.Generator.MaxComplexity,
		},
		Logger: logger,
	}

	router := api.NewRouter(logger,
		api.NewSessionApi(store, api.SessionLimits{
			MaxSessions: cfg.Sessions.Max,
			IdleTimeout: cfg.Sessions.IdleTimeout,
		}, logger),
		&api.PuzzleApi{Store: store, Repository: repo},
		api.NewJobApi(factory),
		ws.NewServer(ws.Config{}, store, logger),
	)

	logger.Info("listening", zap.String("addr", cfg.Addr()))
	return http.ListenAndServe(cfg.Addr(), router)
}
