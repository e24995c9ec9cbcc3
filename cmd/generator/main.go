package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gmkornilov/chess-puzzle-trainer/internal/config"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/dao"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/db"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/puzzle"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/scraper"
	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flags struct {
	username      string
	enginePath    string
	games         int
	out           string
	mongo         bool
	depth         int
	maxComplexity int
	unique        bool
}

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(cfg *config.Configuration) *cobra.Command {
	f := flags{}
	cmd := &cobra.Command{
		Use:   "generator",
		Short: "Generate checkmate puzzles from a chess.com user's games",
		Long: "Downloads the games of a chess.com user, evaluates the first N of them " +
			"with a UCI engine and writes every short forced mate found as a puzzle.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.username == "" {
				return errors.New("--username is required")
			}
			return generate(cmd.Context(), cfg, f)
		},
	}
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "chess.com username")
	cmd.Flags().StringVarP(&f.enginePath, "engine", "p", cfg.Stockfish.Path, "path to a UCI engine")
	cmd.Flags().IntVarP(&f.games, "games", "n", cfg.Generator.Games, "number of games to evaluate")
	cmd.Flags().StringVarP(&f.out, "out", "o", cfg.Puzzles.File, "output JSON file, empty to skip")
	cmd.Flags().BoolVar(&f.mongo, "mongo", false, "also insert puzzles into MongoDB")
	cmd.Flags().IntVar(&f.depth, "depth", cfg.Generator.Depth, "engine search depth")
	cmd.Flags().IntVar(&f.maxComplexity, "max-complexity", cfg.Generator.MaxComplexity, "maximum solution length in plies")
	cmd.Flags().BoolVar(&f.unique, "unique", false, "skip positions with more than one fastest mate")
	return cmd
}

func generate(ctx context.Context, cfg *config.Configuration, f flags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var sinks []scraper.Sink
	if f.out != "" {
		sinks = append(sinks, func(ctx context.Context, puzzles []puzgen.Puzzle) error {
			logger.Info("writing puzzles", zap.String("file", f.out), zap.Int("count", len(puzzles)))
			return puzzle.WriteFile(f.out, puzzles)
		})
	}
	if f.mongo {
		dbClient, err := db.NewDbClient(cfg)
		if err != nil {
			return err
		}
		defer dbClient.Close()
		sinks = append(sinks, dao.NewPuzzleRepository(dbClient).InsertAll)
	}

	factory := &scraper.JobFactory{
		Client:      scraper.NewChessComClient(cfg.Generator.ChessComURL),
		NewAnalyzer: scraper.EngineAnalyzerFactory(f.enginePath, cfg.Stockfish.Args...),
		Sink:        scraper.Sinks(sinks...),
		Options: puzgen.Options{
			Depth:         f.depth,
			MaxComplexity: f.maxComplexity,
			Unique:        f.unique,
		},
		Logger: logger,
	}
	job := factory.CreateJob(f.username, f.games)
	if err := job.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("%d puzzles generated for %s\n", len(job.Puzzles()), f.username)
	return nil
}
