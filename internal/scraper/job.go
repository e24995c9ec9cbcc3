package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
	"github.com/notnil/chess"
	"go.uber.org/zap"
)

// AnalyzerFactory starts an analyzer and returns a func that stops it.
type AnalyzerFactory func() (puzgen.Analyzer, func(), error)

// EngineAnalyzerFactory starts a UCI engine process per job.
func EngineAnalyzerFactory(path string, args ...string) AnalyzerFactory {
	return func() (puzgen.Analyzer, func(), error) {
		e, err := puzgen.SetupEngine(path, args...)
		if err != nil {
			return nil, nil, err
		}
		return puzgen.NewEngineAnalyzer(e), func() { e.Close() }, nil
	}
}

// Sink receives the puzzles of a finished job.
type Sink func(ctx context.Context, puzzles []puzgen.Puzzle) error

// Sinks calls every sink in order and stops at the first error.
func Sinks(sinks ...Sink) Sink {
	return func(ctx context.Context, puzzles []puzgen.Puzzle) error {
		for _, s := range sinks {
			if err := s(ctx, puzzles); err != nil {
				return err
			}
		}
		return nil
	}
}

type JobFactory struct {
	Client      *ChessComClient
	NewAnalyzer AnalyzerFactory
	Sink        Sink
	Options     puzgen.Options
	Logger      *zap.Logger
}

func (f *JobFactory) CreateJob(username string, games int) *GenerationJob {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationJob{
		username:    username,
		games:       games,
		client:      f.Client,
		newAnalyzer: f.NewAnalyzer,
		sink:        f.Sink,
		opts:        f.Options,
		logger:      logger.With(zap.String("username", username)),
	}
}

// GenerationJob downloads a user's games and turns forced mates found in
// them into puzzles.
type GenerationJob struct {
	mu       sync.Mutex
	puzzles  []puzgen.Puzzle
	err      error
	done     bool
	progress float64

	username    string
	games       int
	client      *ChessComClient
	newAnalyzer AnalyzerFactory
	sink        Sink
	opts        puzgen.Options
	logger      *zap.Logger
}

func (j *GenerationJob) StartWork() {
	go j.Run(context.Background())
}

func (j *GenerationJob) Done() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.done
}

func (j *GenerationJob) Result() interface{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.puzzles
}

func (j *GenerationJob) Puzzles() []puzgen.Puzzle {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.puzzles
}

func (j *GenerationJob) Error() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *GenerationJob) Progress() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progress
}

func (j *GenerationJob) finish(puzzles []puzgen.Puzzle, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.puzzles = puzzles
	j.err = err
	j.done = true
	j.progress = 1
}

func (j *GenerationJob) setProgress(p float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress = p
}

// Run does the work synchronously and returns the job error.
func (j *GenerationJob) Run(ctx context.Context) error {
	puzzles, err := j.run(ctx)
	if err != nil {
		j.logger.Error("generation failed", zap.Error(err))
	} else {
		j.logger.Info("generation finished", zap.Int("puzzles", len(puzzles)))
	}
	j.finish(puzzles, err)
	return err
}

func (j *GenerationJob) run(ctx context.Context) ([]puzgen.Puzzle, error) {
	j.logger.Info("downloading games", zap.Int("limit", j.games))
	games, err := j.client.UserGames(ctx, j.username, j.games)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s games: %w", j.username, err)
	}

	analyzer, stop, err := j.newAnalyzer()
	if err != nil {
		return nil, fmt.Errorf("error starting engine: %w", err)
	}
	defer stop()

	gen := puzgen.NewGenerator(analyzer, j.opts)
	res := make([]puzgen.Puzzle, 0)
	for i, g := range games {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pgnFunc, err := chess.PGN(strings.NewReader(g.PGN))
		if err != nil {
			j.logger.Warn("skipping unreadable game", zap.String("game", g.UUID), zap.Error(err))
			continue
		}
		puzzles, err := gen.Game(g.UUID, chess.NewGame(pgnFunc))
		if err != nil {
			return nil, fmt.Errorf("error generating puzzles: %w", err)
		}
		res = append(res, puzzles...)
		j.setProgress(float64(i+1) / float64(len(games)+1))
	}

	if j.sink != nil && len(res) > 0 {
		if err := j.sink(ctx, res); err != nil {
			return nil, fmt.Errorf("error saving puzzles: %w", err)
		}
	}
	return res, nil
}
