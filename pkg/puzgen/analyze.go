package puzgen

import (
	"github.com/freeeve/uci"
	"github.com/notnil/chess"
)

const (
	multiPV = 10

	DefaultDepth         = 10
	DefaultMaxComplexity = 9
)

// Analyzer evaluates a single position.
type Analyzer interface {
	Analyse(fen string, depth int) (*uci.Results, error)
}

type engineAnalyzer struct {
	e *uci.Engine
}

func NewEngineAnalyzer(e *uci.Engine) Analyzer {
	return &engineAnalyzer{e}
}

func (a *engineAnalyzer) Analyse(fen string, depth int) (*uci.Results, error) {
	if err := a.e.SetFEN(fen); err != nil {
		return nil, err
	}
	return a.e.GoDepth(depth)
}

func SetupEngine(path string, arg ...string) (*uci.Engine, error) {
	e, err := uci.NewEngine(path, arg...)
	if err != nil {
		return nil, err
	}

	err = e.SetOptions(uci.Options{
		MultiPV: multiPV,
		Hash:    128,
		Ponder:  false,
		OwnBook: true,
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Options tunes puzzle generation. Zero values fall back to the defaults.
type Options struct {
	Depth         int
	MaxComplexity int
	// Unique drops positions where another first move mates just as fast.
	Unique bool
}

func (o Options) depth() int {
	if o.Depth <= 0 {
		return DefaultDepth
	}
	return o.Depth
}

func (o Options) maxComplexity() int {
	if o.MaxComplexity <= 0 {
		return DefaultMaxComplexity
	}
	return o.MaxComplexity
}

// Generator turns games into puzzles. Positions seen in earlier games are
// not analysed again.
type Generator struct {
	a                Analyzer
	opts             Options
	watchedPositions map[string]bool
}

func NewGenerator(a Analyzer, opts Options) *Generator {
	return &Generator{a: a, opts: opts, watchedPositions: make(map[string]bool)}
}

// Game generates puzzles from every position of the game's mainline.
// uuid is copied into each puzzle to point back at the source game.
func (g *Generator) Game(uuid string, game *chess.Game) ([]Puzzle, error) {
	positions := game.Positions()
	moves := game.Moves()
	res := make([]Puzzle, 0)
	// positions[i] is the position before moves[i]
	for i := 0; i < len(moves) && i < len(positions); i++ {
		p, ok, err := GeneratePuzzleFromPosition(g.a, positions[i].String(), g.opts, g.watchedPositions)
		if err != nil {
			return nil, err
		}
		if ok {
			p.UUID = uuid
			res = append(res, p)
		}
	}
	return res, nil
}
