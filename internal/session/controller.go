package session

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
	"github.com/notnil/chess"
	"go.uber.org/zap"
)

// DropResult tells the widget what to do with a dropped piece.
type DropResult string

const (
	Accepted DropResult = "accepted"
	Snapback DropResult = "snapback"
)

// Puzzles is the read side of a puzzle store.
type Puzzles interface {
	Len() int
	At(i int) puzgen.Puzzle
}

// IndexSource returns an index in [0, n).
type IndexSource func(n int) int

// State is the progress through the current puzzle.
type State struct {
	PuzzleIndex int
	Puzzle      puzgen.Puzzle
	MoveIndex   int
	SideToMove  chess.Color
	Orientation Orientation
}

// Controller walks the user through one puzzle at a time. It is not safe for
// concurrent use; transports serialize the widget callbacks.
type Controller struct {
	puzzles  Puzzles
	board    Board
	newRules RulesFactory
	pick     IndexSource
	logger   *zap.Logger

	rules Rules
	state State
}

type Option func(*Controller)

func WithIndexSource(pick IndexSource) Option {
	return func(c *Controller) {
		c.pick = pick
	}
}

func WithRules(f RulesFactory) Option {
	return func(c *Controller) {
		c.newRules = f
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

var ErrNoPuzzles = errors.New("no puzzles to play")

// NewController wires the board to the puzzles and starts the first puzzle.
// It fails when there is no puzzle or the first one picked cannot be set up.
func NewController(puzzles Puzzles, board Board, opts ...Option) (*Controller, error) {
	c := &Controller{
		puzzles:  puzzles,
		board:    board,
		newRules: NewChessRules,
		pick:     rand.Intn,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if puzzles.Len() == 0 {
		return nil, ErrNoPuzzles
	}
	if err := c.startPuzzle(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) FEN() string {
	return c.rules.FEN()
}

func (c *Controller) GameOver() bool {
	return c.rules.GameOver()
}

// StartPuzzle picks a random puzzle and resets the board to its start. When
// the picked puzzle cannot be set up the current one stays in play.
func (c *Controller) StartPuzzle() {
	if err := c.startPuzzle(); err != nil {
		c.logger.Error("cannot set up puzzle", zap.Error(err))
	}
}

func (c *Controller) startPuzzle() error {
	idx := c.pick(c.puzzles.Len())
	p := c.puzzles.At(idx)

	rules, err := c.newRules(p.FEN)
	if err != nil {
		return fmt.Errorf("puzzle %d (%s): %w", idx, p.UUID, err)
	}
	c.logger.Debug("puzzle selected", zap.Int("puzzle", idx), zap.String("fen", p.FEN))

	side := chess.White
	if fields := strings.Fields(p.FEN); len(fields) > 1 && fields[1] == "b" {
		side = chess.Black
	}

	c.rules = rules
	c.state = State{
		PuzzleIndex: idx,
		Puzzle:      p,
		MoveIndex:   0,
		SideToMove:  side,
		Orientation: orientationFor(side),
	}
	c.board.SetPosition(p.FEN)
	c.board.SetOrientation(c.state.Orientation)
	return nil
}

// DragStart reports whether piece (a widget code such as "wP" or "bK") may be
// picked up.
func (c *Controller) DragStart(piece string) bool {
	if c.rules.GameOver() {
		return false
	}
	switch c.rules.Turn() {
	case chess.White:
		return !strings.HasPrefix(piece, "b")
	case chess.Black:
		return !strings.HasPrefix(piece, "w")
	}
	return true
}

// Drop handles a piece dropped from source onto target.
func (c *Controller) Drop(source, target string) DropResult {
	expected, ok := c.expected()
	if !ok {
		return Snapback
	}

	req := MoveRequest{From: source, To: target}
	if len(expected) == 5 {
		req.Promotion = chess.Queen
	}
	if c.rules.Move(req) == nil {
		return Snapback
	}

	played := source + target
	if played != expected && played+"q" != expected {
		c.rules.Undo()
		return Snapback
	}
	c.state.MoveIndex++

	c.autoReply()
	return Accepted
}

// autoReply plays the opponent's prerecorded move, or moves on to the next
// puzzle once the user has delivered mate. Promotion is not passed on this path.
func (c *Controller) autoReply() {
	if c.rules.Checkmate() {
		c.logger.Info("puzzle solved",
			zap.Int("puzzle", c.state.PuzzleIndex),
			zap.String("uuid", c.state.Puzzle.UUID))
		c.StartPuzzle()
		return
	}

	reply, ok := c.expected()
	if !ok || len(reply) < 4 {
		return
	}
	c.rules.Move(MoveRequest{From: reply[0:2], To: reply[2:4]})
	c.state.MoveIndex++
}

// SnapEnd syncs the board with the rules position after an animation, which
// covers castling, en passant and promotion.
func (c *Controller) SnapEnd() {
	c.board.SetPosition(c.rules.FEN())
}

func (c *Controller) Skip() {
	c.StartPuzzle()
}

// Status describes the position in words.
func (c *Controller) Status() string {
	moveColor := "White"
	if c.rules.Turn() == chess.Black {
		moveColor = "Black"
	}

	switch {
	case c.rules.Checkmate():
		return "Game over, " + moveColor + " is in checkmate."
	case c.rules.Draw():
		return "Game over, drawn position"
	case c.rules.Check():
		return moveColor + " to move, " + moveColor + " is in check"
	}
	return moveColor + " to move"
}

func (c *Controller) expected() (string, bool) {
	solution := c.state.Puzzle.Solution
	if c.state.MoveIndex < 0 || c.state.MoveIndex >= len(solution) {
		return "", false
	}
	return solution[c.state.MoveIndex], true
}
