package session

import (
	"github.com/notnil/chess"
)

// MoveRequest is a drag from one square to another. Promotion is
// chess.NoPieceType unless the mover asks for one.
type MoveRequest struct {
	From      string
	To        string
	Promotion chess.PieceType
}

// Rules tracks a game from a start position and validates moves.
type Rules interface {
	Turn() chess.Color
	GameOver() bool
	Checkmate() bool
	Draw() bool
	Check() bool
	// Move applies req and returns the move played, or nil if req is illegal.
	Move(req MoveRequest) *chess.Move
	Undo()
	FEN() string
}

// RulesFactory builds a Rules for a start position.
type RulesFactory func(fen string) (Rules, error)

type chessRules struct {
	start func(*chess.Game)
	game  *chess.Game
}

// NewChessRules is the RulesFactory backed by github.com/notnil/chess.
func NewChessRules(fen string) (Rules, error) {
	fenFunc, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return &chessRules{start: fenFunc, game: chess.NewGame(fenFunc)}, nil
}

func (r *chessRules) Turn() chess.Color {
	return r.game.Position().Turn()
}

func (r *chessRules) GameOver() bool {
	return r.game.Outcome() != chess.NoOutcome
}

func (r *chessRules) Checkmate() bool {
	return r.game.Method() == chess.Checkmate
}

func (r *chessRules) Draw() bool {
	return r.game.Outcome() == chess.Draw
}

func (r *chessRules) Check() bool {
	moves := r.game.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

func (r *chessRules) Move(req MoveRequest) *chess.Move {
	for _, m := range r.game.ValidMoves() {
		if m.S1().String() != req.From || m.S2().String() != req.To || m.Promo() != req.Promotion {
			continue
		}
		if err := r.game.Move(m); err != nil {
			return nil
		}
		return m
	}
	return nil
}

// Undo takes back the last move by replaying the game without it.
func (r *chessRules) Undo() {
	moves := r.game.Moves()
	if len(moves) == 0 {
		return
	}
	game := chess.NewGame(r.start)
	for _, m := range moves[:len(moves)-1] {
		if err := game.Move(m); err != nil {
			return
		}
	}
	r.game = game
}

func (r *chessRules) FEN() string {
	return r.game.FEN()
}
