package puzgen

import (
	"encoding/json"
	"fmt"

	"github.com/notnil/chess"
)

const TypeCheckmate = "checkmate"

// Puzzle is one dataset entry: a start position and the moves that solve it.
// Moves are in UCI long algebraic form, e.g. "e2e4" or "e7e8q".
type Puzzle struct {
	UUID       string   `json:"puzzle-uuid" bson:"uuid"`
	FEN        string   `json:"puzzle-fen" bson:"fen"`
	Solution   []string `json:"puzzle-solution" bson:"solution"`
	Type       string   `json:"puzzle_type" bson:"type"`
	Complexity int      `json:"puzzle-complexity" bson:"complexity"`
}

func (p Puzzle) String() string {
	j, _ := json.MarshalIndent(p, "", "\t")
	return string(j)
}

// ValidMove reports whether s is a 4 or 5 character move string:
// two squares optionally followed by a promotion piece letter.
func ValidMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if s[0] < 'a' || s[0] > 'h' || s[2] < 'a' || s[2] > 'h' {
		return false
	}
	if s[1] < '1' || s[1] > '8' || s[3] < '1' || s[3] > '8' {
		return false
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n':
		default:
			return false
		}
	}
	return true
}

// Validate checks that the record is well formed. It does not play the
// solution; use CheckSolution for that.
func (p Puzzle) Validate() error {
	if _, err := chess.FEN(p.FEN); err != nil {
		return fmt.Errorf("puzzle %q: %w", p.UUID, err)
	}
	if len(p.Solution) == 0 {
		return fmt.Errorf("puzzle %q: empty solution", p.UUID)
	}
	for i, m := range p.Solution {
		if !ValidMove(m) {
			return fmt.Errorf("puzzle %q: bad move %q at %d", p.UUID, m, i)
		}
	}
	return nil
}

// CheckSolution plays moves from fen and reports whether the final position
// is checkmate.
func CheckSolution(fen string, moves []string) (bool, error) {
	fenFunc, err := chess.FEN(fen)
	if err != nil {
		return false, err
	}
	game := chess.NewGame(fenFunc)
	for _, s := range moves {
		move, err := chess.UCINotation{}.Decode(game.Position(), s)
		if err != nil {
			return false, err
		}
		if err = game.Move(move); err != nil {
			return false, err
		}
	}
	return game.Method() == chess.Checkmate, nil
}
