package session

import (
	"testing"

	"github.com/notnil/chess"
)

func TestChessRulesMoveAndUndo(t *testing.T) {
	r, err := NewChessRules(rooksFEN)
	if err != nil {
		t.Fatalf("new rules: %v", err)
	}
	start := r.FEN()

	if m := r.Move(MoveRequest{From: "d2", To: "d9"}); m != nil {
		t.Fatalf("move to a non-square was accepted")
	}
	if m := r.Move(MoveRequest{From: "d2", To: "e3"}); m != nil {
		t.Fatalf("illegal rook move was accepted")
	}

	m := r.Move(MoveRequest{From: "d2", To: "d8"})
	if m == nil {
		t.Fatalf("Rd8 rejected")
	}
	if !r.Check() || r.Turn() != chess.Black || r.GameOver() {
		t.Fatalf("expected black in check, game on")
	}

	r.Undo()
	if r.FEN() != start || r.Check() || r.Turn() != chess.White {
		t.Fatalf("undo did not restore start, got %q", r.FEN())
	}
	r.Undo()
	if r.FEN() != start {
		t.Fatalf("undo on an empty history changed the position")
	}
}

func TestChessRulesCheckmate(t *testing.T) {
	r, err := NewChessRules(promotionFEN)
	if err != nil {
		t.Fatalf("new rules: %v", err)
	}
	if m := r.Move(MoveRequest{From: "e7", To: "e8"}); m != nil {
		t.Fatalf("promotion without a piece must be illegal")
	}
	if m := r.Move(MoveRequest{From: "e7", To: "e8", Promotion: chess.Queen}); m == nil {
		t.Fatalf("e8=Q rejected")
	}
	if !r.Checkmate() || !r.GameOver() || r.Draw() {
		t.Fatalf("expected checkmate")
	}
}

func TestNewChessRulesBadFEN(t *testing.T) {
	if _, err := NewChessRules("not a position"); err == nil {
		t.Fatalf("expected error")
	}
}
