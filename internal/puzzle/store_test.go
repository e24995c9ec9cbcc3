package puzzle

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
)

func TestEmbeddedDatasetIsSolvable(t *testing.T) {
	puzzles, err := Embedded()
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if len(puzzles) == 0 {
		t.Fatalf("embedded dataset is empty")
	}
	for _, p := range puzzles {
		mate, err := puzgen.CheckSolution(p.FEN, p.Solution)
		if err != nil {
			t.Fatalf("%s: %v", p.UUID, err)
		}
		if !mate {
			t.Fatalf("%s: solution does not end in checkmate", p.UUID)
		}
		if p.Complexity != len(p.Solution) {
			t.Fatalf("%s: complexity %d, solution length %d", p.UUID, p.Complexity, len(p.Solution))
		}
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":    `{`,
		"empty":       `[]`,
		"bad fen":     `[{"puzzle-fen": "nonsense", "puzzle-solution": ["e2e4"]}]`,
		"no solution": `[{"puzzle-fen": "6rk/6pp/8/6N1/8/8/8/6K1 w - - 0 1", "puzzle-solution": []}]`,
		"bad move":    `[{"puzzle-fen": "6rk/6pp/8/6N1/8/8/8/6K1 w - - 0 1", "puzzle-solution": ["g5-f7"]}]`,
	}
	for name, in := range cases {
		if _, err := Load(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := Load(strings.NewReader(`[]`)); !errors.Is(err, ErrEmptyStore) {
		t.Fatalf("expected ErrEmptyStore, got %v", err)
	}
}

func TestValidateAllNamesBadRecord(t *testing.T) {
	puzzles := []puzgen.Puzzle{
		{UUID: "ok", FEN: "6rk/6pp/8/6N1/8/8/8/6K1 w - - 0 1", Solution: []string{"g5f7"}},
		{UUID: "broken", FEN: "not a fen", Solution: []string{"e2e4"}},
	}
	err := ValidateAll(puzzles)
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected error naming the broken record, got %v", err)
	}
	if err := ValidateAll(puzzles[:1]); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
	if err := ValidateAll(nil); err != nil {
		t.Fatalf("empty slice: %v", err)
	}
}

func TestStoreAddAndWriteFile(t *testing.T) {
	puzzles, err := Embedded()
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	s := NewStore(puzzles[:1])
	s.Add(puzzles[1:]...)
	if s.Len() != len(puzzles) {
		t.Fatalf("expected %d puzzles, got %d", len(puzzles), s.Len())
	}
	if s.At(1).UUID != puzzles[1].UUID {
		t.Fatalf("unexpected order: %s", s.At(1).UUID)
	}

	path := filepath.Join(t.TempDir(), "puzzles.json")
	if err := WriteFile(path, s.All()); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(loaded) != len(puzzles) || loaded[0].FEN != puzzles[0].FEN {
		t.Fatalf("reloaded dataset differs")
	}
}
