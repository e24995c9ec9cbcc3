package puzzle

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
)

//go:embed assets/puzzles.json
var assets embed.FS

var ErrEmptyStore = errors.New("puzzle store is empty")

// Store is an ordered in-memory puzzle sequence. Puzzles are only appended,
// so an index stays valid for the lifetime of the store.
type Store struct {
	mu      sync.RWMutex
	puzzles []puzgen.Puzzle
}

func NewStore(puzzles []puzgen.Puzzle) *Store {
	s := &Store{puzzles: make([]puzgen.Puzzle, len(puzzles))}
	copy(s.puzzles, puzzles)
	return s
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.puzzles)
}

func (s *Store) At(i int) puzgen.Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puzzles[i]
}

func (s *Store) Add(puzzles ...puzgen.Puzzle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puzzles = append(s.puzzles, puzzles...)
}

func (s *Store) All() []puzgen.Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]puzgen.Puzzle, len(s.puzzles))
	copy(res, s.puzzles)
	return res
}

// Load decodes a JSON array of puzzles and validates every record.
func Load(r io.Reader) ([]puzgen.Puzzle, error) {
	var puzzles []puzgen.Puzzle
	if err := json.NewDecoder(r).Decode(&puzzles); err != nil {
		return nil, fmt.Errorf("decode puzzles: %w", err)
	}
	if len(puzzles) == 0 {
		return nil, ErrEmptyStore
	}
	if err := ValidateAll(puzzles); err != nil {
		return nil, err
	}
	return puzzles, nil
}

// ValidateAll checks every record, for datasets that do not come through Load.
func ValidateAll(puzzles []puzgen.Puzzle) error {
	for i, p := range puzzles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("puzzle %d: %w", i, err)
		}
	}
	return nil
}

func LoadFile(path string) ([]puzgen.Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Embedded returns the dataset bundled with the binary.
func Embedded() ([]puzgen.Puzzle, error) {
	f, err := assets.Open("assets/puzzles.json")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// WriteFile stores puzzles in the dataset format.
func WriteFile(path string, puzzles []puzgen.Puzzle) error {
	j, err := json.MarshalIndent(puzzles, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, j, 0o644)
}
