package puzgen

import (
	"github.com/freeeve/uci"
)

func compareResults(baseRes uci.ScoreResult, cmpRes uci.ScoreResult) bool {
	if baseRes.Mate {
		return cmpRes.Mate && baseRes.Score == cmpRes.Score
	}
	return baseRes.Score-cmpRes.Score <= 50
}

func filterResults(results []uci.ScoreResult) []uci.ScoreResult {
	baseRes := results[0]
	filteredResults := make([]uci.ScoreResult, 0)
	for _, item := range results {
		if compareResults(baseRes, item) {
			filteredResults = append(filteredResults, item)
		}
	}
	return filteredResults
}

// GeneratePuzzleFromPosition analyses fen and returns a checkmate puzzle when
// the side to move has a forced mate short enough to be kept. Positions already
// present in watchedPositions are skipped; fen is added to it.
func GeneratePuzzleFromPosition(a Analyzer, fen string, opts Options, watchedPositions map[string]bool) (Puzzle, bool, error) {
	if watchedPositions[fen] {
		return Puzzle{}, false, nil
	}
	watchedPositions[fen] = true

	result, err := a.Analyse(fen, opts.depth())
	if err != nil {
		return Puzzle{}, false, err
	}
	if result == nil || len(result.Results) == 0 {
		return Puzzle{}, false, nil
	}

	best := result.Results[0]
	if !best.Mate || best.Score < 1 {
		return Puzzle{}, false, nil
	}
	if opts.Unique && len(filterResults(result.Results)) > 1 {
		return Puzzle{}, false, nil
	}

	moves := best.BestMoves
	if len(moves) == 0 || len(moves) > opts.maxComplexity() || len(moves)%2 == 0 {
		return Puzzle{}, false, nil
	}
	for _, m := range moves {
		if !ValidMove(m) {
			return Puzzle{}, false, nil
		}
	}
	if mate, err := CheckSolution(fen, moves); err != nil || !mate {
		return Puzzle{}, false, nil
	}

	solution := make([]string, len(moves))
	copy(solution, moves)
	return Puzzle{
		FEN:        fen,
		Solution:   solution,
		Type:       TypeCheckmate,
		Complexity: len(solution),
	}, true, nil
}
