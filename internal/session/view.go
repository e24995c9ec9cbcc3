package session

// View is the JSON snapshot transports send to the widget.
type View struct {
	PuzzleIndex int         `json:"puzzle_index"`
	PuzzleUUID  string      `json:"puzzle_uuid,omitempty"`
	MoveIndex   int         `json:"move_index"`
	Turn        Orientation `json:"turn"`
	Orientation Orientation `json:"orientation"`
	Position    string      `json:"position"`
	FEN         string      `json:"fen"`
	Status      string      `json:"status"`
	GameOver    bool        `json:"game_over"`
}

// View reports the controller state together with what board displays.
func (c *Controller) View(board *Mirror) View {
	return View{
		PuzzleIndex: c.state.PuzzleIndex,
		PuzzleUUID:  c.state.Puzzle.UUID,
		MoveIndex:   c.state.MoveIndex,
		Turn:        orientationFor(c.rules.Turn()),
		Orientation: board.Orientation,
		Position:    board.Position,
		FEN:         c.rules.FEN(),
		Status:      c.Status(),
		GameOver:    c.rules.GameOver(),
	}
}
