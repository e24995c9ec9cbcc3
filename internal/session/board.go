package session

import "github.com/notnil/chess"

type Orientation string

const (
	OrientationWhite Orientation = "white"
	OrientationBlack Orientation = "black"
)

func orientationFor(c chess.Color) Orientation {
	if c == chess.Black {
		return OrientationBlack
	}
	return OrientationWhite
}

// Board is the part of the board widget the controller drives.
type Board interface {
	SetPosition(fen string)
	SetOrientation(o Orientation)
}

// Mirror is the server side copy of what a remote widget must display.
type Mirror struct {
	Position    string      `json:"position"`
	Orientation Orientation `json:"orientation"`
}

func (m *Mirror) SetPosition(fen string) {
	m.Position = fen
}

func (m *Mirror) SetOrientation(o Orientation) {
	m.Orientation = o
}
