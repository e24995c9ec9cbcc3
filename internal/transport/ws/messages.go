package ws

import "github.com/gmkornilov/chess-puzzle-trainer/internal/session"

// ---- Client -> Server ----
type ClientMsg struct {
	Type   string `json:"type"`             // "drag_start" | "drop" | "snap_end" | "skip"
	Piece  string `json:"piece,omitempty"`  // for "drag_start"
	Source string `json:"source,omitempty"` // for "drop"
	Target string `json:"target,omitempty"` // for "drop"
}

// ---- Server -> Client ----
type ServerMsg struct {
	Type    string             `json:"type"` // "state" | "drag" | "drop" | "error"
	State   *session.View      `json:"state,omitempty"`
	Allowed *bool              `json:"allowed,omitempty"`
	Result  session.DropResult `json:"result,omitempty"`
	Code    string             `json:"code,omitempty"`
}
