package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gmkornilov/chess-puzzle-trainer/internal/puzzle"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/session"
	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	scholarFEN = "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	foolFEN    = "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
)

// helper to make ws:// URL from httptest server
func wsURLFromHTTP(u string) string {
	return "ws" + strings.TrimPrefix(u, "http")
}

func TestWS_SolveAndNextPuzzle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store := puzzle.NewStore([]puzgen.Puzzle{
		{UUID: "scholar", FEN: scholarFEN, Solution: []string{"h5f7"}},
		{UUID: "fool", FEN: foolFEN, Solution: []string{"d8h4"}},
	})
	next := 0
	pick := session.WithIndexSource(func(n int) int {
		i := next % n
		next++
		return i
	})
	ts := httptest.NewServer(NewServer(Config{}, store, nil, pick))
	defer ts.Close()

	c, _, err := websocket.Dial(ctx, wsURLFromHTTP(ts.URL), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "bye")

	var msg ServerMsg
	if err := wsjson.Read(ctx, c, &msg); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if msg.Type != "state" || msg.State == nil || msg.State.Position != scholarFEN {
		t.Fatalf("unexpected initial message %+v", msg)
	}

	send := func(m ClientMsg) ServerMsg {
		t.Helper()
		if err := wsjson.Write(ctx, c, m); err != nil {
			t.Fatalf("write %s: %v", m.Type, err)
		}
		var reply ServerMsg
		if err := wsjson.Read(ctx, c, &reply); err != nil {
			t.Fatalf("read reply to %s: %v", m.Type, err)
		}
		return reply
	}

	reply := send(ClientMsg{Type: "drag_start", Piece: "bQ"})
	if reply.Type != "drag" || reply.Allowed == nil || *reply.Allowed {
		t.Fatalf("black queen should not be draggable: %+v", reply)
	}

	reply = send(ClientMsg{Type: "drop", Source: "h5", Target: "h6"})
	if reply.Result != session.Snapback || reply.State.MoveIndex != 0 {
		t.Fatalf("expected snapback, got %+v", reply)
	}

	reply = send(ClientMsg{Type: "drop", Source: "h5", Target: "f7"})
	if reply.Result != session.Accepted {
		t.Fatalf("expected accepted, got %+v", reply)
	}
	if reply.State.PuzzleUUID != "fool" || reply.State.Orientation != session.OrientationBlack {
		t.Fatalf("expected the next puzzle after mate, got %+v", reply.State)
	}

	reply = send(ClientMsg{Type: "skip"})
	if reply.Type != "state" || reply.State.PuzzleUUID != "scholar" {
		t.Fatalf("skip: %+v", reply)
	}

	reply = send(ClientMsg{Type: "resign"})
	if reply.Type != "error" || reply.Code != "unknown_type" {
		t.Fatalf("unknown message: %+v", reply)
	}
}

func TestWS_BrokenPuzzleReportsError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store := puzzle.NewStore([]puzgen.Puzzle{
		{UUID: "broken", FEN: "not a fen", Solution: []string{"e2e4"}},
	})
	ts := httptest.NewServer(NewServer(Config{}, store, nil))
	defer ts.Close()

	c, _, err := websocket.Dial(ctx, wsURLFromHTTP(ts.URL), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "bye")

	var msg ServerMsg
	if err := wsjson.Read(ctx, c, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" || msg.Code != "no_puzzle" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if err := wsjson.Read(ctx, c, &msg); websocket.CloseStatus(err) != websocket.StatusInternalError {
		t.Fatalf("expected internal error close, got %v", err)
	}
}
