package ws

import (
	"context"
	"net/http"

	"github.com/gmkornilov/chess-puzzle-trainer/internal/session"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type Config struct {
	// OriginPatterns lists extra hosts allowed to open a connection.
	OriginPatterns []string
}

// Server is an HTTP handler that upgrades to a websocket. Each connection
// plays its own puzzle session; events are handled in arrival order.
type Server struct {
	cfg     Config
	puzzles session.Puzzles
	opts    []session.Option
	logger  *zap.Logger
}

func NewServer(cfg Config, puzzles session.Puzzles, logger *zap.Logger, opts ...session.Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		puzzles: puzzles,
		opts:    append([]session.Option{session.WithLogger(logger)}, opts...),
		logger:  logger,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.puzzles.Len() == 0 {
		http.Error(w, "no puzzles loaded", http.StatusServiceUnavailable)
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.cfg.OriginPatterns})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	if err := s.serve(r.Context(), conn); err != nil {
		status := websocket.CloseStatus(err)
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}
		s.logger.Debug("websocket session ended", zap.Error(err))
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn) error {
	board := &session.Mirror{}
	ctrl, err := session.NewController(s.puzzles, board, s.opts...)
	if err != nil {
		s.logger.Error("cannot start session", zap.Error(err))
		_ = wsjson.Write(ctx, conn, ServerMsg{Type: "error", Code: "no_puzzle"})
		return err
	}

	state := func() *session.View {
		v := ctrl.View(board)
		return &v
	}

	if err := wsjson.Write(ctx, conn, ServerMsg{Type: "state", State: state()}); err != nil {
		return err
	}
	for {
		var msg ClientMsg
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		var reply ServerMsg
		switch msg.Type {
		case "drag_start":
			allowed := ctrl.DragStart(msg.Piece)
			reply = ServerMsg{Type: "drag", Allowed: &allowed}
		case "drop":
			res := ctrl.Drop(msg.Source, msg.Target)
			reply = ServerMsg{Type: "drop", Result: res, State: state()}
		case "snap_end":
			ctrl.SnapEnd()
			reply = ServerMsg{Type: "state", State: state()}
		case "skip":
			ctrl.Skip()
			reply = ServerMsg{Type: "state", State: state()}
		default:
			reply = ServerMsg{Type: "error", Code: "unknown_type"}
		}
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			return err
		}
	}
}
