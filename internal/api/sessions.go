package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many live sessions")
)

// SessionLimits bounds the sessions kept in memory. Zero values disable
// the corresponding limit.
type SessionLimits struct {
	MaxSessions int
	IdleTimeout time.Duration
}

type liveSession struct {
	mu    sync.Mutex
	ctrl  *session.Controller
	board *session.Mirror

	// guarded by SessionApi.mu
	lastUsed time.Time
}

func (s *liveSession) view() session.View {
	return s.ctrl.View(s.board)
}

// SessionApi exposes puzzle sessions to a remote board widget. Every call on
// a session is serialized by the session mutex.
type SessionApi struct {
	puzzles  session.Puzzles
	limits   SessionLimits
	opts     []session.Option
	logger   *zap.Logger
	now      func() time.Time
	sessions map[string]*liveSession
	mu       sync.Mutex
}

func NewSessionApi(puzzles session.Puzzles, limits SessionLimits, logger *zap.Logger, opts ...session.Option) *SessionApi {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionApi{
		puzzles:  puzzles,
		limits:   limits,
		opts:     append([]session.Option{session.WithLogger(logger)}, opts...),
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*liveSession),
	}
}

type sessionResponse struct {
	ID    string       `json:"id"`
	State session.View `json:"state"`
}

type dragStartRequest struct {
	Piece string `json:"piece" binding:"required"`
}

type dropRequest struct {
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
}

type dropResponse struct {
	Result session.DropResult `json:"result"`
	State  session.View       `json:"state"`
}

func (a *SessionApi) lookup(ctx *gin.Context) (*liveSession, bool) {
	id := ctx.Param("id")
	a.mu.Lock()
	s, ok := a.sessions[id]
	if ok {
		s.lastUsed = a.now()
	}
	a.mu.Unlock()
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": ErrSessionNotFound.Error(),
		})
		return nil, false
	}
	return s, true
}

func (a *SessionApi) Create(ctx *gin.Context) {
	if a.puzzles.Len() == 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "no puzzles loaded",
		})
		return
	}

	board := &session.Mirror{}
	ctrl, err := session.NewController(a.puzzles, board, a.opts...)
	if err != nil {
		a.logger.Error("cannot start session", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	s := &liveSession{ctrl: ctrl, board: board}
	id := uuid.NewString()
	view := s.view()

	a.mu.Lock()
	now := a.now()
	a.evictIdle(now)
	if a.limits.MaxSessions > 0 && len(a.sessions) >= a.limits.MaxSessions {
		a.mu.Unlock()
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": ErrTooManySessions.Error(),
		})
		return
	}
	s.lastUsed = now
	a.sessions[id] = s
	a.mu.Unlock()

	a.logger.Debug("session created", zap.String("session", id))
	ctx.JSON(http.StatusCreated, sessionResponse{ID: id, State: view})
}

func (a *SessionApi) Get(ctx *gin.Context) {
	s, ok := a.lookup(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusOK, s.view())
}

func (a *SessionApi) DragStart(ctx *gin.Context) {
	var req dragStartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	s, ok := a.lookup(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusOK, gin.H{
		"allowed": s.ctrl.DragStart(req.Piece),
	})
}

func (a *SessionApi) Drop(ctx *gin.Context) {
	var req dropRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	s, ok := a.lookup(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.ctrl.Drop(req.Source, req.Target)
	ctx.JSON(http.StatusOK, dropResponse{Result: res, State: s.view()})
}

func (a *SessionApi) SnapEnd(ctx *gin.Context) {
	s, ok := a.lookup(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.SnapEnd()
	ctx.JSON(http.StatusOK, s.view())
}

func (a *SessionApi) Skip(ctx *gin.Context) {
	s, ok := a.lookup(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Skip()
	ctx.JSON(http.StatusOK, s.view())
}

func (a *SessionApi) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	a.mu.Lock()
	_, ok := a.sessions[id]
	delete(a.sessions, id)
	a.mu.Unlock()
	if !ok {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// evictIdle drops sessions unused for longer than the idle timeout. Callers
// hold a.mu.
func (a *SessionApi) evictIdle(now time.Time) {
	if a.limits.IdleTimeout <= 0 {
		return
	}
	for id, s := range a.sessions {
		if now.Sub(s.lastUsed) > a.limits.IdleTimeout {
			delete(a.sessions, id)
			a.logger.Debug("session evicted", zap.String("session", id))
		}
	}
}
