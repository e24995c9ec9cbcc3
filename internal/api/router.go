package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Info("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// NewRouter mounts the REST API. jobs and ws may be nil.
func NewRouter(logger *zap.Logger, sessions *SessionApi, puzzles *PuzzleApi, jobs *JobApi, ws http.Handler) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	s := r.Group("/sessions")
	s.POST("", sessions.Create)
	s.GET("/:id", sessions.Get)
	s.DELETE("/:id", sessions.Delete)
	s.POST("/:id/drag-start", sessions.DragStart)
	s.POST("/:id/drop", sessions.Drop)
	s.POST("/:id/snap-end", sessions.SnapEnd)
	s.POST("/:id/skip", sessions.Skip)

	r.GET("/puzzles/count", puzzles.Count)
	r.GET("/puzzles/random", puzzles.Random)

	if jobs != nil {
		r.POST("/jobs/:username", jobs.Start)
		r.GET("/jobs/:job_id", jobs.Status)
	}
	if ws != nil {
		r.GET("/ws", gin.WrapH(ws))
	}
	return r
}
