package api

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/scraper"
	"github.com/google/uuid"
)

// JobCreator builds a generation worker for a chess.com user.
type JobCreator interface {
	CreateJob(username string, games int) *scraper.GenerationJob
}

type JobApi struct {
	factory    JobCreator
	activeJobs map[string]scraper.Worker
	mu         sync.RWMutex
}

func NewJobApi(factory JobCreator) *JobApi {
	return &JobApi{
		factory:    factory,
		activeJobs: make(map[string]scraper.Worker),
	}
}

func (j *JobApi) Start(ctx *gin.Context) {
	name := ctx.Param("username")
	gamesStr := ctx.DefaultQuery("games", "100")
	games, err := strconv.Atoi(gamesStr)
	if err != nil || games <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "games should be positive integer",
		})
		return
	}

	worker := j.factory.CreateJob(name, games)
	id := uuid.NewString()

	j.mu.Lock()
	j.activeJobs[id] = worker
	j.mu.Unlock()

	worker.StartWork()
	ctx.JSON(http.StatusAccepted, gin.H{
		"job_id": id,
	})
}

func (j *JobApi) Status(ctx *gin.Context) {
	id := ctx.Param("job_id")
	j.mu.Lock()
	defer j.mu.Unlock()
	worker, ok := j.activeJobs[id]
	if !ok {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	if !worker.Done() {
		ctx.JSON(http.StatusOK, gin.H{
			"done":     false,
			"progress": worker.Progress(),
		})
		return
	}

	delete(j.activeJobs, id)
	if worker.Error() != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"done":  true,
			"error": worker.Error().Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"done":   true,
		"result": worker.Result(),
	})
}
