package api

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/dao"
	"github.com/gmkornilov/chess-puzzle-trainer/internal/puzzle"
)

type PuzzleApi struct {
	Store *puzzle.Store
	// Repository is optional; when set, counts and random puzzles come from it.
	Repository dao.PuzzleRepository
}

func (p *PuzzleApi) Count(ctx *gin.Context) {
	if p.Repository != nil {
		n, err := p.Repository.Count(ctx.Request.Context())
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"count": n,
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"count": p.Store.Len(),
	})
}

func (p *PuzzleApi) Random(ctx *gin.Context) {
	if p.Repository != nil {
		pz, err := p.Repository.GetRandomPuzzle(ctx.Request.Context())
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusOK, pz)
		return
	}

	n := p.Store.Len()
	if n == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": puzzle.ErrEmptyStore.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, p.Store.At(rand.Intn(n)))
}
