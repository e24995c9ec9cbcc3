package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/gmkornilov/chess-puzzle-trainer/internal/db"
	"github.com/gmkornilov/chess-puzzle-trainer/pkg/puzgen"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

type PuzzleRepository interface {
	// All returns every stored puzzle in insertion order.
	All(ctx context.Context) ([]puzgen.Puzzle, error)

	InsertAll(ctx context.Context, puzzles []puzgen.Puzzle) error

	Count(ctx context.Context) (int64, error)

	GetRandomPuzzle(ctx context.Context) (puzgen.Puzzle, error)
}

type puzzleRepository struct {
	collection *mongo.Collection
}

func NewPuzzleRepository(dbClient *db.PuzzleDbClient) PuzzleRepository {
	return &puzzleRepository{dbClient.PuzzleCollection}
}

func (p *puzzleRepository) All(ctx context.Context) ([]puzgen.Puzzle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := p.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var puzzles []puzgen.Puzzle
	if err = cur.All(ctx, &puzzles); err != nil {
		return nil, err
	}
	return puzzles, nil
}

func (p *puzzleRepository) InsertAll(ctx context.Context, puzzles []puzgen.Puzzle) error {
	if len(puzzles) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(puzzles))
	for _, puzzle := range puzzles {
		docs = append(docs, puzzle)
	}
	_, err := p.collection.InsertMany(ctx, docs)
	return err
}

func (p *puzzleRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return p.collection.CountDocuments(ctx, bson.D{})
}

func (p *puzzleRepository) GetRandomPuzzle(ctx context.Context) (puzgen.Puzzle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sampleStage := bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}}

	cursor, err := p.collection.Aggregate(ctx, mongo.Pipeline{sampleStage})
	if err != nil {
		return puzgen.Puzzle{}, err
	}

	var loaded []puzgen.Puzzle
	if err = cursor.All(ctx, &loaded); err != nil {
		return puzgen.Puzzle{}, err
	}
	if len(loaded) != 1 {
		return puzgen.Puzzle{}, fmt.Errorf("aggregate with $sample size 1 returned %d puzzles", len(loaded))
	}
	return loaded[0], nil
}
