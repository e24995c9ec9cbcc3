package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gmkornilov/chess-puzzle-trainer/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

type PuzzleDbClient struct {
	client           *mongo.Client
	PuzzleCollection *mongo.Collection
}

func (r *PuzzleDbClient) Close() error {
	return r.client.Disconnect(context.TODO())
}

func NewDbClient(cfg *config.Configuration) (*PuzzleDbClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.Database.Address)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Database.Address, err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.TODO())
		return nil, fmt.Errorf("ping %s: %w", cfg.Database.Address, err)
	}

	collection := client.Database(cfg.Database.DatabaseName).Collection(cfg.Database.Collection)
	if collection == nil {
		_ = client.Disconnect(context.TODO())
		return nil, fmt.Errorf("can't resolve collection %s", cfg.Database.DatabaseName+"."+cfg.Database.Collection)
	}
	return &PuzzleDbClient{client: client, PuzzleCollection: collection}, nil
}
