package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceMongo    = "mongo"
)

type Configuration struct {
	Server struct {
		Host string `envconfig:"SERVER_HOST" default:""`
		Port string `envconfig:"SERVER_PORT" default:"8080"`
	}
	Sessions struct {
		Max         int           `envconfig:"MAX_SESSIONS" default:"10000"`
		IdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	}
	Database struct {
		Address      string `envconfig:"MONGO_ADDRESS" default:"mongodb://localhost:27017"`
		DatabaseName string `envconfig:"MONGO_DATABASE" default:"puzzles"`
		Collection   string `envconfig:"MONGO_COLLECTION" default:"checkmates"`
	}
	Stockfish struct {
		Path string   `envconfig:"STOCKFISH_PATH" default:"stockfish"`
		Args []string `envconfig:"STOCKFISH_ARGS"`
	}
	Puzzles struct {
		Source string `envconfig:"PUZZLE_SOURCE" default:"embedded"`
		File   string `envconfig:"PUZZLE_FILE" default:"puzzles.json"`
	}
	Generator struct {
		ChessComURL   string `envconfig:"CHESSCOM_URL" default:"https://api.chess.com"`
		Depth         int    `envconfig:"GENERATOR_DEPTH" default:"10"`
		MaxComplexity int    `envconfig:"GENERATOR_MAX_COMPLEXITY" default:"9"`
		Games         int    `envconfig:"GENERATOR_GAMES" default:"100"`
	}
	Log struct {
		Level       string `envconfig:"LOG_LEVEL" default:"info"`
		Development bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
	}
}

func InitConfig() (*Configuration, error) {
	cfg := &Configuration{}
	err := envconfig.Process("", cfg)
	return cfg, err
}

func (c *Configuration) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// NewLogger builds the process logger from the Log section.
func (c *Configuration) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
