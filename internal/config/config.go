package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrInvalidBoardSize = errors.New("invalid game board size")

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Game     Game   `yaml:"game"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Game struct {
	BoardSize     int           `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"3"`
	MaxBoardSize  int           `yaml:"max-board-size" env:"GAME_MAX_BOARD_SIZE" env-default:"64"`
	FreeTurnOrder bool          `yaml:"free-turn-order" env:"GAME_FREE_TURN_ORDER" env-default:"false"`
	MatchTTL      time.Duration `yaml:"match-ttl" env:"GAME_MATCH_TTL" env-default:"24h"`
	MoveRetries   int           `yaml:"move-retries" env:"GAME_MOVE_RETRIES" env-default:"5"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads the config file at path, applies env overrides and validates it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Game.BoardSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBoardSize, that.Game.BoardSize)
	}

	if that.Game.MaxBoardSize > tictactoe.MaxSize {
		return fmt.Errorf("%w: max %d exceeds the engine limit of %d", ErrInvalidBoardSize, that.Game.MaxBoardSize, tictactoe.MaxSize)
	}

	if that.Game.BoardSize > that.Game.MaxBoardSize {
		return fmt.Errorf("%w: default %d exceeds max %d", ErrInvalidBoardSize, that.Game.BoardSize, that.Game.MaxBoardSize)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
