package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage  Storage `yaml:"storage"`
	Redis    Redis   `yaml:"redis"`
	Game     Game    `yaml:"game"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"redis"`
}

type Redis struct {
	Host   string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port   string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Prefix string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"tictactoe:"`
}

type Game struct {
	// ThinkingDelay - pause before the computer's move is pushed to a websocket client.
	ThinkingDelay time.Duration `yaml:"thinking-delay" env:"GAME_THINKING_DELAY" env-default:"900ms"`
	// Seed - fixed seed for the computer's random choices, 0 seeds from the clock.
	Seed int64 `yaml:"seed" env:"GAME_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
