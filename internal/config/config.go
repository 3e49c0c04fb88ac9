package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/YusovID/pr-dashboard/internal/validation"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	Postgres Postgres `yaml:"postgres"`
	Server   Server   `yaml:"server"`
	GitHub   GitHub   `yaml:"github"`
	Sync     Sync     `yaml:"sync"`
}

type Postgres struct {
	Username        string        `env:"POSTGRES_USER" env-required:"true"`
	Password        string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port            string        `env:"POSTGRES_PORT" env-required:"true"`
	Database        string        `env:"POSTGRES_DB" env-required:"true"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env-default:"1m"`
}

type Server struct {
	Host    string        `yaml:"host" env-default:"localhost"`
	Port    string        `yaml:"port" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

type GitHub struct {
	Token   string `env:"GITHUB_TOKEN" env-required:"true" validate:"required"`
	BaseURL string `yaml:"base_url" env:"GITHUB_BASE_URL" env-default:"https://api.github.com/" validate:"required,url"`
	// PageSize bounds every list call; only the first page is ever fetched.
	PageSize int `yaml:"page_size" env-default:"100" validate:"min=1,max=100"`
	// Workers is the number of review-fetch units per batch. Zero means GOMAXPROCS.
	Workers int           `yaml:"workers" env-default:"0" validate:"min=0"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

type Sync struct {
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"5s"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := validation.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}
