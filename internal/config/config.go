// Package config loads settings from defaults, an optional config file and
// SPRINTDESK_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "SPRINTDESK"

type Config struct {
	DB    DBConfig
	HTTP  HTTPConfig
	Log   LogConfig
	Board BoardConfig
}

type DBConfig struct {
	Path string
}

type HTTPConfig struct {
	Addr string
}

type LogConfig struct {
	Level  string
	Format string
}

type BoardConfig struct {
	TasksPerColumn int
	BacklogLimit   int
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".sprintdesk", "sprintdesk.db")
	}
	return filepath.Join(home, ".sprintdesk", "sprintdesk.db")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("db.path", defaultDBPath())
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("board.tasks_per_column", 5)
	v.SetDefault("board.backlog_limit", 10)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. An explicit path must exist; without one a
// sprintdesk.{toml,yaml,json} in the working directory or ~/.sprintdesk is
// used when present.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sprintdesk")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sprintdesk"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{
		DB:   DBConfig{Path: v.GetString("db.path")},
		HTTP: HTTPConfig{Addr: v.GetString("http.addr")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Board: BoardConfig{
			TasksPerColumn: v.GetInt("board.tasks_per_column"),
			BacklogLimit:   v.GetInt("board.backlog_limit"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return errors.New("db.path must not be empty")
	}
	if c.Board.TasksPerColumn <= 0 {
		return fmt.Errorf("board.tasks_per_column must be positive, got %d", c.Board.TasksPerColumn)
	}
	if c.Board.BacklogLimit <= 0 {
		return fmt.Errorf("board.backlog_limit must be positive, got %d", c.Board.BacklogLimit)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// NewLogger builds the process logger. stdout carries the MCP transport, so
// callers pass stderr.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
