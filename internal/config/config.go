// Package config holds the game server configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the settings the server is started with.
type Config struct {
	Addr                string        // listen address, e.g. ":3000"
	AllowedOrigins      []string      // CORS and websocket origins
	MatchmakingInterval time.Duration // how often queued players are paired
	ReadBufferSize      int           // websocket read buffer
	WriteBufferSize     int           // websocket write buffer
}

// Default returns the configuration used for local development.
func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      []string{"http://localhost:5173"},
		MatchmakingInterval: time.Second,
		ReadBufferSize:      1024,
		WriteBufferSize:     1024,
	}
}

// FromEnv starts from Default and applies CHESS_ADDR,
// CHESS_ALLOWED_ORIGINS (comma separated) and CHESS_MATCHMAKING_INTERVAL.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if v, ok := lookup("CHESS_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CHESS_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.AllowedOrigins = splitOrigins(v)
	}
	if v, ok := lookup("CHESS_MATCHMAKING_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("CHESS_MATCHMAKING_INTERVAL: %w", err)
		}
		cfg.MatchmakingInterval = d
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("matchmaking interval must be positive, got %s", c.MatchmakingInterval)
	}
	if c.ReadBufferSize <= 0 || c.WriteBufferSize <= 0 {
		return fmt.Errorf("websocket buffer sizes must be positive")
	}
	return nil
}

// OriginList joins the allowed origins the way cors.Config expects them.
func (c Config) OriginList() string {
	return strings.Join(c.AllowedOrigins, ", ")
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
