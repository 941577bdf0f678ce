package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Fixed file and column conventions of the Billboard dataset.
const (
	DefaultInputPath    = "Billboard_Lists_1960-01-01_2024-02-23.csv"
	DefaultOutputPath   = "Billboard_Lyrics_1960-01-01_2024-02-23_Part9.csv"
	DefaultArtistColumn = "Artist_Name"
	DefaultTitleColumn  = "Song"
	DefaultLyricsColumn = "Lyrics"

	DefaultGeniusAPIURL = "https://api.genius.com"
)

var ErrMissingToken = errors.New("GENIUS_ACCESS_TOKEN not set")

type Config struct {
	InputPath    string
	OutputPath   string
	ArtistColumn string
	TitleColumn  string
	LyricsColumn string

	GeniusToken        string
	GeniusAPIURL       string
	GeniusHTTPTimeout  time.Duration
	GeniusPingMaxRetry time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load() // loads .env

	cfg := Config{
		InputPath:    envOr("INPUT_PATH", DefaultInputPath),
		OutputPath:   envOr("OUTPUT_PATH", DefaultOutputPath),
		ArtistColumn: envOr("ARTIST_COLUMN", DefaultArtistColumn),
		TitleColumn:  envOr("TITLE_COLUMN", DefaultTitleColumn),
		LyricsColumn: envOr("LYRICS_COLUMN", DefaultLyricsColumn),
		GeniusToken:  os.Getenv("GENIUS_ACCESS_TOKEN"),
		GeniusAPIURL: envOr("GENIUS_API_URL", DefaultGeniusAPIURL),
	}

	var err error
	if cfg.GeniusHTTPTimeout, err = durationOr("GENIUS_HTTP_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.GeniusPingMaxRetry, err = durationOr("GENIUS_PING_MAX_ELAPSED", 30*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.GeniusToken == "" {
		return cfg, ErrMissingToken
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationOr(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", k, err)
	}
	return d, nil
}
