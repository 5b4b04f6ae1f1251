package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings
type Config struct {
	ServerAddress   string
	JWTSecret       string
	RulesURL        string
	StorePath       string
	TimetablePath   string
	MQTTBroker      string
	ScreenID        string
	RefreshInterval time.Duration
}

// Load reads configuration from a local .env file (if present) and the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	rulesURL := os.Getenv("RULES_URL")
	if rulesURL == "" {
		return nil, fmt.Errorf("RULES_URL is required")
	}
	jwt := os.Getenv("JWT_SECRET")
	if jwt == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	storePath := os.Getenv("STORE_PATH")
	if storePath == "" {
		storePath = "./minaret.db"
	}
	timetable := os.Getenv("TIMETABLE_PATH")
	if timetable == "" {
		timetable = "./data/prayer_times.csv"
	}
	screenID := os.Getenv("SCREEN_ID")
	if screenID == "" {
		screenID = "main-hall"
	}
	refresh := time.Hour
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
		}
		refresh = d
	}
	return &Config{
		ServerAddress:   addr,
		JWTSecret:       jwt,
		RulesURL:        rulesURL,
		StorePath:       storePath,
		TimetablePath:   timetable,
		MQTTBroker:      os.Getenv("MQTT_BROKER"), // empty runs the in-memory surface
		ScreenID:        screenID,
		RefreshInterval: refresh,
	}, nil
}
