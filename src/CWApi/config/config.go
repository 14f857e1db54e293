package config

import (
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/data"
)

type Config struct {
	Port          string
	RedisURL      string
	JWTSecret     string
	ModerationURL string
	FrontendURL   string
}

func Load(db *gorm.DB) Config {
	// Load settings from database
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	// Get values from database with env fallbacks
	moderationURL := data.GetSetting("moderation_url")
	if moderationURL == "" {
		moderationURL = os.Getenv("MODERATION_URL")
	}

	frontendURL := data.GetSetting("frontend_url")
	if frontendURL == "" {
		frontendURL = getenv("FRONTEND_URL", "http://localhost:3000")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET is not set")
	}

	return Config{
		Port:          getenv("PORT", "8080"),
		RedisURL:      getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:     jwtSecret,
		ModerationURL: moderationURL,
		FrontendURL:   frontendURL,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
