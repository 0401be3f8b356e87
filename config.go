package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the environment configuration for the server. Values come from the
// process environment (optionally preloaded from .env by main).
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
}

// loadConfig reads configuration from environment variables via viper.
// DB_URL and JWT_SECRET are required; PORT defaults to 3001.
func loadConfig() (Config, error) {
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "3001")

	cfg := Config{
		DatabaseURL: viper.GetString("DB_URL"),
		JWTSecret:   viper.GetString("JWT_SECRET"),
		Port:        viper.GetString("PORT"),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DB_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}
