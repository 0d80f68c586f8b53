// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env
// struct tags. Validates required fields and rejects placeholder credentials
// so a half-configured relay refuses to start instead of half-working.
package config
