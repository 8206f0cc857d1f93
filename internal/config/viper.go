// Package config provides Viper-backed configuration helpers. Values
// come from environment variables, .env files loaded at startup, and
// any config file Viper was pointed at.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Environment variable keys the engine and server read.
const (
	KeyHost         = "MEDGUIDE_HOST"
	KeyPort         = "MEDGUIDE_PORT"
	KeyCollection   = "MEDGUIDE_COLLECTION"
	KeyAPIKey       = "MEDGUIDE_API_KEY"
	KeyIdentity     = "MEDGUIDE_IDENTITY"
	KeyGeminiAPIKey = "GEMINI_API_KEY"
)

// GetString reads a string value, checking both the OS environment and
// Viper configuration. Viper wins when both are set.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GetStringDefault reads a string value, falling back to def when
// unset.
func GetStringDefault(key, def string) string {
	if v := GetString(key); v != "" {
		return v
	}
	return def
}

// GeminiAPIKey returns the configured Gemini API key, empty when the
// drafter is unavailable.
func GeminiAPIKey() string {
	return GetString(KeyGeminiAPIKey)
}
