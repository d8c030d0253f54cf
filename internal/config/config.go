/*
 * This file is part of ClarityMeet (https://github.com/claritymeet/claritymeet).
 * Copyright (C) 2025 ClarityMeet Contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingAPIKey indicates the required LLM credential is absent.
// This is the only configuration failure that halts the process.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config holds all configuration for the ClarityMeet hub
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	STT      STTConfig
	TTS      TTSConfig
	Playback PlaybackConfig
	Storage  StorageConfig
	NATS     NATSConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig holds language model gateway configuration
type LLMConfig struct {
	APIKey  string // Required secret; startup fails without it
	Model   string
	Timeout time.Duration
}

// STTConfig holds speech-to-text service configuration
type STTConfig struct {
	URL       string // REST API URL for an OpenAI-compatible STT service
	Language  string
	ModelPath string // Local whisper model, used when the service is unreachable
	Timeout   time.Duration
}

// TTSConfig holds text-to-speech service configuration
type TTSConfig struct {
	URL            string        // REST API URL for an OpenAI-compatible TTS service
	Voice          string        // Default voice
	Speed          float32       // Speech speed (1.0 = normal)
	ResponseFormat string        // Audio format (mp3, wav)
	Language       string        // Target language tag
	ArtifactDir    string        // Directory for synthesized audio artifacts
	MaxConcurrent  int           // Maximum concurrent TTS requests
	Timeout        time.Duration // Request timeout
}

// PlaybackConfig holds virtual audio device playback configuration
type PlaybackConfig struct {
	Binary     string // External player binary, ffplay by default
	DeviceName string // Virtual output device, e.g. "CABLE Input (VB-Audio Virtual Cable)"
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DBPath string
}

// NATSConfig holds optional NATS messaging configuration.
// An empty URL disables event publishing entirely.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnect  int
	ReconnectWait time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnvString("CLARITYMEET_HOST", "0.0.0.0"),
			Port:         getEnvInt("CLARITYMEET_PORT", 8080),
			ReadTimeout:  getEnvDuration("CLARITYMEET_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("CLARITYMEET_WRITE_TIMEOUT", 120*time.Second),
		},
		LLM: LLMConfig{
			APIKey:  getEnvString("GEMINI_API_KEY", ""),
			Model:   getEnvString("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout: getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
		STT: STTConfig{
			URL:       getEnvString("STT_URL", "http://localhost:8000"),
			Language:  getEnvString("STT_LANGUAGE", "en"),
			ModelPath: getEnvString("WHISPER_MODEL_PATH", "./models/ggml-base.en.bin"),
			Timeout:   getEnvDuration("STT_TIMEOUT", 30*time.Second),
		},
		TTS: TTSConfig{
			URL:            getEnvString("TTS_URL", "http://localhost:8880/v1"),
			Voice:          getEnvString("TTS_VOICE", "af_bella"),
			Speed:          getEnvFloat32("TTS_SPEED", 1.0),
			ResponseFormat: getEnvString("TTS_FORMAT", "mp3"),
			Language:       getEnvString("TTS_LANGUAGE", "en"),
			ArtifactDir:    getEnvString("TTS_ARTIFACT_DIR", "./data/audio"),
			MaxConcurrent:  getEnvInt("TTS_MAX_CONCURRENT", 4),
			Timeout:        getEnvDuration("TTS_TIMEOUT", 10*time.Second),
		},
		Playback: PlaybackConfig{
			Binary:     getEnvString("PLAYBACK_BINARY", "ffplay"),
			DeviceName: getEnvString("OUTPUT_DEVICE_NAME", "CABLE Input (VB-Audio Virtual Cable)"),
		},
		Storage: StorageConfig{
			DBPath: getEnvString("DB_PATH", "./data/claritymeet-hub.db"),
		},
		NATS: NATSConfig{
			URL:           getEnvString("NATS_URL", ""),
			SubjectPrefix: getEnvString("NATS_SUBJECT_PREFIX", "claritymeet.session"),
			MaxReconnect:  getEnvInt("NATS_MAX_RECONNECT", 10),
			ReconnectWait: getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.STT.URL == "" {
		return fmt.Errorf("STT URL must be provided")
	}

	if c.TTS.URL == "" {
		return fmt.Errorf("TTS URL must be provided")
	}

	if c.TTS.MaxConcurrent <= 0 {
		return fmt.Errorf("TTS max concurrent must be positive: %d", c.TTS.MaxConcurrent)
	}

	if c.TTS.Speed <= 0 {
		return fmt.Errorf("TTS speed must be positive: %f", c.TTS.Speed)
	}

	if c.Playback.DeviceName == "" {
		return fmt.Errorf("output device name must be provided")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
