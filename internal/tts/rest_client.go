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

package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
)

// speechRequest represents a request to an OpenAI-compatible TTS API
type speechRequest struct {
	Model  string  `json:"model"`
	Input  string  `json:"input"`
	Voice  string  `json:"voice"`
	Format string  `json:"response_format"`
	Speed  float32 `json:"speed,omitempty"`
	Lang   string  `json:"language,omitempty"`
}

// RESTClient implements the Synthesizer interface for OpenAI-compatible
// text-to-speech services, writing each artifact to the configured
// directory.
type RESTClient struct {
	baseURL   string
	client    *http.Client
	config    config.TTSConfig
	semaphore chan struct{} // Limits concurrent requests
}

// NewRESTClient creates a new OpenAI-compatible TTS client.
func NewRESTClient(cfg config.TTSConfig) (*RESTClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("TTS URL cannot be empty")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = "."
	}

	if err := os.MkdirAll(cfg.ArtifactDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	ttsClient := &RESTClient{
		baseURL:   strings.TrimSuffix(cfg.URL, "/"),
		client:    client,
		config:    cfg,
		semaphore: make(chan struct{}, cfg.MaxConcurrent),
	}

	if logging.Sugar != nil {
		logging.Sugar.Infow("🔊 TTS client initialized",
			"url", cfg.URL,
			"voice", cfg.Voice,
			"artifact_dir", cfg.ArtifactDir,
		)
	}

	return ttsClient, nil
}

// Synthesize converts text to speech and writes the artifact under the
// configured directory with the given filename.
func (c *RESTClient) Synthesize(ctx context.Context, text, filename string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text cannot be empty")
	}
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	// Acquire semaphore slot for concurrency control
	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-time.After(5 * time.Second):
		return "", fmt.Errorf("TTS synthesis queue full, request timed out")
	case <-ctx.Done():
		return "", ctx.Err()
	}

	startTime := time.Now()

	request := speechRequest{
		Model:  "tts-1",
		Input:  text,
		Voice:  c.config.Voice,
		Format: c.config.ResponseFormat,
		Speed:  c.config.Speed,
		Lang:   c.config.Language,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	logging.LogTTSOperation("synthesis_start",
		zap.String("voice", c.config.Voice),
		zap.Int("text_length", len(text)),
		zap.String("format", c.config.ResponseFormat),
	)

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/audio/speech", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/*")

	resp, err := c.client.Do(req)
	if err != nil {
		logging.LogError(err, "TTS HTTP request failed",
			zap.Int("text_length", len(text)),
		)
		return "", fmt.Errorf("TTS HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logging.LogWarn("TTS request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response_body", string(body)),
		)
		return "", fmt.Errorf("TTS request failed with status %d: %s", resp.StatusCode, string(body))
	}

	artifactPath := filepath.Join(c.config.ArtifactDir, filename)
	out, err := os.Create(artifactPath)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err != nil {
		_ = os.Remove(artifactPath)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if closeErr != nil {
		_ = os.Remove(artifactPath)
		return "", fmt.Errorf("failed to close artifact: %w", closeErr)
	}

	logging.LogTTSOperation("synthesis_complete",
		zap.String("artifact", artifactPath),
		zap.Int64("bytes", written),
		zap.Duration("processing_time", time.Since(startTime)),
	)

	return artifactPath, nil
}

// Close implements the Synthesizer interface; the REST client holds no
// long-lived resources.
func (c *RESTClient) Close() error {
	return nil
}
