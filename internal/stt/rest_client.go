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

package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
)

// RESTClient implements the Transcriber interface using REST API calls
// to any OpenAI-compatible speech-to-text service.
type RESTClient struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// OpenAI-compatible response struct
type transcriptionResponse struct {
	Text string `json:"text"`
}

// NewRESTClient creates a new OpenAI-compatible STT client.
func NewRESTClient(cfg config.STTConfig) (*RESTClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("STT URL cannot be empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := &RESTClient{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: timeout},
	}

	// Test connection with health check
	if err := s.healthCheck(); err != nil {
		return nil, fmt.Errorf("STT service health check failed: %w", err)
	}

	if logging.Sugar != nil {
		logging.Sugar.Infow("Connected to STT REST service", "base_url", s.baseURL)
	}

	return s, nil
}

// healthCheck verifies the service is running
func (s *RESTClient) healthCheck() error {
	resp, err := s.httpClient.Get(s.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("failed to connect to STT service at %s: %w", s.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("STT service health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

// Transcribe submits the audio file to the transcription endpoint and
// returns the recognized text. An empty transcription is returned as-is;
// the caller decides whether silence is meaningful.
func (s *RESTClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	if len(audioData) == 0 {
		return "", fmt.Errorf("audio file is empty: %s", audioPath)
	}

	start := time.Now()

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	audioWriter, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := audioWriter.Write(audioData); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}

	_ = writer.WriteField("language", s.language)
	_ = writer.WriteField("response_format", "json")

	contentType := writer.FormDataContentType()
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/audio/transcriptions", &requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	text := strings.TrimSpace(result.Text)

	logging.LogTranscription("rest",
		zap.String("file", filepath.Base(audioPath)),
		zap.Int("bytes", len(audioData)),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return text, nil
}

// Close implements the Transcriber interface; the REST client holds no
// long-lived resources.
func (s *RESTClient) Close() error {
	return nil
}
