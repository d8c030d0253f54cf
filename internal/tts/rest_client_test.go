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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/claritymeet/claritymeet-hub/internal/config"
)

func newTestService(t *testing.T, audio []byte, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		var req speechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.Input == "" {
			http.Error(w, "empty input", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write(audio)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, url string) config.TTSConfig {
	t.Helper()
	return config.TTSConfig{
		URL:            url,
		Voice:          "af_bella",
		Speed:          1.0,
		ResponseFormat: "mp3",
		Language:       "en",
		ArtifactDir:    t.TempDir(),
		MaxConcurrent:  2,
		Timeout:        5 * time.Second,
	}
}

func TestSynthesize(t *testing.T) {
	audio := []byte("mp3-bytes")
	server := newTestService(t, audio, http.StatusOK)

	client, err := NewRESTClient(testConfig(t, server.URL))
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}

	path, err := client.Synthesize(context.Background(), "hello world", "response_20250101120000.mp3")
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}

	if filepath.Base(path) != "response_20250101120000.mp3" {
		t.Errorf("artifact path = %q, want filename preserved", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if string(got) != string(audio) {
		t.Errorf("artifact content = %q, want %q", got, audio)
	}
}

func TestSynthesize_EmptyTextIsPreconditionFailure(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client, err := NewRESTClient(testConfig(t, server.URL))
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}

	if _, err := client.Synthesize(context.Background(), "   ", "out.mp3"); err == nil {
		t.Error("Synthesize() expected error for empty text")
	}
	if requests != 0 {
		t.Errorf("empty text must not reach the service, got %d requests", requests)
	}
}

func TestSynthesize_ServiceFailure(t *testing.T) {
	server := newTestService(t, nil, http.StatusInternalServerError)

	cfg := testConfig(t, server.URL)
	client, err := NewRESTClient(cfg)
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}

	if _, err := client.Synthesize(context.Background(), "hello", "out.mp3"); err == nil {
		t.Error("Synthesize() expected error for service failure")
	}

	if _, statErr := os.Stat(filepath.Join(cfg.ArtifactDir, "out.mp3")); !os.IsNotExist(statErr) {
		t.Error("no artifact should exist after a failed synthesis")
	}
}

func TestArtifactFilename(t *testing.T) {
	ts := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := ArtifactFilename(ts); got != "response_20250102150405.mp3" {
		t.Errorf("ArtifactFilename() = %q", got)
	}
}
