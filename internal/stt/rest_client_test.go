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
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/claritymeet/claritymeet-hub/internal/config"
)

func newTestService(t *testing.T, transcription string, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"text":"` + transcription + `"}`))
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeTempAudio(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk.wav")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp audio: %v", err)
	}
	return path
}

func TestNewRESTClient_HealthCheck(t *testing.T) {
	server := newTestService(t, "", http.StatusOK)

	client, err := NewRESTClient(config.STTConfig{URL: server.URL, Language: "en", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}
	defer func() { _ = client.Close() }()
}

func TestNewRESTClient_UnreachableService(t *testing.T) {
	_, err := NewRESTClient(config.STTConfig{URL: "http://127.0.0.1:1", Language: "en", Timeout: time.Second})
	if err == nil {
		t.Fatal("NewRESTClient() expected error for unreachable service")
	}
}

func TestTranscribe(t *testing.T) {
	server := newTestService(t, "hello from the meeting", http.StatusOK)
	client, err := NewRESTClient(config.STTConfig{URL: server.URL, Language: "en", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}

	path := writeTempAudio(t, []byte("fake-wav-bytes"))
	text, err := client.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "hello from the meeting" {
		t.Errorf("Transcribe() = %q, want %q", text, "hello from the meeting")
	}
}

func TestTranscribe_EmptyResultIsNotAnError(t *testing.T) {
	server := newTestService(t, "", http.StatusOK)
	client, err := NewRESTClient(config.STTConfig{URL: server.URL, Language: "en", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}

	path := writeTempAudio(t, []byte("silence"))
	text, err := client.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "" {
		t.Errorf("Transcribe() = %q, want empty for no speech detected", text)
	}
}

func TestTranscribe_ServiceFailure(t *testing.T) {
	server := newTestService(t, "", http.StatusInternalServerError)
	client, err := NewRESTClient(config.STTConfig{URL: server.URL, Language: "en", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}

	path := writeTempAudio(t, []byte("bytes"))
	if _, err := client.Transcribe(context.Background(), path); err == nil {
		t.Error("Transcribe() expected error for service failure")
	}
}

func TestTranscribe_MissingFile(t *testing.T) {
	server := newTestService(t, "", http.StatusOK)
	client, err := NewRESTClient(config.STTConfig{URL: server.URL, Language: "en", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}

	if _, err := client.Transcribe(context.Background(), "/nonexistent/audio.wav"); err == nil {
		t.Error("Transcribe() expected error for missing file")
	}
}
