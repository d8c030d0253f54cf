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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/claritymeet/claritymeet-hub/internal/api"
	"github.com/claritymeet/claritymeet-hub/internal/assistant"
	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
	"github.com/claritymeet/claritymeet-hub/internal/storage"
)

// Server exposes the hub's session operations over HTTP
type Server struct {
	cfg    *config.Config
	mux    *http.ServeMux
	server *http.Server

	assistant     *assistant.Assistant
	eventsHandler *api.MeetingEventsHandler

	// Server context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server around the assistant. The events store is
// optional; without it the history endpoints are not registered.
func New(cfg *config.Config, asst *assistant.Assistant, store *storage.MeetingEventsStore) *Server {
	mux := http.NewServeMux()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:       cfg,
		mux:       mux,
		assistant: asst,
		ctx:       ctx,
		cancel:    cancel,
	}
	if store != nil {
		s.eventsHandler = api.NewMeetingEventsHandler(store)
	}

	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      s.mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.routes()

	return s
}

// Handler returns the route multiplexer, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logging.Sugar.Infow("🚀 ClarityMeet Hub starting",
		"http_port", s.cfg.Server.Port,
		"output_device", s.cfg.Playback.DeviceName)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	logging.Sugar.Infow("🛑 Shutting down ClarityMeet Hub")

	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logging.Sugar.Infow("✅ ClarityMeet Hub shut down successfully")
	return nil
}

// routes sets up HTTP routing
func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/modes", s.handleModes)
	s.mux.HandleFunc("/api/respond", s.handleRespond)
	s.mux.HandleFunc("/api/minutes", s.handleMinutes)
	s.mux.HandleFunc("/api/transcribe", s.handleTranscribe)
	s.mux.HandleFunc("/api/live/toggle", s.handleLiveToggle)
	s.mux.HandleFunc("/api/live/chunk", s.handleLiveChunk)
	s.mux.HandleFunc("/api/playback/start", s.handlePlaybackStart)
	s.mux.HandleFunc("/api/playback/stop", s.handlePlaybackStop)
	s.mux.HandleFunc("/api/clear", s.handleClear)

	if s.eventsHandler != nil {
		s.mux.HandleFunc("/api/events", s.eventsHandler.HandleMeetingEvents)
		s.mux.HandleFunc("/api/events/", s.eventsHandler.HandleMeetingEventByID)
	}
}

// handleHealth provides system health information
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.assistant.State().Snapshot()

	health := map[string]interface{}{
		"status":           "ok",
		"timestamp":        time.Now(),
		"turns":            len(snap.Turns),
		"recording_active": snap.RecordingActive,
		"playback_active":  snap.PlaybackActive,
	}

	writeJSON(w, http.StatusOK, health)
}

// handleState returns a snapshot of the conversation state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.assistant.State().Snapshot())
}

// handleModes lists the supported response modes
func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"modes": assistant.Modes()})
}

// handleRespond runs one response cycle for the submitted input
func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Input string `json:"input"`
		Mode  string `json:"mode"`
	}
	if err := readJSON(r, &request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := s.assistant.GenerateResponse(r.Context(), request.Input, request.Mode)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyInput) {
			http.Error(w, "Input is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to generate response", http.StatusBadGateway)
		return
	}

	response := map[string]interface{}{
		"response_text": result.ResponseText,
		"artifact_path": result.ArtifactPath,
	}
	if result.SynthesisErr != nil {
		response["synthesis_error"] = result.SynthesisErr.Error()
	}

	writeJSON(w, http.StatusOK, response)
}

// handleMinutes generates minutes of meeting from the current session
func (s *Server) handleMinutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	minutes, err := s.assistant.GenerateMinutes(r.Context())
	if err != nil {
		// The diagnostic text is still returned so clients can show it.
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{"minutes": minutes})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"minutes": minutes})
}

// handleTranscribe transcribes an uploaded audio file
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "audio file is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	transcript, err := s.assistant.TranscribeUpload(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrUnsupportedFormat):
			http.Error(w, "Unsupported audio format, use .wav, .mp3 or .m4a", http.StatusBadRequest)
		case errors.Is(err, assistant.ErrNoSpeech):
			writeJSON(w, http.StatusOK, map[string]interface{}{"transcript": "", "message": "No transcription available."})
		default:
			http.Error(w, "Failed to transcribe audio", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"transcript": transcript})
}

// handleLiveToggle flips the live capture loop between Idle and Recording
func (s *Server) handleLiveToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	active := s.assistant.ToggleRecording()
	writeJSON(w, http.StatusOK, map[string]interface{}{"recording": active})
}

// handleLiveChunk transcribes one chunk of live captured audio
func (s *Server) handleLiveChunk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	chunk, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read audio chunk", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	text, err := s.assistant.ProcessLiveChunk(r.Context(), chunk)
	if err != nil {
		if errors.Is(err, assistant.ErrNotRecording) {
			http.Error(w, "Live recording is not active", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to process audio chunk", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"text":            text,
		"live_transcript": s.assistant.State().LiveTranscript(),
	})
}

// handlePlaybackStart plays the latest synthesized response to the
// configured output device
func (s *Server) handlePlaybackStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pid, err := s.assistant.StartPlayback()
	if err != nil {
		if errors.Is(err, assistant.ErrNoArtifact) {
			http.Error(w, "No audio response available", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to start playback", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"playing": true, "pid": pid})
}

// handlePlaybackStop terminates active playback. Stopping when nothing is
// playing, or when the player already exited, is not an error.
func (s *Server) handlePlaybackStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.assistant.StopPlayback(); err != nil {
		if errors.Is(err, assistant.ErrPlaybackNotActive) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"playing": false, "message": "No audio currently playing"})
			return
		}
		http.Error(w, "Failed to stop playback", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"playing": false})
}

// handleClear resets the whole session
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.assistant.Clear()
	writeJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.LogError(err, "Failed to write JSON response")
	}
}

func readJSON(r *http.Request, data interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer func() { _ = r.Body.Close() }()

	return json.Unmarshal(body, data)
}
