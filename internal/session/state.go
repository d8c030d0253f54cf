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

package session

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/logging"
)

// PlaybackHandle is an opaque reference to a running external playback
// process. Terminate must treat an already-dead process as success.
type PlaybackHandle interface {
	Terminate() error
	PID() int
}

// State is the process-lifetime conversation aggregate. It exists from
// session start until an explicit Clear and is the single shared mutable
// resource of the hub; all mutation goes through its methods.
type State struct {
	mu sync.Mutex

	turns              []Turn
	liveTranscript     string
	lastResponseText   string
	lastAudioPath      string
	uploadedTranscript string
	playbackHandle     PlaybackHandle
	recordingActive    bool
}

// NewState creates an empty conversation state.
func NewState() *State {
	return &State{}
}

// Snapshot is a read-only copy of the observable session fields.
type Snapshot struct {
	Turns              []Turn `json:"turns"`
	LiveTranscript     string `json:"live_transcript"`
	LastResponseText   string `json:"last_response_text"`
	LastAudioPath      string `json:"last_audio_path"`
	UploadedTranscript string `json:"uploaded_transcript"`
	PlaybackActive     bool   `json:"playback_active"`
	PlaybackPID        int    `json:"playback_pid,omitempty"`
	RecordingActive    bool   `json:"recording_active"`
}

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Turns:              append([]Turn(nil), s.turns...),
		LiveTranscript:     s.liveTranscript,
		LastResponseText:   s.lastResponseText,
		LastAudioPath:      s.lastAudioPath,
		UploadedTranscript: s.uploadedTranscript,
		PlaybackActive:     s.playbackHandle != nil,
		RecordingActive:    s.recordingActive,
	}
	if s.playbackHandle != nil {
		snap.PlaybackPID = s.playbackHandle.PID()
	}
	return snap
}

// Turns returns a copy of the conversation log in chronological order.
func (s *State) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// AppendTurn appends a single validated turn to the log.
func (s *State) AppendTurn(speaker Speaker, content string) error {
	turn, err := NewTurn(speaker, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	count := len(s.turns)
	s.mu.Unlock()

	logging.LogSessionEvent("append_turn", "Turn appended",
		zap.String("speaker", string(speaker)),
		zap.Int("turns", count),
	)
	return nil
}

// AppendExchange appends a user turn followed by an assistant turn and
// records the assistant text as the latest response. This is the only way
// a completed response cycle mutates the log, which keeps the turn count
// even across successful cycles.
func (s *State) AppendExchange(userInput, responseText string) error {
	userTurn, err := NewTurn(SpeakerUser, userInput)
	if err != nil {
		return err
	}
	assistantTurn, err := NewTurn(SpeakerAssistant, responseText)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.turns = append(s.turns, userTurn, assistantTurn)
	s.lastResponseText = responseText
	count := len(s.turns)
	s.mu.Unlock()

	logging.LogSessionEvent("append_exchange", "Exchange appended",
		zap.Int("turns", count),
	)
	return nil
}

// AppendLiveTranscript appends transcribed text to the live transcript
// buffer. A single separating space is inserted unless the buffer already
// ends with whitespace. Empty or whitespace-only text never changes the
// buffer.
func (s *State) AppendLiveTranscript(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.liveTranscript == "":
		s.liveTranscript = trimmed
	case endsWithSpace(s.liveTranscript):
		s.liveTranscript += trimmed
	default:
		s.liveTranscript += " " + trimmed
	}
}

// LiveTranscript returns the accumulated live transcript.
func (s *State) LiveTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveTranscript
}

// SetLastResponseText overwrites the latest assistant-generated text.
// Used for diagnostic messages on generation failure; successful cycles
// go through AppendExchange instead.
func (s *State) SetLastResponseText(text string) {
	s.mu.Lock()
	s.lastResponseText = text
	s.mu.Unlock()
}

// LastResponseText returns the latest assistant-generated text.
func (s *State) LastResponseText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResponseText
}

// SetLastAudioPath overwrites the path of the latest synthesized artifact.
func (s *State) SetLastAudioPath(path string) {
	s.mu.Lock()
	s.lastAudioPath = path
	s.mu.Unlock()
}

// LastAudioPath returns the path of the latest synthesized artifact.
func (s *State) LastAudioPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAudioPath
}

// SetUploadedTranscript records the result of the latest file-upload
// transcription.
func (s *State) SetUploadedTranscript(text string) {
	s.mu.Lock()
	s.uploadedTranscript = text
	s.mu.Unlock()
}

// UploadedTranscript returns the latest file-upload transcription result.
func (s *State) UploadedTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadedTranscript
}

// SwapPlaybackHandle stores a new playback handle and returns the previous
// one, if any. The caller decides what to do with the prior process.
func (s *State) SwapPlaybackHandle(h PlaybackHandle) PlaybackHandle {
	s.mu.Lock()
	prev := s.playbackHandle
	s.playbackHandle = h
	s.mu.Unlock()
	return prev
}

// PlaybackHandle returns the active playback handle, or nil.
func (s *State) PlaybackHandle() PlaybackHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playbackHandle
}

// TakePlaybackHandle removes and returns the active playback handle.
func (s *State) TakePlaybackHandle() PlaybackHandle {
	s.mu.Lock()
	h := s.playbackHandle
	s.playbackHandle = nil
	s.mu.Unlock()
	return h
}

// ToggleRecording flips the live-recording flag and returns the new value.
// This is the only transition between the Idle and Recording states.
func (s *State) ToggleRecording() bool {
	s.mu.Lock()
	s.recordingActive = !s.recordingActive
	active := s.recordingActive
	s.mu.Unlock()

	logging.LogSessionEvent("toggle_recording", "Recording toggled",
		zap.Bool("active", active),
	)
	return active
}

// RecordingActive reports whether the live session loop is in Recording.
func (s *State) RecordingActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordingActive
}

// Clear resets every field to its default. Any active playback process is
// terminated before the handle is reset; termination failure does not
// prevent the reset.
func (s *State) Clear() {
	s.mu.Lock()
	handle := s.playbackHandle
	s.mu.Unlock()

	if handle != nil {
		if err := handle.Terminate(); err != nil {
			logging.LogWarn("Failed to stop playback during clear", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.playbackHandle = nil
	s.turns = nil
	s.liveTranscript = ""
	s.lastResponseText = ""
	s.lastAudioPath = ""
	s.uploadedTranscript = ""
	s.recordingActive = false
	s.mu.Unlock()

	logging.LogSessionEvent("clear", "Session state cleared")
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
