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

// Package assistant orchestrates the conversation loop: prompt assembly,
// LLM calls, turn bookkeeping, speech synthesis, live transcription, and
// playback control. Gateways are injected as interfaces; the orchestrators
// never talk to external services directly.
package assistant

import (
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/events"
	"github.com/claritymeet/claritymeet-hub/internal/llm"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
	"github.com/claritymeet/claritymeet-hub/internal/messaging"
	"github.com/claritymeet/claritymeet-hub/internal/playback"
	"github.com/claritymeet/claritymeet-hub/internal/session"
	"github.com/claritymeet/claritymeet-hub/internal/stt"
	"github.com/claritymeet/claritymeet-hub/internal/tts"
)

var (
	// ErrEmptyInput indicates the user submitted blank input. This is a
	// no-op warning condition, never a state mutation.
	ErrEmptyInput = errors.New("input is empty")

	// ErrNoArtifact indicates no synthesized audio exists to play.
	ErrNoArtifact = errors.New("no audio artifact available")

	// ErrPlaybackNotActive indicates a stop request with nothing playing.
	ErrPlaybackNotActive = errors.New("no playback active")

	// ErrNotRecording indicates a live chunk arrived while idle.
	ErrNotRecording = errors.New("live recording is not active")
)

// EventStore persists meeting events. Satisfied by
// storage.MeetingEventsStore.
type EventStore interface {
	Insert(event *events.MeetingEvent) error
}

// Publisher broadcasts session events. Satisfied by
// messaging.NATSService.
type Publisher interface {
	PublishResponse(event *messaging.ResponseEvent) error
	PublishTranscriptChunk(event *messaging.TranscriptChunkEvent) error
	PublishMinutes(event *messaging.MinutesEvent) error
}

// Assistant wires the conversation state to the external gateways.
type Assistant struct {
	state       *session.State
	chat        llm.ChatClient
	transcriber stt.Transcriber
	synthesizer tts.Synthesizer
	player      *playback.Controller

	store     EventStore // optional
	publisher Publisher  // optional

	tempDir string
	now     func() time.Time
}

// Options holds the optional collaborators of an Assistant.
type Options struct {
	Store     EventStore
	Publisher Publisher
	TempDir   string
}

// New creates an assistant around the given gateways and session state.
func New(state *session.State, chat llm.ChatClient, transcriber stt.Transcriber,
	synthesizer tts.Synthesizer, player *playback.Controller, opts Options) *Assistant {

	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &Assistant{
		state:       state,
		chat:        chat,
		transcriber: transcriber,
		synthesizer: synthesizer,
		player:      player,
		store:       opts.Store,
		publisher:   opts.Publisher,
		tempDir:     tempDir,
		now:         time.Now,
	}
}

// State exposes the session state for read-only snapshots.
func (a *Assistant) State() *session.State {
	return a.state
}

// StartPlayback launches playback of the most recent audio artifact to the
// configured virtual output device. A second start while one is active
// terminates the previous process and replaces its handle.
func (a *Assistant) StartPlayback() (int, error) {
	artifact := a.state.LastAudioPath()
	if artifact == "" {
		return 0, ErrNoArtifact
	}

	handle, err := a.player.Start(artifact)
	if err != nil {
		return 0, err
	}

	if prev := a.state.SwapPlaybackHandle(handle); prev != nil {
		if termErr := prev.Terminate(); termErr != nil {
			logging.LogWarn("Failed to terminate superseded playback",
				zap.Int("pid", prev.PID()), zap.Error(termErr))
		}
	}

	return handle.PID(), nil
}

// StopPlayback terminates the active playback process, if any. Stopping a
// process that already exited is a success.
func (a *Assistant) StopPlayback() error {
	h := a.state.TakePlaybackHandle()
	if h == nil {
		return ErrPlaybackNotActive
	}

	if ph, ok := h.(*playback.Handle); ok {
		return a.player.Stop(ph)
	}
	return h.Terminate()
}

// Clear resets the whole session, stopping any active playback first.
func (a *Assistant) Clear() {
	a.state.Clear()
}

// recordEvent persists a meeting event if a store is configured. Storage
// failures are logged, never propagated: history is best effort, the
// conversation is not.
func (a *Assistant) recordEvent(event *events.MeetingEvent) {
	if a.store == nil {
		return
	}
	if err := a.store.Insert(event); err != nil {
		logging.LogError(err, "Failed to record meeting event",
			zap.String("kind", string(event.Kind)))
	}
}
