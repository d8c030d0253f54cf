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

package assistant

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/events"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
	"github.com/claritymeet/claritymeet-hub/internal/messaging"
)

// ToggleRecording flips the live-capture loop between Idle and Recording
// and returns the new state.
func (a *Assistant) ToggleRecording() bool {
	return a.state.ToggleRecording()
}

// ProcessLiveChunk transcribes one chunk of captured audio and appends the
// result to the live transcript. The chunk is spilled to a temporary file
// for the transcriber and removed on every exit path.
//
// A transcription failure or an empty result is treated as silence: the
// transcript is untouched and no error reaches the caller. Only a chunk
// arriving while recording is idle is reported back.
func (a *Assistant) ProcessLiveChunk(ctx context.Context, chunk []byte) (string, error) {
	if !a.state.RecordingActive() {
		return "", ErrNotRecording
	}
	if len(chunk) == 0 {
		return "", nil
	}

	tmp, err := os.CreateTemp(a.tempDir, "live_chunk_*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create temp audio file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(chunk); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write temp audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp audio file: %w", err)
	}

	text, err := a.transcriber.Transcribe(ctx, tmpPath)
	if err != nil {
		logging.LogWarn("Live chunk transcription failed", zap.Error(err))
		return "", nil
	}
	if text == "" {
		return "", nil
	}

	a.state.AppendLiveTranscript(text)
	logging.LogTranscription("live", zap.Int("chars", len(text)))

	event := events.NewMeetingEvent(events.KindLiveChunk)
	event.SetResponse(text)
	a.recordEvent(event)
	a.publishTranscriptChunk(text)

	return text, nil
}

func (a *Assistant) publishTranscriptChunk(text string) {
	if a.publisher == nil {
		return
	}
	err := a.publisher.PublishTranscriptChunk(&messaging.TranscriptChunkEvent{
		Text:      text,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		logging.LogWarn("Failed to publish transcript chunk", zap.Error(err))
	}
}
