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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/events"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
)

// ErrUnsupportedFormat indicates an upload with a file extension outside
// the accepted set.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ErrNoSpeech indicates the transcriber found no speech in the upload.
var ErrNoSpeech = errors.New("no speech detected in upload")

var uploadExtensions = map[string]bool{
	".wav": true,
	".mp3": true,
	".m4a": true,
}

// TranscribeUpload transcribes a user-uploaded audio file. The payload is
// written to a deterministic transient path that preserves the original
// extension, so the transcriber can key its decoding off the suffix; the
// transient file is removed on every exit path.
//
// On success the transcript is stored as the session's uploaded transcript.
// On failure the stored transcript becomes a fixed unavailability notice.
func (a *Assistant) TranscribeUpload(ctx context.Context, filename string, payload io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !uploadExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	event := events.NewMeetingEvent(events.KindUpload)
	event.Input = filename

	tmpPath := filepath.Join(a.tempDir, "uploaded_audio_for_transcription"+ext)
	if err := writeAll(tmpPath, payload); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	defer func() { _ = os.Remove(tmpPath) }()

	text, err := a.transcriber.Transcribe(ctx, tmpPath)
	if err != nil {
		a.state.SetUploadedTranscript("No transcription available.")
		event.SetError(err)
		a.recordEvent(event)
		return "", fmt.Errorf("failed to transcribe upload: %w", err)
	}
	if text == "" {
		a.state.SetUploadedTranscript("No transcription available.")
		event.SetError(ErrNoSpeech)
		a.recordEvent(event)
		return "", ErrNoSpeech
	}

	a.state.SetUploadedTranscript(text)
	event.SetResponse(text)
	a.recordEvent(event)

	logging.LogTranscription("upload",
		zap.String("filename", filename), zap.Int("chars", len(text)))
	return text, nil
}

func writeAll(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
