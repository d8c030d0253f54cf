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

//go:build whisper

package stt

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/logging"
)

// WhisperTranscriber handles local speech-to-text using whisper.cpp.
// It expects 16 kHz mono 16-bit PCM WAV input, which is what the live
// capture collaborator delivers.
type WhisperTranscriber struct {
	model     whisper.Model
	modelPath string
}

// NewWhisperTranscriber creates a new local Whisper transcriber.
func NewWhisperTranscriber(modelPath string) (*WhisperTranscriber, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("whisper model not found at %s", modelPath)
	}

	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper model: %w", err)
	}

	if logging.Sugar != nil {
		logging.Sugar.Infow("✅ Whisper model loaded", "path", modelPath)
	}

	return &WhisperTranscriber{
		model:     model,
		modelPath: modelPath,
	}, nil
}

// Transcribe converts the audio file at the given path to text.
func (wt *WhisperTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	if wt.model == nil {
		return "", fmt.Errorf("whisper model not initialized")
	}

	samples, err := readWAVSamples(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio: %w", err)
	}

	wctx, err := wt.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("failed to create whisper context: %w", err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("failed to process audio: %w", err)
	}

	var transcript strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if err != nil {
			break
		}
		transcript.WriteString(segment.Text)
	}

	result := strings.TrimSpace(transcript.String())
	logging.LogTranscription("whisper", zap.Int("chars", len(result)))
	return result, nil
}

// Close cleans up the Whisper model
func (wt *WhisperTranscriber) Close() error {
	if wt.model != nil {
		wt.model.Close()
	}
	return nil
}

// readWAVSamples reads 16-bit PCM samples from a WAV file and normalizes
// them to float32 in [-1, 1].
func readWAVSamples(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a WAV file: %s", path)
	}

	// Walk chunks to find "data"; the fmt chunk is not always 16 bytes.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if chunkID == "data" {
			end := body + chunkSize
			if end > len(data) {
				end = len(data)
			}
			pcm := data[body:end]
			samples := make([]float32, len(pcm)/2)
			for i := range samples {
				samples[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768.0
			}
			return samples, nil
		}
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	return nil, fmt.Errorf("WAV data chunk not found: %s", path)
}
