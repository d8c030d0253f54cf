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

import "context"

// Transcriber defines the interface for speech-to-text transcription
// services. An empty result with a nil error means no speech was detected;
// callers treat that as silence, not as a failure.
type Transcriber interface {
	// Transcribe converts the audio file at the given path to text.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// Close cleans up resources
	Close() error
}
