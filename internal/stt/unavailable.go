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
	"fmt"
)

// UnavailableTranscriber fails every transcription with the cause that made
// the real engines unavailable. Missing transcription never halts the hub,
// it only fails the operations that need it.
type UnavailableTranscriber struct {
	cause error
}

// NewUnavailableTranscriber creates a transcriber that always fails.
func NewUnavailableTranscriber(cause error) *UnavailableTranscriber {
	return &UnavailableTranscriber{cause: cause}
}

// Transcribe always returns the startup failure.
func (ut *UnavailableTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("transcription unavailable: %w", ut.cause)
}

// Close is a no-op.
func (ut *UnavailableTranscriber) Close() error {
	return nil
}
