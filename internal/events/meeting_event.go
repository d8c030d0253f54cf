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

package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies what produced a meeting event.
type EventKind string

const (
	KindResponse  EventKind = "response"   // user prompt answered by the assistant
	KindMinutes   EventKind = "minutes"    // minutes-of-meeting generation
	KindUpload    EventKind = "upload"     // uploaded-file transcription
	KindLiveChunk EventKind = "live_chunk" // live capture chunk transcription
)

// Valid reports whether the kind is one of the defined values.
func (k EventKind) Valid() bool {
	switch k {
	case KindResponse, KindMinutes, KindUpload, KindLiveChunk:
		return true
	}
	return false
}

// MeetingEvent records one completed hub operation for history and audit.
type MeetingEvent struct {
	UUID      string    `json:"uuid" db:"uuid"`
	Kind      EventKind `json:"kind" db:"kind"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	// Operation payloads
	Input        string `json:"input" db:"input"`
	ResponseText string `json:"response_text" db:"response_text"`
	ArtifactPath string `json:"artifact_path,omitempty" db:"artifact_path"`

	// Outcome
	ProcessingTime int64  `json:"processing_time_ms" db:"processing_time_ms"`
	Success        bool   `json:"success" db:"success"`
	ErrorMessage   string `json:"error_message,omitempty" db:"error_message"`
}

// NewMeetingEvent creates a new event with a generated UUID and current
// timestamp.
func NewMeetingEvent(kind EventKind) *MeetingEvent {
	return &MeetingEvent{
		UUID:      uuid.NewString(),
		Kind:      kind,
		Timestamp: time.Now(),
		Success:   true,
	}
}

// SetResponse records the generated text and marks processing as complete.
func (e *MeetingEvent) SetResponse(responseText string) {
	e.ResponseText = responseText
	e.ProcessingTime = time.Since(e.Timestamp).Milliseconds()
}

// SetArtifact records the synthesized audio artifact path.
func (e *MeetingEvent) SetArtifact(path string) {
	e.ArtifactPath = path
}

// SetError marks the event as failed with an error message.
func (e *MeetingEvent) SetError(err error) {
	e.Success = false
	e.ErrorMessage = err.Error()
	e.ProcessingTime = time.Since(e.Timestamp).Milliseconds()
}

// IsValid checks that the event can be persisted.
func (e *MeetingEvent) IsValid() error {
	if e.UUID == "" {
		return fmt.Errorf("meeting event UUID is required")
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("invalid meeting event kind: %q", e.Kind)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("meeting event timestamp is required")
	}
	return nil
}
