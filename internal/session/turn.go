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

import "fmt"

// Speaker identifies who produced a conversation turn.
// Exactly two values exist; any external-API relabeling (e.g. Gemini's
// "model" role) happens in the gateway adapters, never here.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Valid reports whether the speaker is one of the two defined values.
func (s Speaker) Valid() bool {
	return s == SpeakerUser || s == SpeakerAssistant
}

// Label returns the display label used when rendering transcripts.
func (s Speaker) Label() string {
	if s == SpeakerUser {
		return "User"
	}
	return "ClarityMeet"
}

// Turn is one recorded exchange unit in the conversation log.
// Turns are immutable once appended.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Content string  `json:"content"`
}

// NewTurn creates a validated turn.
func NewTurn(speaker Speaker, content string) (Turn, error) {
	if !speaker.Valid() {
		return Turn{}, fmt.Errorf("invalid speaker: %q", speaker)
	}
	if content == "" {
		return Turn{}, fmt.Errorf("turn content cannot be empty")
	}
	return Turn{Speaker: speaker, Content: content}, nil
}
