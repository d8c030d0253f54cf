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

package llm

import (
	"context"
	"testing"

	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/session"
)

func TestGeminiRoleRelabeling(t *testing.T) {
	tests := []struct {
		speaker session.Speaker
		want    string
	}{
		{session.SpeakerUser, "user"},
		{session.SpeakerAssistant, "model"},
	}

	for _, tt := range tests {
		if got := geminiRole(tt.speaker); got != tt.want {
			t.Errorf("geminiRole(%q) = %q, want %q", tt.speaker, got, tt.want)
		}
	}
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), config.LLMConfig{Model: "gemini-1.5-flash"})
	if err == nil {
		t.Fatal("NewGeminiClient() expected error for missing API key")
	}
}

func TestResponseText_Empty(t *testing.T) {
	if got := responseText(nil); got != "" {
		t.Errorf("responseText(nil) = %q, want empty", got)
	}
}
