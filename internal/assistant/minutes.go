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
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/events"
	"github.com/claritymeet/claritymeet-hub/internal/llm"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
	"github.com/claritymeet/claritymeet-hub/internal/messaging"
	"github.com/claritymeet/claritymeet-hub/internal/session"
)

// NoMinutesContent is returned when there is nothing to summarize. It is a
// user-facing message, not an error.
const NoMinutesContent = "No conversation history or live transcription to generate minutes."

const minutesInstruction = "You are a meeting assistant. Create professional minutes of the meeting (MoM) from the conversation below. Use bullet points, group by topics, and highlight key decisions."

// GenerateMinutes renders the full session content, both the turn log and
// the raw live transcript, into a single prompt and asks the language model
// for minutes of meeting. When the session holds no content the fixed
// NoMinutesContent message is returned without any network call.
func (a *Assistant) GenerateMinutes(ctx context.Context) (string, error) {
	snap := a.state.Snapshot()
	if len(snap.Turns) == 0 && strings.TrimSpace(snap.LiveTranscript) == "" {
		return NoMinutesContent, nil
	}

	event := events.NewMeetingEvent(events.KindMinutes)

	prompt := buildMinutesPrompt(snap)
	event.Input = prompt

	logging.LogLLMRequest("minutes", zap.Int("turns", len(snap.Turns)))
	minutes, err := a.chat.Generate(ctx, []llm.Message{
		{Speaker: session.SpeakerUser, Content: prompt},
	})
	if err != nil {
		event.SetError(err)
		a.recordEvent(event)
		return fmt.Sprintf("Failed to generate minutes: %v", err),
			fmt.Errorf("failed to generate minutes: %w", err)
	}

	event.SetResponse(minutes)
	a.recordEvent(event)
	a.publishMinutes(event)

	return minutes, nil
}

// buildMinutesPrompt renders the session into the summarization prompt.
// Each turn becomes a "<Label>: <content>" line; the raw live transcript,
// when present, follows under its own marker.
func buildMinutesPrompt(snap session.Snapshot) string {
	var b strings.Builder

	for _, turn := range snap.Turns {
		b.WriteString(turn.Speaker.Label())
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}

	if live := strings.TrimSpace(snap.LiveTranscript); live != "" {
		b.WriteString("\n--- Live Transcription (Raw) ---\n")
		b.WriteString(live)
		b.WriteString("\n")
	}

	return minutesInstruction + "\n\nConversation:\n" + b.String()
}

func (a *Assistant) publishMinutes(event *events.MeetingEvent) {
	if a.publisher == nil {
		return
	}
	err := a.publisher.PublishMinutes(&messaging.MinutesEvent{
		EventUUID: event.UUID,
		Minutes:   event.ResponseText,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		logging.LogWarn("Failed to publish minutes event", zap.Error(err))
	}
}
