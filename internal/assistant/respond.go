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
	"github.com/claritymeet/claritymeet-hub/internal/tts"
)

// ResponseResult is the outcome of one response cycle. SynthesisErr is
// non-nil when the text was generated and recorded but speech synthesis
// failed; the conversation log is never rolled back for a synthesis failure.
type ResponseResult struct {
	ResponseText string
	ArtifactPath string
	SynthesisErr error
}

// GenerateResponse runs one full response cycle: assemble the prompt from
// the conversation history and the selected mode, call the language model,
// append the exchange to the log, then synthesize speech for the response.
//
// Blank input is rejected without touching any state. A generation failure
// records a diagnostic as the latest response text and appends nothing, so
// the turn count stays even. A synthesis failure keeps the appended turns.
func (a *Assistant) GenerateResponse(ctx context.Context, userInput, mode string) (*ResponseResult, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return nil, ErrEmptyInput
	}

	event := events.NewMeetingEvent(events.KindResponse)
	event.Input = userInput

	messages := a.buildMessages(userInput, mode)

	logging.LogLLMRequest("respond", zap.String("mode", mode), zap.Int("messages", len(messages)))
	responseText, err := a.chat.Generate(ctx, messages)
	if err != nil {
		diagnostic := fmt.Sprintf("Error: %v", err)
		a.state.SetLastResponseText(diagnostic)
		event.SetError(err)
		a.recordEvent(event)
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	if err := a.state.AppendExchange(userInput, responseText); err != nil {
		event.SetError(err)
		a.recordEvent(event)
		return nil, err
	}
	event.SetResponse(responseText)

	result := &ResponseResult{ResponseText: responseText}

	filename := tts.ArtifactFilename(a.now())
	artifactPath, synthErr := a.synthesizer.Synthesize(ctx, responseText, filename)
	if synthErr != nil {
		logging.LogError(synthErr, "Speech synthesis failed", zap.String("filename", filename))
		result.SynthesisErr = synthErr
	} else {
		a.state.SetLastAudioPath(artifactPath)
		result.ArtifactPath = artifactPath
		event.SetArtifact(artifactPath)
	}

	a.recordEvent(event)
	a.publishResponse(event)

	return result, nil
}

// buildMessages converts the conversation log plus the new input into an
// ordered chat request. The mode directive, when present, is folded into
// the final message only; history stays verbatim.
func (a *Assistant) buildMessages(userInput, mode string) []llm.Message {
	turns := a.state.Turns()
	messages := make([]llm.Message, 0, len(turns)+1)
	for _, turn := range turns {
		messages = append(messages, llm.Message{Speaker: turn.Speaker, Content: turn.Content})
	}

	prompt := userInput
	if directive := ModeDirective(mode); directive != "" {
		prompt = directive + "\n\nUser: " + userInput
	}
	messages = append(messages, llm.Message{Speaker: session.SpeakerUser, Content: prompt})

	return messages
}

func (a *Assistant) publishResponse(event *events.MeetingEvent) {
	if a.publisher == nil {
		return
	}
	err := a.publisher.PublishResponse(&messaging.ResponseEvent{
		EventUUID:    event.UUID,
		UserInput:    event.Input,
		ResponseText: event.ResponseText,
		ArtifactPath: event.ArtifactPath,
		Timestamp:    time.Now().Unix(),
	})
	if err != nil {
		logging.LogWarn("Failed to publish response event", zap.Error(err))
	}
}
