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
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
	"github.com/claritymeet/claritymeet-hub/internal/session"
)

// Gemini's wire protocol names the assistant role "model". That relabeling
// happens here and nowhere else.
const geminiAssistantRole = "model"

// GeminiClient implements ChatClient against the Google Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiClient creates a Gemini-backed chat client.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, config.ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)

	logging.LogLLMRequest("init", zap.String("model", cfg.Model))

	return &GeminiClient{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

// Generate submits the conversation to Gemini and returns the generated text.
func (g *GeminiClient) Generate(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to send")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		history = append(history, &genai.Content{
			Role:  geminiRole(msg.Speaker),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	chat := g.model.StartChat()
	chat.History = history

	start := time.Now()
	resp, err := chat.SendMessage(ctx, genai.Text(messages[len(messages)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text candidates")
	}

	logging.LogLLMRequest("generate",
		zap.Int("history_turns", len(history)),
		zap.Int("response_chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return text, nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func geminiRole(speaker session.Speaker) string {
	if speaker == session.SpeakerAssistant {
		return geminiAssistantRole
	}
	return string(session.SpeakerUser)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		// Only the first candidate is used.
		break
	}
	return sb.String()
}
