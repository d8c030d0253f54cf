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

	"github.com/claritymeet/claritymeet-hub/internal/session"
)

// Message is one turn of a chat request sent to the language model.
type Message struct {
	Speaker session.Speaker
	Content string
}

// ChatClient defines the interface for language model completion services.
// The final message in the slice is the active prompt; everything before it
// is prior conversation history in chronological order.
type ChatClient interface {
	// Generate submits an ordered conversation and returns the generated text.
	Generate(ctx context.Context, messages []Message) (string, error)

	// Close cleans up resources
	Close() error
}
