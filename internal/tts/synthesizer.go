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

package tts

import (
	"context"
	"fmt"
	"time"
)

// Synthesizer defines the interface for text-to-speech synthesis services.
// Implementations write the generated audio artifact to disk and return its
// path. Empty text is a precondition failure, not a downstream call.
type Synthesizer interface {
	// Synthesize converts text to speech and stores the artifact under the
	// given filename, returning the full artifact path.
	Synthesize(ctx context.Context, text, filename string) (string, error)

	// Close cleans up resources
	Close() error
}

// ArtifactFilename returns the conventional artifact name for a synthesis
// completed at t: response_<YYYYMMDDHHMMSS>.mp3. Second resolution means two
// syntheses in the same second collide; known limitation.
func ArtifactFilename(t time.Time) string {
	return fmt.Sprintf("response_%s.mp3", t.Format("20060102150405"))
}
