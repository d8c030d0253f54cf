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

// Response modes shape how the assistant answers. Each mode maps to a
// system-style directive prepended to the final prompt; an unknown or empty
// mode sends the user input unmodified.
const (
	ModeRepeat     = "Repeat"
	ModeParaphrase = "Paraphrase"
	ModeExplain    = "Explain"
)

var modeDirectives = map[string]string{
	ModeRepeat:     "You are a repeat bot. Repeat the user's message exactly, with no changes or commentary.",
	ModeParaphrase: "You are a helpful assistant. Paraphrase the user's message clearly and crisply and do not go beyond 100 words.",
	ModeExplain:    "You are a helpful assistant. Answer the following clearly and directly. Do not rephrase or reflect on the user's question. Just answer it and do not go beyond 100 words.",
}

// ModeDirective returns the directive for a response mode, or an empty
// string when the mode is unknown.
func ModeDirective(mode string) string {
	return modeDirectives[mode]
}

// Modes lists the supported response modes.
func Modes() []string {
	return []string{ModeRepeat, ModeParaphrase, ModeExplain}
}
