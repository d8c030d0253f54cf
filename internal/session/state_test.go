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

import (
	"errors"
	"testing"
)

type fakeHandle struct {
	terminated bool
	err        error
}

func (f *fakeHandle) Terminate() error {
	f.terminated = true
	return f.err
}

func (f *fakeHandle) PID() int { return 4242 }

func TestAppendExchange_TurnParity(t *testing.T) {
	s := NewState()

	inputs := []struct{ user, assistant string }{
		{"What is 2+2?", "2+2 equals 4."},
		{"And 3+3?", "3+3 equals 6."},
		{"Thanks", "You're welcome."},
	}

	for i, in := range inputs {
		if err := s.AppendExchange(in.user, in.assistant); err != nil {
			t.Fatalf("AppendExchange() error: %v", err)
		}

		turns := s.Turns()
		if len(turns) != 2*(i+1) {
			t.Fatalf("after %d exchanges len(turns) = %d, want %d", i+1, len(turns), 2*(i+1))
		}
	}

	turns := s.Turns()
	for i, turn := range turns {
		want := SpeakerUser
		if i%2 == 1 {
			want = SpeakerAssistant
		}
		if turn.Speaker != want {
			t.Errorf("turns[%d].Speaker = %q, want %q", i, turn.Speaker, want)
		}
	}

	if s.LastResponseText() != "You're welcome." {
		t.Errorf("LastResponseText() = %q", s.LastResponseText())
	}
}

func TestAppendExchange_RejectsEmpty(t *testing.T) {
	s := NewState()

	if err := s.AppendExchange("", "response"); err == nil {
		t.Error("AppendExchange() with empty user input should fail")
	}
	if err := s.AppendExchange("input", ""); err == nil {
		t.Error("AppendExchange() with empty response should fail")
	}
	if len(s.Turns()) != 0 {
		t.Errorf("failed appends must not mutate turns, got %d", len(s.Turns()))
	}
}

func TestAppendLiveTranscript_SpacingRule(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		want     string
	}{
		{name: "separating space inserted", existing: "hello", incoming: "world", want: "hello world"},
		{name: "no double space", existing: "hello ", incoming: "world", want: "hello world"},
		{name: "no double space after multi-byte whitespace", existing: "hello\u00a0", incoming: "world", want: "hello\u00a0world"},
		{name: "empty buffer", existing: "", incoming: "hi", want: "hi"},
		{name: "incoming trimmed", existing: "hello", incoming: "  world  ", want: "hello world"},
		{name: "empty incoming is no-op", existing: "hello", incoming: "", want: "hello"},
		{name: "whitespace incoming is no-op", existing: "hello", incoming: "   \n\t", want: "hello"},
		{name: "whitespace into empty buffer is no-op", existing: "", incoming: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			// Seed exactly, including trailing whitespace the append path
			// would have trimmed.
			s.liveTranscript = tt.existing

			s.AppendLiveTranscript(tt.incoming)
			if got := s.LiveTranscript(); got != tt.want {
				t.Errorf("LiveTranscript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToggleRecording(t *testing.T) {
	s := NewState()

	if s.RecordingActive() {
		t.Error("new state should start idle")
	}
	if !s.ToggleRecording() {
		t.Error("first toggle should activate recording")
	}
	if s.ToggleRecording() {
		t.Error("second toggle should deactivate recording")
	}
}

func TestSwapPlaybackHandle(t *testing.T) {
	s := NewState()

	first := &fakeHandle{}
	if prev := s.SwapPlaybackHandle(first); prev != nil {
		t.Errorf("SwapPlaybackHandle() on empty state returned %v", prev)
	}

	second := &fakeHandle{}
	prev := s.SwapPlaybackHandle(second)
	if prev != PlaybackHandle(first) {
		t.Error("SwapPlaybackHandle() should return the prior handle")
	}
	if s.PlaybackHandle() != PlaybackHandle(second) {
		t.Error("new handle should be stored")
	}
}

func TestClear_StopsPlaybackAndResets(t *testing.T) {
	s := NewState()

	if err := s.AppendExchange("hello", "hi there"); err != nil {
		t.Fatalf("AppendExchange() error: %v", err)
	}
	s.AppendLiveTranscript("some live text")
	s.SetLastAudioPath("/tmp/response_20250101120000.mp3")
	s.SetUploadedTranscript("uploaded text")
	s.ToggleRecording()

	handle := &fakeHandle{}
	s.SwapPlaybackHandle(handle)

	s.Clear()

	if !handle.terminated {
		t.Error("Clear() must terminate the active playback handle")
	}
	if len(s.Turns()) != 0 {
		t.Error("Clear() must reset turns")
	}
	if s.LiveTranscript() != "" {
		t.Error("Clear() must reset live transcript")
	}
	if s.LastResponseText() != "" {
		t.Error("Clear() must reset last response text")
	}
	if s.LastAudioPath() != "" {
		t.Error("Clear() must reset last audio path")
	}
	if s.UploadedTranscript() != "" {
		t.Error("Clear() must reset uploaded transcript")
	}
	if s.RecordingActive() {
		t.Error("Clear() must reset recording flag")
	}
	if s.PlaybackHandle() != nil {
		t.Error("Clear() must reset playback handle")
	}
}

func TestClear_TerminateFailureStillResets(t *testing.T) {
	s := NewState()
	handle := &fakeHandle{err: errors.New("terminate failed")}
	s.SwapPlaybackHandle(handle)

	s.Clear()

	if s.PlaybackHandle() != nil {
		t.Error("Clear() must reset handle even when termination fails")
	}
}

func TestSpeaker(t *testing.T) {
	if !SpeakerUser.Valid() || !SpeakerAssistant.Valid() {
		t.Error("defined speakers should be valid")
	}
	if Speaker("model").Valid() {
		t.Error("external role names are not valid speakers")
	}
	if SpeakerUser.Label() != "User" {
		t.Errorf("SpeakerUser.Label() = %q", SpeakerUser.Label())
	}
	if SpeakerAssistant.Label() != "ClarityMeet" {
		t.Errorf("SpeakerAssistant.Label() = %q", SpeakerAssistant.Label())
	}
}
