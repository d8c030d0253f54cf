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

package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/claritymeet/claritymeet-hub/internal/events"
)

func newTestStore(t *testing.T) *MeetingEventsStore {
	t.Helper()

	db, err := NewDatabase(DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("NewDatabase() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewMeetingEventsStore(db)
}

func TestInsertAndGetByUUID(t *testing.T) {
	store := newTestStore(t)

	event := events.NewMeetingEvent(events.KindResponse)
	event.Input = "What is 2+2?"
	event.SetResponse("2+2 equals 4.")
	event.SetArtifact("/data/audio/response_20250101120000.mp3")

	if err := store.Insert(event); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, err := store.GetByUUID(event.UUID)
	if err != nil {
		t.Fatalf("GetByUUID() error: %v", err)
	}

	if got.Input != event.Input {
		t.Errorf("Input = %q, want %q", got.Input, event.Input)
	}
	if got.ResponseText != event.ResponseText {
		t.Errorf("ResponseText = %q, want %q", got.ResponseText, event.ResponseText)
	}
	if got.ArtifactPath != event.ArtifactPath {
		t.Errorf("ArtifactPath = %q, want %q", got.ArtifactPath, event.ArtifactPath)
	}
	if got.Kind != events.KindResponse {
		t.Errorf("Kind = %q, want %q", got.Kind, events.KindResponse)
	}
	if !got.Success {
		t.Error("Success should round-trip as true")
	}
}

func TestGetByUUID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByUUID("no-such-uuid")
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("GetByUUID() error = %v, want ErrEventNotFound", err)
	}
}

func TestInsert_InvalidEvent(t *testing.T) {
	store := newTestStore(t)

	event := events.NewMeetingEvent(events.KindResponse)
	event.Kind = "bogus"

	if err := store.Insert(event); err == nil {
		t.Error("Insert() expected error for invalid event")
	}
}

func TestListAndCount(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		e := events.NewMeetingEvent(events.KindResponse)
		e.Timestamp = base.Add(time.Duration(i) * time.Minute)
		e.Input = "prompt"
		e.SetResponse("answer")
		if err := store.Insert(e); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	failed := events.NewMeetingEvent(events.KindMinutes)
	failed.Timestamp = base.Add(time.Hour)
	failed.SetError(errors.New("llm unavailable"))
	if err := store.Insert(failed); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	all, err := store.List(ListOptions{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List() returned %d events, want 4", len(all))
	}
	// Newest first
	if all[0].Kind != events.KindMinutes {
		t.Errorf("List()[0].Kind = %q, want newest first", all[0].Kind)
	}

	responses, err := store.List(ListOptions{Kind: events.KindResponse})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(responses) != 3 {
		t.Errorf("List(Kind=response) returned %d, want 3", len(responses))
	}

	failures, err := store.List(ListOptions{OnlyFailed: true})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(failures) != 1 || failures[0].ErrorMessage != "llm unavailable" {
		t.Errorf("List(OnlyFailed) = %+v", failures)
	}

	count, err := store.Count(ListOptions{Kind: events.KindResponse})
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	page, err := store.List(ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("List(Limit=2, Offset=2) returned %d, want 2", len(page))
	}
}
