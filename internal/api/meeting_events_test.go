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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/claritymeet/claritymeet-hub/internal/events"
	"github.com/claritymeet/claritymeet-hub/internal/storage"
)

func newTestHandler(t *testing.T) (*MeetingEventsHandler, *storage.MeetingEventsStore) {
	t.Helper()

	db, err := storage.NewDatabase(storage.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("NewDatabase() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := storage.NewMeetingEventsStore(db)
	return NewMeetingEventsHandler(store), store
}

func TestHandleMeetingEvents_List(t *testing.T) {
	handler, store := newTestHandler(t)

	for i := 0; i < 3; i++ {
		e := events.NewMeetingEvent(events.KindResponse)
		e.Input = "prompt"
		e.SetResponse("answer")
		if err := store.Insert(e); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events?kind=response&page_size=2", nil)
	w := httptest.NewRecorder()
	handler.HandleMeetingEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var response ListMeetingEventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if response.Total != 3 {
		t.Errorf("Total = %d, want 3", response.Total)
	}
	if len(response.Events) != 2 {
		t.Errorf("len(Events) = %d, want page of 2", len(response.Events))
	}
	if response.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", response.TotalPages)
	}
}

func TestHandleMeetingEvents_EmptyList(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	handler.HandleMeetingEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var response ListMeetingEventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if response.Events == nil {
		t.Error("Events should marshal as an empty array, not null")
	}
}

func TestHandleMeetingEvents_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	w := httptest.NewRecorder()
	handler.HandleMeetingEvents(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHandleMeetingEventByID(t *testing.T) {
	handler, store := newTestHandler(t)

	event := events.NewMeetingEvent(events.KindMinutes)
	event.SetResponse("- decisions recorded")
	if err := store.Insert(event); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events/"+event.UUID, nil)
	w := httptest.NewRecorder()
	handler.HandleMeetingEventByID(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got events.MeetingEvent
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.UUID != event.UUID || got.ResponseText != event.ResponseText {
		t.Errorf("got %+v, want stored event", got)
	}
}

func TestHandleMeetingEventByID_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events/no-such-uuid", nil)
	w := httptest.NewRecorder()
	handler.HandleMeetingEventByID(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
