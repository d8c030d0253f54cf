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
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/events"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
	"github.com/claritymeet/claritymeet-hub/internal/storage"
)

// MeetingEventsHandler handles HTTP requests for meeting event history
type MeetingEventsHandler struct {
	store *storage.MeetingEventsStore
}

// NewMeetingEventsHandler creates a new meeting events handler
func NewMeetingEventsHandler(store *storage.MeetingEventsStore) *MeetingEventsHandler {
	return &MeetingEventsHandler{store: store}
}

// ListMeetingEventsResponse represents the response for listing meeting events
type ListMeetingEventsResponse struct {
	Events     []*events.MeetingEvent `json:"events"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// HandleMeetingEvents handles GET /api/events. Events are created by the
// orchestrators, never through the API, so only reads are served.
func (h *MeetingEventsHandler) HandleMeetingEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.listMeetingEvents(w, r)
}

// HandleMeetingEventByID handles GET /api/events/{uuid}
func (h *MeetingEventsHandler) HandleMeetingEventByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uuid := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if uuid == "" || strings.Contains(uuid, "/") {
		http.Error(w, "Event UUID is required", http.StatusBadRequest)
		return
	}

	event, err := h.store.GetByUUID(uuid)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			http.Error(w, "Meeting event not found", http.StatusNotFound)
			return
		}
		logging.LogError(err, "Failed to get meeting event", zap.String("uuid", uuid))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(event)
}

// listMeetingEvents handles GET /api/events
func (h *MeetingEventsHandler) listMeetingEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := parseIntParam(query.Get("page"), 1)
	pageSize := parseIntParam(query.Get("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100 // Limit maximum page size
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	options := storage.ListOptions{
		Kind:   events.EventKind(query.Get("kind")),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	if successStr := query.Get("success"); successStr != "" {
		if success, err := strconv.ParseBool(successStr); err == nil {
			options.OnlyFailed = !success
			options.OnlySuccess = success
		}
	}

	total, err := h.store.Count(options)
	if err != nil {
		logging.LogError(err, "Failed to count meeting events")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	list, err := h.store.List(options)
	if err != nil {
		logging.LogError(err, "Failed to list meeting events")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*events.MeetingEvent{}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	response := ListMeetingEventsResponse{
		Events:     list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// parseIntParam parses integer parameter with default value
func parseIntParam(param string, defaultValue int) int {
	if param == "" {
		return defaultValue
	}

	if value, err := strconv.Atoi(param); err == nil {
		return value
	}

	return defaultValue
}
