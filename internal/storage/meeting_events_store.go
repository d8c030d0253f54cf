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
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/claritymeet/claritymeet-hub/internal/events"
)

// ErrEventNotFound indicates no meeting event exists for the given UUID.
var ErrEventNotFound = errors.New("meeting event not found")

// MeetingEventsStore handles database operations for meeting events
type MeetingEventsStore struct {
	db *Database
}

// NewMeetingEventsStore creates a new meeting events store
func NewMeetingEventsStore(db *Database) *MeetingEventsStore {
	return &MeetingEventsStore{db: db}
}

// ListOptions controls filtering and pagination for List and Count.
type ListOptions struct {
	Kind        events.EventKind
	OnlyFailed  bool
	OnlySuccess bool
	Limit       int
	Offset      int
}

// Insert stores a new meeting event in the database
func (s *MeetingEventsStore) Insert(event *events.MeetingEvent) error {
	if err := event.IsValid(); err != nil {
		return fmt.Errorf("invalid meeting event: %w", err)
	}

	query := `
		INSERT INTO meeting_events (
			uuid, kind, timestamp,
			input, response_text, artifact_path,
			processing_time_ms, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.DB().Exec(query,
		event.UUID, string(event.Kind), event.Timestamp,
		event.Input, event.ResponseText, event.ArtifactPath,
		event.ProcessingTime, event.Success, event.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meeting event: %w", err)
	}

	return nil
}

// GetByUUID retrieves a meeting event by its UUID
func (s *MeetingEventsStore) GetByUUID(uuid string) (*events.MeetingEvent, error) {
	query := selectColumns + ` WHERE uuid = ?`

	row := s.db.DB().QueryRow(query, uuid)
	event, err := scanMeetingEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return event, err
}

// List retrieves meeting events with pagination and filtering, newest first.
func (s *MeetingEventsStore) List(options ListOptions) ([]*events.MeetingEvent, error) {
	query, args := buildListQuery(options)

	rows, err := s.db.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meeting events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []*events.MeetingEvent
	for rows.Next() {
		event, err := scanMeetingEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting event: %w", err)
		}
		list = append(list, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting events: %w", err)
	}

	return list, nil
}

// Count returns the total number of meeting events matching the filter
func (s *MeetingEventsStore) Count(options ListOptions) (int64, error) {
	options.Limit = 0
	options.Offset = 0
	query, args := buildListQuery(options)

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS filtered"

	var count int64
	if err := s.db.DB().QueryRow(countQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count meeting events: %w", err)
	}

	return count, nil
}

const selectColumns = `
	SELECT uuid, kind, timestamp,
	       input, response_text, artifact_path,
	       processing_time_ms, success, error_message
	FROM meeting_events`

func buildListQuery(options ListOptions) (string, []any) {
	var conditions []string
	var args []any

	if options.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(options.Kind))
	}
	if options.OnlyFailed {
		conditions = append(conditions, "success = FALSE")
	}
	if options.OnlySuccess {
		conditions = append(conditions, "success = TRUE")
	}

	query := selectColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	if options.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, options.Limit)
		if options.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, options.Offset)
		}
	}

	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeetingEvent(row rowScanner) (*events.MeetingEvent, error) {
	var event events.MeetingEvent
	var kind string

	err := row.Scan(
		&event.UUID, &kind, &event.Timestamp,
		&event.Input, &event.ResponseText, &event.ArtifactPath,
		&event.ProcessingTime, &event.Success, &event.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	event.Kind = events.EventKind(kind)
	return &event, nil
}
