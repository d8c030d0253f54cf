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

package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
)

// ResponseEvent announces a completed assistant response cycle.
type ResponseEvent struct {
	EventUUID    string `json:"event_uuid"`
	UserInput    string `json:"user_input"`
	ResponseText string `json:"response_text"`
	ArtifactPath string `json:"artifact_path,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// TranscriptChunkEvent announces newly transcribed live audio.
type TranscriptChunkEvent struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// MinutesEvent announces generated minutes of meeting.
type MinutesEvent struct {
	EventUUID string `json:"event_uuid"`
	Minutes   string `json:"minutes"`
	Timestamp int64  `json:"timestamp"`
}

// NATSService publishes session events to NATS subjects. It is optional
// infrastructure: the hub runs fine without a broker configured.
type NATSService struct {
	url           string
	subjectPrefix string
	maxReconnect  int
	reconnectWait time.Duration
	conn          *nats.Conn
}

// NewNATSService creates a new NATS service instance from configuration.
// A nil service (and nil error) is returned when no URL is configured.
func NewNATSService(cfg config.NATSConfig) (*NATSService, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "claritymeet.session"
	}

	return &NATSService{
		url:           cfg.URL,
		subjectPrefix: prefix,
		maxReconnect:  cfg.MaxReconnect,
		reconnectWait: cfg.ReconnectWait,
	}, nil
}

// Connect establishes connection to the NATS server
func (ns *NATSService) Connect() error {
	wait := ns.reconnectWait
	if wait <= 0 {
		wait = 2 * time.Second
	}

	opts := []nats.Option{
		nats.Name("claritymeet-hub"),
		nats.ReconnectWait(wait),
		nats.MaxReconnects(ns.maxReconnect),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logging.LogWarn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.LogWarn("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(ns.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	ns.conn = conn
	if logging.Sugar != nil {
		logging.Sugar.Infow("✅ Connected to NATS server", "url", conn.ConnectedUrl())
	}
	return nil
}

// PublishResponse publishes a completed response event
func (ns *NATSService) PublishResponse(event *ResponseEvent) error {
	return ns.publish(ns.subjectPrefix+".responses", event)
}

// PublishTranscriptChunk publishes a live transcript chunk event
func (ns *NATSService) PublishTranscriptChunk(event *TranscriptChunkEvent) error {
	return ns.publish(ns.subjectPrefix+".transcripts", event)
}

// PublishMinutes publishes a minutes-of-meeting event
func (ns *NATSService) PublishMinutes(event *MinutesEvent) error {
	return ns.publish(ns.subjectPrefix+".minutes", event)
}

func (ns *NATSService) publish(subject string, event any) error {
	if ns.conn == nil {
		return fmt.Errorf("NATS connection not established")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := ns.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	return nil
}

// Close shuts down the NATS connection
func (ns *NATSService) Close() {
	if ns.conn != nil {
		ns.conn.Close()
		ns.conn = nil
	}
}
