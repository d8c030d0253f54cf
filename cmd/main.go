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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/claritymeet/claritymeet-hub/internal/assistant"
	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/llm"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
	"github.com/claritymeet/claritymeet-hub/internal/messaging"
	"github.com/claritymeet/claritymeet-hub/internal/playback"
	"github.com/claritymeet/claritymeet-hub/internal/server"
	"github.com/claritymeet/claritymeet-hub/internal/session"
	"github.com/claritymeet/claritymeet-hub/internal/storage"
	"github.com/claritymeet/claritymeet-hub/internal/stt"
	"github.com/claritymeet/claritymeet-hub/internal/tts"
)

func main() {
	// Initialize structured logging
	if err := logging.Initialize(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	// Missing GEMINI_API_KEY is the one configuration error that halts
	// startup; everything else has a usable default.
	cfg, err := config.Load()
	if err != nil {
		logging.LogError(err, "Invalid configuration")
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	db, err := storage.NewDatabase(storage.DatabaseConfig{Path: cfg.Storage.DBPath})
	if err != nil {
		logging.LogError(err, "Failed to open database")
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()
	store := storage.NewMeetingEventsStore(db)

	chat, err := llm.NewGeminiClient(ctx, cfg.LLM)
	if err != nil {
		logging.LogError(err, "Failed to create Gemini client")
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer func() { _ = chat.Close() }()

	transcriber := newTranscriber(cfg)
	defer func() { _ = transcriber.Close() }()

	synthesizer, err := tts.NewRESTClient(cfg.TTS)
	if err != nil {
		logging.LogError(err, "Failed to create TTS client")
		log.Fatalf("Failed to create TTS client: %v", err)
	}
	defer func() { _ = synthesizer.Close() }()

	opts := assistant.Options{Store: store}

	nats, err := messaging.NewNATSService(cfg.NATS)
	if err != nil {
		logging.LogError(err, "Failed to configure NATS")
		log.Fatalf("Failed to configure NATS: %v", err)
	}
	if nats != nil {
		if err := nats.Connect(); err != nil {
			// The broker is optional infrastructure; the hub keeps
			// running without event publishing.
			logging.LogError(err, "NATS unavailable, continuing without event publishing")
		} else {
			defer nats.Close()
			opts.Publisher = nats
		}
	}

	asst := assistant.New(
		session.NewState(),
		chat,
		transcriber,
		synthesizer,
		playback.NewController(cfg.Playback),
		opts,
	)

	srv := server.New(cfg, asst, store)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Sugar.Infow("Received shutdown signal", "signal", sig.String())
		if err := srv.Stop(); err != nil {
			logging.LogError(err, "Graceful shutdown failed")
		}
	}()

	if err := srv.Start(); err != nil {
		logging.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newTranscriber prefers the remote STT service and falls back to the
// embedded whisper engine when the service is unreachable at startup.
func newTranscriber(cfg *config.Config) stt.Transcriber {
	remote, err := stt.NewRESTClient(cfg.STT)
	if err == nil {
		return remote
	}
	logging.LogError(err, "STT service unreachable, using embedded whisper")

	local, werr := stt.NewWhisperTranscriber(cfg.STT.ModelPath)
	if werr != nil {
		logging.LogError(werr, "Embedded whisper unavailable, uploads and live capture will fail")
		return stt.NewUnavailableTranscriber(werr)
	}
	return local
}
