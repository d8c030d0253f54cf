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

package playback

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"go.uber.org/zap"

	"github.com/claritymeet/claritymeet-hub/internal/config"
	"github.com/claritymeet/claritymeet-hub/internal/logging"
)

var (
	// ErrArtifactNotFound indicates the audio artifact does not exist.
	ErrArtifactNotFound = errors.New("audio artifact not found")

	// ErrPlayerNotFound indicates the external player binary is missing.
	ErrPlayerNotFound = errors.New("playback binary not found in PATH")
)

// Controller launches and terminates the external player that streams an
// audio artifact to a named virtual output device. Playback runs detached
// from the control flow; the returned Handle is the only way to reach it.
type Controller struct {
	binary string
	device string
}

// NewController creates a playback controller for the configured player
// binary and output device.
func NewController(cfg config.PlaybackConfig) *Controller {
	binary := cfg.Binary
	if binary == "" {
		binary = "ffplay"
	}
	return &Controller{
		binary: binary,
		device: cfg.DeviceName,
	}
}

// Start launches the player bound to the controller's output device and the
// given artifact. It does not wait for completion. The artifact must exist
// before any process is spawned.
func (c *Controller) Start(artifactPath string) (*Handle, error) {
	if c.device == "" {
		return nil, fmt.Errorf("output device name not configured")
	}

	if _, err := os.Stat(artifactPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, artifactPath)
		}
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}

	binaryPath, err := exec.LookPath(c.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, c.binary)
	}

	args := playerArgs(runtime.GOOS, c.device, artifactPath)
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start playback process: %w", err)
	}

	handle := newHandle(cmd)

	logging.LogPlayback("start",
		zap.Int("pid", handle.PID()),
		zap.String("artifact", artifactPath),
		zap.String("device", c.device),
	)

	return handle, nil
}

// Stop requests termination of the given playback process. A handle whose
// process already exited yields success.
func (c *Controller) Stop(h *Handle) error {
	if h == nil {
		return nil
	}

	alive := h.Alive()
	if err := h.Terminate(); err != nil {
		logging.LogError(err, "Failed to stop playback", zap.Int("pid", h.PID()))
		return fmt.Errorf("failed to stop playback process %d: %w", h.PID(), err)
	}

	action := "stop"
	if !alive {
		action = "stop_noop"
	}
	logging.LogPlayback(action, zap.Int("pid", h.PID()))
	return nil
}

// playerArgs builds the ffplay argument list with platform-appropriate
// device addressing. Three platform families are handled explicitly; any
// other platform gets a generic invocation that may not route to the named
// device.
func playerArgs(goos, device, artifactPath string) []string {
	var args []string

	switch goos {
	case "windows":
		// DirectShow device addressing
		args = append(args, "-f", "dshow", "-i", "audio="+device)
	case "darwin":
		args = append(args, "-f", "coreaudio", "-i", device)
	case "linux":
		args = append(args, "-f", "pulse", "-i", device)
	default:
		// Best effort: plays to the default output, not the named device.
	}

	args = append(args,
		"-i", artifactPath,
		"-nodisp",
		"-autoexit",
		"-loglevel", "quiet",
	)

	return args
}
