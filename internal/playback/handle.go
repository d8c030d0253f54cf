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
	"os"
	"os/exec"
	"time"
)

// Handle is an opaque reference to a running external playback process.
// Unlike a bare PID, it tracks process exit so that stop requests against
// an already-finished process are treated as a benign no-op.
type Handle struct {
	cmd  *exec.Cmd
	pid  int
	done chan struct{}
}

// newHandle wraps a started command and reaps it in the background.
func newHandle(cmd *exec.Cmd) *Handle {
	h := &Handle{
		cmd:  cmd,
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()

	return h
}

// PID returns the operating system process id.
func (h *Handle) PID() int {
	return h.pid
}

// Alive reports whether the playback process is still running.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Terminate requests termination of the playback process. A process that
// has already exited is treated as already-stopped, not as a failure.
func (h *Handle) Terminate() error {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return nil
	}

	if !h.Alive() {
		return nil
	}

	if err := h.cmd.Process.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return err
	}

	// Wait briefly for the reaper to observe the exit.
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
	}

	return nil
}
