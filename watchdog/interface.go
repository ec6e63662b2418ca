/*
 * MIT License
 *
 * Copyright (c) 2025 Sam Pohlenz
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package watchdog provides scoped kill-timers: a timer armed with a
// timeout and a signal which, unless stopped first, delivers the signal to
// the current process. The creating code path owns the handle exclusively
// and stops it on scope exit.
package watchdog

import (
	"syscall"
	"time"

	liblog "github.com/spohlenz/passenger/logger"
)

const (
	// RequestTimeout bounds the handling of a single request.
	RequestTimeout = 60 * time.Second

	// TerminationTimeout bounds a graceful termination.
	TerminationTimeout = 30 * time.Second
)

// Watchdog is a disposable armed timer.
type Watchdog interface {
	// Stop cancels the timer. Stopping is idempotent and safe while the
	// timer is concurrently firing.
	Stop()
}

// New arms a watchdog delivering sig to this process after timeout. The
// diagnostic tag is logged if the watchdog fires.
func New(timeout time.Duration, sig syscall.Signal, tag string, log liblog.FuncLog) Watchdog {
	w := &wdg{
		s:   sig,
		d:   tag,
		log: log,
	}

	w.t = time.AfterFunc(timeout, w.fire)

	return w
}
