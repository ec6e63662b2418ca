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

// Package monitor gates the accept loop of a request handler: a single
// readiness wait over the listening endpoint, the owner pipe held by the
// parent web server, the graceful-termination gate and the hard-termination
// signal feed.
//
// The owner pipe never carries data: the only observable event on it is end
// of stream, meaning the parent process is gone.
package monitor

import (
	"io"
	"net"
	"os"

	liberr "github.com/spohlenz/passenger/errors"
	liblog "github.com/spohlenz/passenger/logger"
)

// Event identifies which wait source became ready.
type Event uint8

const (
	// EvtConnection means a new connection was accepted.
	EvtConnection Event = iota
	// EvtHard means the hard-termination signal was delivered.
	EvtHard
	// EvtOwnerGone means the owner pipe reached end of stream.
	EvtOwnerGone
	// EvtDrain means the graceful-termination gate was closed.
	EvtDrain
	// EvtClosed means the listening endpoint or the monitor was closed.
	EvtClosed
)

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e {
	case EvtConnection:
		return "connection"
	case EvtHard:
		return "hard termination"
	case EvtOwnerGone:
		return "owner gone"
	case EvtDrain:
		return "graceful termination"
	case EvtClosed:
		return "closed"
	}

	return "unknown"
}

// Monitor is the readiness multiplexer of one main-loop invocation.
type Monitor interface {
	// Wait blocks until one source is ready and returns it. When several
	// sources are ready the priority is hard termination, then owner
	// gone, then graceful termination, then connections.
	Wait() (net.Conn, Event)

	// Close stops the accept pump and discards any connection accepted
	// but not yet consumed. The listener must be closed by the caller
	// first so the pump can unblock. The owner watcher is reaped by
	// closing the owner descriptor, not by Close.
	Close()
}

// New builds a Monitor over the given sources and starts its accept pump
// and owner watcher. The listener is mandatory; the owner reader and the
// hard signal feed may be nil.
func New(l net.Listener, owner io.Reader, drain <-chan struct{}, hard <-chan os.Signal, log liblog.FuncLog) (Monitor, liberr.Error) {
	if l == nil {
		return nil, ErrorParamEmpty.Error()
	}

	m := &mon{
		l:   l,
		cnn: make(chan net.Conn),
		own: make(chan struct{}),
		drn: drain,
		hrd: hard,
		cls: make(chan struct{}),
		ded: make(chan struct{}),
		log: log,
	}

	m.wg.Add(1)
	go m.pump()
	go m.watchOwner(owner)

	return m, nil
}
