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

// Package handler implements the per-worker request handler: a long-lived
// loop owning one application instance and one private unix socket, serving
// framed requests strictly sequentially until terminated.
//
// Termination has two shapes. The hard-termination signal and the death
// of the parent (observed as end of stream on the owner pipe) leave the
// loop at the next readiness wait. The soft-termination signal, and a
// crossed memory ceiling, close the graceful gate instead: the request in
// flight completes, a bounded termination watchdog is armed, and the loop
// leaves on its next wait.
package handler

import (
	"io"
	"os"
	"sync"

	liberr "github.com/spohlenz/passenger/errors"
	liblog "github.com/spohlenz/passenger/logger"
	libprt "github.com/spohlenz/passenger/protocol"
	libsck "github.com/spohlenz/passenger/socket"
)

// Callback hands one decoded request to the enclosing web application.
//
// The application reads the request body from body, writes a complete
// response to client and returns. It never closes the client stream: the
// loop does. The body stream is forward-only.
type Callback func(headers libprt.Headers, body io.Reader, client io.Writer)

// Handler is the long-lived object owning one socket endpoint and one
// application.
type Handler interface {
	// MainLoop runs the accept loop on the calling goroutine until a
	// termination cause occurs, then restores signal dispositions,
	// releases the endpoint and returns.
	MainLoop() liberr.Error

	// StartMainLoopThread runs MainLoop on a background goroutine and
	// blocks until the handler reaches running state.
	StartMainLoopThread() liberr.Error

	// Cleanup unwinds the handler from any goroutine: it interrupts and
	// joins the main loop, stops the termination watchdog, closes the
	// endpoint and the owner pipe. Cleanup is idempotent.
	Cleanup()

	// Name returns the endpoint name to disclose out of band.
	Name() string

	// Abstract reports whether the endpoint lives in the abstract
	// namespace.
	Abstract() bool

	// Iterations returns the number of loop turns so far.
	Iterations() uint64

	// ProcessedRequests returns the number of fully handled requests,
	// independent of application outcome.
	ProcessedRequests() uint64

	// IsRunning reports whether the main loop is between its running
	// broadcast and its exit.
	IsRunning() bool
}

// New builds a Handler around the given application callback. The endpoint
// is created immediately, so Name is disclosable right after construction.
// The owner pipe read end may be nil when no parent supervises the handler.
func New(owner *os.File, app Callback, cfg Config, log liblog.FuncLog) (Handler, liberr.Error) {
	if app == nil {
		return nil, ErrorParamEmpty.Error()
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	so, err := libsck.New(cfg.SocketPrefix, log)
	if err != nil {
		return nil, err
	}

	prm, e := newMetrics(cfg.Metrics)
	if e != nil {
		_ = so.Close()
		return nil, ErrorMetricsRegister.Error(e)
	}

	h := &hdl{
		so:  so,
		onr: owner,
		app: app,
		cfg: cfg,
		log: log,
		prm: prm,
	}

	h.c = sync.NewCond(&h.m)

	return h, nil
}
