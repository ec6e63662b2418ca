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

// Package socket creates the private listening endpoint of a request
// handler: a unix-domain stream socket under the Linux abstract namespace
// when permitted, or a 0600 file under /tmp otherwise. Endpoint names are
// random; creation retries on collision until an unused name is found.
package socket

import (
	"net"
	"os"
	"runtime"

	liberr "github.com/spohlenz/passenger/errors"
	liblog "github.com/spohlenz/passenger/logger"
)

const (
	// BacklogSize is the listen backlog of every endpoint.
	BacklogSize = 50

	// UnixPathMax is the size of the address buffer of a unix-domain
	// socket on Linux, including the terminating NUL.
	UnixPathMax = 108

	// EnvNoAbstractNamespace disables abstract-namespace sockets when set
	// to any non-empty value, forcing filesystem endpoints.
	EnvNoAbstractNamespace = "PASSENGER_NO_ABSTRACT_NAMESPACE_SOCKETS"

	// DefaultPrefix is the filesystem socket name prefix under /tmp.
	DefaultPrefix = "passenger"

	socketDir = "/tmp"
	filePerm  = os.FileMode(0600)
)

// Endpoint is a listening unix-domain stream socket owned by one handler.
type Endpoint interface {
	// Accept blocks until a connection arrives and returns it.
	Accept() (net.Conn, liberr.Error)

	// Close releases the descriptor. Filesystem endpoints additionally
	// unlink their path, best effort. Close is idempotent.
	Close() error

	// Name returns the endpoint name: the abstract name without its
	// leading NUL, or the filesystem path.
	Name() string

	// Abstract reports whether the endpoint lives in the abstract
	// namespace.
	Abstract() bool

	// Listener exposes the underlying listener.
	Listener() net.Listener
}

// New returns a listening endpoint bound to a freshly generated name,
// preferring the abstract namespace unless disabled by environment or
// unsupported by the OS.
func New(prefix string, log liblog.FuncLog) (Endpoint, liberr.Error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	if abstractAllowed() {
		ep, err := newAbstract(log)

		if err == nil {
			return ep, nil
		} else if !err.HasCode(ErrorAbstractUnsupported) {
			return nil, err
		}

		liblog.Call(log).Info("abstract namespace unavailable, falling back to filesystem socket", nil)
	}

	return newFilesystem(prefix, log)
}

// Dial opens a client connection to an endpoint name as disclosed by a
// handler: abstract names are prefixed with the NUL the handler stripped,
// filesystem names are used as path.
func Dial(name string, abstract bool) (net.Conn, error) {
	if abstract {
		name = "@" + name
	}

	return net.Dial("unix", name)
}

func abstractAllowed() bool {
	return runtime.GOOS == "linux" && os.Getenv(EnvNoAbstractNamespace) == ""
}
