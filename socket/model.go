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

package socket

import (
	"errors"
	"net"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	liberr "github.com/spohlenz/passenger/errors"
	liblog "github.com/spohlenz/passenger/logger"
	librnd "github.com/spohlenz/passenger/random"
)

type edp struct {
	l net.Listener
	n string
	a bool
	o sync.Once
	g liblog.FuncLog
}

// newAbstract binds a listener under the abstract namespace. Name
// collisions regenerate and retry until an unused name is found.
func newAbstract(log liblog.FuncLog) (Endpoint, liberr.Error) {
	for {
		name, err := librnd.HexIdentity(UnixPathMax - 2)
		if err != nil {
			return nil, err
		}

		l, e := listen("@" + name)

		if e == nil {
			return &edp{l: l, n: name, a: true, g: log}, nil
		} else if e.HasCode(ErrorAddrInUse) {
			liblog.Call(log).Debug("abstract socket name collision, regenerating", nil)
			continue
		}

		return nil, e
	}
}

// newFilesystem binds a listener on a 0600 file under /tmp.
func newFilesystem(prefix string, log liblog.FuncLog) (Endpoint, liberr.Error) {
	for {
		id, err := librnd.Base64Identity(88)
		if err != nil {
			return nil, err
		}

		path := socketDir + "/" + prefix + "." + id
		if len(path) > UnixPathMax-1 {
			path = path[:UnixPathMax-1]
		}

		l, e := listen(path)

		if e == nil {
			if err := os.Chmod(path, filePerm); err != nil {
				_ = l.Close()
				_ = os.Remove(path)
				return nil, ErrorSyscallChmod.Error(err)
			}

			return &edp{l: l, n: path, a: false, g: log}, nil
		} else if e.HasCode(ErrorAddrInUse) {
			liblog.Call(log).Debug("socket path collision, regenerating", nil)
			continue
		}

		return nil, e
	}
}

// listen creates, binds and listens a raw unix stream socket so the
// backlog is exactly BacklogSize, then wraps it as a net.Listener.
// A leading '@' in the name selects the abstract namespace.
func listen(name string) (net.Listener, liberr.Error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, ErrorSyscallSocket.Error(err)
	}

	if err = unix.Bind(fd, &unix.SockaddrUnix{Name: name}); err != nil {
		_ = unix.Close(fd)

		if errors.Is(err, unix.EADDRINUSE) {
			return nil, ErrorAddrInUse.Error(err)
		} else if name[0] == '@' && (errors.Is(err, unix.EINVAL) || errors.Is(err, unix.EAFNOSUPPORT) || errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.EPERM)) {
			return nil, ErrorAbstractUnsupported.Error(err)
		}

		return nil, ErrorSyscallBind.Error(err)
	}

	if err = unix.Listen(fd, BacklogSize); err != nil {
		_ = unix.Close(fd)
		return nil, ErrorSyscallListen.Error(err)
	}

	f := os.NewFile(uintptr(fd), name)
	l, err := net.FileListener(f)
	_ = f.Close()

	if err != nil {
		return nil, ErrorListenerWrap.Error(err)
	}

	return l, nil
}

func (o *edp) Accept() (net.Conn, liberr.Error) {
	c, err := o.l.Accept()

	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, ErrorClosed.Error(err)
		}

		return nil, ErrorAccept.Error(err)
	}

	return c, nil
}

func (o *edp) Close() error {
	var err error

	o.o.Do(func() {
		err = o.l.Close()

		if !o.a {
			// missing or already removed paths are not failures
			_ = os.Remove(o.n)
		}

		liblog.Call(o.g).Debug("endpoint closed", liblog.Fields{"socket": o.n})
	})

	return err
}

func (o *edp) Name() string {
	return o.n
}

func (o *edp) Abstract() bool {
	return o.a
}

func (o *edp) Listener() net.Listener {
	return o.l
}
