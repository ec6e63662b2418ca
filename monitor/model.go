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

package monitor

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"

	liblog "github.com/spohlenz/passenger/logger"
)

type mon struct {
	l   net.Listener
	cnn chan net.Conn
	own chan struct{}
	drn <-chan struct{}
	hrd <-chan os.Signal
	cls chan struct{}
	ded chan struct{}
	wg  sync.WaitGroup
	co  sync.Once
	do  sync.Once
	log liblog.FuncLog
}

// pump accepts connections and hands them to Wait until the listener fails,
// which happens when the endpoint is closed.
func (o *mon) pump() {
	defer o.wg.Done()

	for {
		c, err := o.l.Accept()

		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				liblog.Call(o.log).Error("accept failed", nil)
			}

			o.do.Do(func() {
				close(o.ded)
			})

			return
		}

		select {
		case o.cnn <- c:
		case <-o.cls:
			_ = c.Close()
			return
		}
	}
}

// watchOwner blocks on the owner pipe until end of stream. The pipe never
// carries data, but any bytes observed are discarded so a misbehaving
// parent cannot wedge the watcher.
func (o *mon) watchOwner(owner io.Reader) {
	if owner == nil {
		return
	}

	buf := make([]byte, 16)

	for {
		n, err := owner.Read(buf)

		if err != nil {
			close(o.own)
			return
		}

		_ = n
	}
}

func (o *mon) Wait() (net.Conn, Event) {
	// ordered readiness pass before the blocking select
	select {
	case <-o.hrd:
		return nil, EvtHard
	default:
	}

	select {
	case <-o.own:
		return nil, EvtOwnerGone
	default:
	}

	select {
	case <-o.drn:
		return nil, EvtDrain
	default:
	}

	select {
	case <-o.hrd:
		return nil, EvtHard
	case <-o.own:
		return nil, EvtOwnerGone
	case <-o.drn:
		return nil, EvtDrain
	case c := <-o.cnn:
		return c, EvtConnection
	case <-o.ded:
		return nil, EvtClosed
	case <-o.cls:
		return nil, EvtClosed
	}
}

func (o *mon) Close() {
	o.co.Do(func() {
		close(o.cls)
	})

	o.wg.Wait()

	select {
	case c := <-o.cnn:
		_ = c.Close()
	default:
	}
}
