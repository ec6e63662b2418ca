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

package watchdog

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	liblog "github.com/spohlenz/passenger/logger"
)

type wdg struct {
	t   *time.Timer
	s   syscall.Signal
	d   string
	o   sync.Once
	log liblog.FuncLog
}

// fire delivers the armed signal to the current process, never to a child.
func (o *wdg) fire() {
	liblog.Call(o.log).Error("watchdog expired, signaling process", liblog.Fields{
		"tag":    o.d,
		"signal": unix.SignalName(o.s),
	})

	_ = unix.Kill(os.Getpid(), o.s)
}

func (o *wdg) Stop() {
	o.o.Do(func() {
		o.t.Stop()
	})
}
