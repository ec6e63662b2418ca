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

package handler

import (
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"

	liblog "github.com/spohlenz/passenger/logger"
	libmon "github.com/spohlenz/passenger/monitor"
	libprt "github.com/spohlenz/passenger/protocol"
	libsck "github.com/spohlenz/passenger/socket"
	libwdg "github.com/spohlenz/passenger/watchdog"

	liberr "github.com/spohlenz/passenger/errors"
)

const logTag = "request handler"

type hdl struct {
	m   sync.Mutex
	c   *sync.Cond
	run bool
	don bool
	clo bool
	res liberr.Error

	so  libsck.Endpoint
	onr *os.File
	app Callback
	cfg Config
	log liblog.FuncLog
	prm *metrics

	itr atomic.Uint64
	prc atomic.Uint64

	drn chan struct{}
	dro *sync.Once
	two sync.Once
	twd libwdg.Watchdog

	cuo sync.Once
	thr sync.WaitGroup
}

func (o *hdl) MainLoop() (res liberr.Error) {
	defer func() {
		o.setDone(res)
	}()

	o.m.Lock()

	if o.clo || o.don {
		o.m.Unlock()
		return ErrorHandlerClosed.Error()
	}

	drn := make(chan struct{})
	o.drn = drn
	o.dro = new(sync.Once)
	o.m.Unlock()

	sig := newSigState(o.cfg.HardSignal, o.cfg.SoftSignal, o.triggerDrain)
	defer sig.Restore()

	var owner io.Reader
	if o.onr != nil {
		owner = o.onr
	}

	mon, err := libmon.New(o.so.Listener(), owner, drn, sig.Hard(), o.log)
	if err != nil {
		return err
	}

	o.setRunning(true)

	defer func() {
		o.closeDrain()
		o.stopTermWatchdog()
		_ = o.so.Close()
		mon.Close()
		o.setRunning(false)
	}()

	liblog.Call(o.log).Info("%s: main loop started", liblog.Fields{"socket": o.so.Name()}, logTag)

	for {
		o.itr.Add(1)
		o.prm.incIterations()

		c, evt := mon.Wait()

		if evt != libmon.EvtConnection {
			liblog.Call(o.log).Info("%s: main loop leaving", liblog.Fields{"cause": evt.String()}, logTag)
			return nil
		}

		o.serve(c, sig)

		o.prc.Add(1)
		o.prm.incRequests()

		if o.overMemoryLimit() {
			liblog.Call(o.log).Warning("%s: memory ceiling exceeded, starting graceful termination", nil, logTag)
			o.triggerDrain()
		}
	}
}

// serve handles one accepted connection: decode, dispatch, close. Errors
// of any kind end this request only; the loop continues.
func (o *hdl) serve(c net.Conn, sig *sigState) {
	defer func() {
		_ = c.Close()
	}()

	h, b, err := libprt.ReadRequest(c)

	if err != nil {
		liblog.Call(o.log).Error("%s: aborting request", liblog.Fields{"error": err.CodeErrorTrace("")}, logTag)
		return
	} else if h == nil {
		// peer closed without sending a request
		return
	}

	wd := libwdg.New(o.cfg.RequestTimeout, o.cfg.KillSignal, h.Get(libprt.ServerName)+"/"+h.Get(libprt.RequestURI), o.log)
	defer wd.Stop()

	o.dispatch(h, b, c)

	if sig.Aborted() {
		liblog.Call(o.log).Error("%s: aborting request", liblog.Fields{"error": "SIGABRT"}, logTag)
	}
}

// dispatch invokes the application callback, containing any escaping panic
// at the iteration boundary.
func (o *hdl) dispatch(h libprt.Headers, b io.Reader, c net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			liblog.Call(o.log).Error("%s: application callback panic", liblog.Fields{"panic": r}, logTag)
		}
	}()

	o.app(h, b, c)
}

// triggerDrain closes the graceful gate and arms the termination watchdog.
// Both effects happen at most once per handler.
func (o *hdl) triggerDrain() {
	o.m.Lock()
	drn, dro := o.drn, o.dro
	o.m.Unlock()

	if drn == nil {
		return
	}

	dro.Do(func() {
		close(drn)
	})

	o.two.Do(func() {
		w := libwdg.New(o.cfg.TerminationTimeout, o.cfg.KillSignal, "graceful termination", o.log)

		o.m.Lock()
		o.twd = w
		o.m.Unlock()
	})
}

// closeDrain closes the graceful gate without arming the watchdog, so the
// loop exit path releases both ends of the gate.
func (o *hdl) closeDrain() {
	o.m.Lock()
	drn, dro := o.drn, o.dro
	o.m.Unlock()

	if drn == nil {
		return
	}

	dro.Do(func() {
		close(drn)
	})
}

func (o *hdl) stopTermWatchdog() {
	o.m.Lock()
	w := o.twd
	o.m.Unlock()

	if w != nil {
		w.Stop()
	}
}

func (o *hdl) setRunning(v bool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.run = v
	o.c.Broadcast()
}

func (o *hdl) setDone(res liberr.Error) {
	o.m.Lock()
	defer o.m.Unlock()

	o.don = true
	o.res = res
	o.c.Broadcast()
}

func (o *hdl) StartMainLoopThread() liberr.Error {
	o.thr.Add(1)

	go func() {
		defer o.thr.Done()
		_ = o.MainLoop()
	}()

	o.m.Lock()

	for !o.run && !o.don {
		o.c.Wait()
	}

	run, res := o.run, o.res
	o.m.Unlock()

	if !run {
		return ErrorLoopNotStarted.Error(res)
	}

	return nil
}

func (o *hdl) Cleanup() {
	o.cuo.Do(func() {
		o.m.Lock()
		o.clo = true
		o.m.Unlock()

		// closing the endpoint interrupts the readiness wait of the loop
		_ = o.so.Close()

		o.m.Lock()
		for o.run {
			o.c.Wait()
		}
		o.m.Unlock()

		o.thr.Wait()

		o.stopTermWatchdog()

		if o.onr != nil {
			_ = o.onr.Close()
		}

		liblog.Call(o.log).Debug("%s: cleaned up", nil, logTag)
	})
}

func (o *hdl) Name() string {
	return o.so.Name()
}

func (o *hdl) Abstract() bool {
	return o.so.Abstract()
}

func (o *hdl) Iterations() uint64 {
	return o.itr.Load()
}

func (o *hdl) ProcessedRequests() uint64 {
	return o.prc.Load()
}

func (o *hdl) IsRunning() bool {
	o.m.Lock()
	defer o.m.Unlock()

	return o.run
}
