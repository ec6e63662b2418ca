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
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// disposition records how a signal is handled by this process.
type disposition uint8

const (
	dispositionDefault disposition = iota
	dispositionIgnored
	dispositionTrapped
)

// trappable lists every signal whose disposition the loop resets on entry.
// SIGKILL and SIGSTOP cannot be trapped and are skipped silently.
var trappable = []os.Signal{
	syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGILL,
	syscall.SIGTRAP, syscall.SIGABRT, syscall.SIGBUS, syscall.SIGFPE,
	syscall.SIGUSR1, syscall.SIGSEGV, syscall.SIGUSR2, syscall.SIGPIPE,
	syscall.SIGALRM, syscall.SIGTERM, syscall.SIGCHLD, syscall.SIGCONT,
	syscall.SIGTSTP, syscall.SIGTTIN, syscall.SIGTTOU, syscall.SIGURG,
	syscall.SIGXCPU, syscall.SIGXFSZ, syscall.SIGVTALRM, syscall.SIGPROF,
	syscall.SIGWINCH, syscall.SIGIO, syscall.SIGSYS,
}

// sigState installs the signal discipline of one main-loop invocation and
// restores the recorded dispositions on exit.
//
// The hard-termination signal is exposed as a channel consumed by the
// lifecycle monitor. The soft-termination signal runs the given function
// once per delivery. SIGABRT is latched and surfaced synchronously at the
// iteration boundary through Aborted.
type sigState struct {
	hrd chan os.Signal
	sft chan os.Signal
	abr chan os.Signal

	sav map[os.Signal]disposition
	ins map[os.Signal]disposition

	abo atomic.Bool
	ro  sync.Once
	rst atomic.Bool
}

func newSigState(hard, soft syscall.Signal, onSoft func()) *sigState {
	s := &sigState{
		hrd: make(chan os.Signal, 1),
		sft: make(chan os.Signal, 1),
		abr: make(chan os.Signal, 1),
		sav: make(map[os.Signal]disposition, len(trappable)),
		ins: make(map[os.Signal]disposition, len(trappable)),
	}

	// back to defaults first, remembering what must be reinstalled on exit
	signal.Reset()

	for _, sg := range trappable {
		s.sav[sg] = dispositionDefault
		s.ins[sg] = dispositionDefault
	}

	signal.Ignore(syscall.SIGHUP)
	s.ins[syscall.SIGHUP] = dispositionIgnored

	signal.Notify(s.abr, syscall.SIGABRT)
	s.ins[syscall.SIGABRT] = dispositionTrapped

	signal.Notify(s.hrd, hard)
	s.ins[hard] = dispositionTrapped

	signal.Notify(s.sft, soft)
	s.ins[soft] = dispositionTrapped

	go func() {
		for range s.sft {
			onSoft()
		}
	}()

	go func() {
		for range s.abr {
			s.abo.Store(true)
		}
	}()

	return s
}

// Hard returns the hard-termination signal feed.
func (s *sigState) Hard() <-chan os.Signal {
	return s.hrd
}

// Aborted reports and clears the SIGABRT latch.
func (s *sigState) Aborted() bool {
	return s.abo.Swap(false)
}

// Restore reinstalls every recorded disposition. Restore is idempotent.
func (s *sigState) Restore() {
	s.ro.Do(func() {
		signal.Stop(s.hrd)
		signal.Stop(s.sft)
		signal.Stop(s.abr)

		for sg, d := range s.sav {
			switch d {
			case dispositionIgnored:
				signal.Ignore(sg)
			default:
				signal.Reset(sg)
			}
		}

		close(s.sft)
		close(s.abr)

		s.rst.Store(true)
	})
}

// restored reports whether Restore completed.
func (s *sigState) restored() bool {
	return s.rst.Load()
}

// saved returns the dispositions recorded at entry.
func (s *sigState) saved() map[os.Signal]disposition {
	res := make(map[os.Signal]disposition, len(s.sav))
	for k, v := range s.sav {
		res[k] = v
	}

	return res
}

// current returns the dispositions as installed right now: the entry
// recording overlaid with the loop handlers until Restore runs.
func (s *sigState) current() map[os.Signal]disposition {
	if s.restored() {
		return s.saved()
	}

	res := make(map[os.Signal]disposition, len(s.ins))
	for k, v := range s.ins {
		res[k] = v
	}

	return res
}
