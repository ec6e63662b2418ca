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

package watchdog_test

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	libwdg "github.com/spohlenz/passenger/watchdog"
)

// SIGWINCH is harmless to the test process and unused elsewhere in the
// suite, making delivery observable without side effects.
const probeSignal = syscall.SIGWINCH

var _ = Describe("watchdog", func() {
	var rcv chan os.Signal

	BeforeEach(func() {
		rcv = make(chan os.Signal, 1)
		signal.Notify(rcv, probeSignal)
	})

	AfterEach(func() {
		signal.Stop(rcv)
		signal.Reset(probeSignal)
	})

	Context("expiring", func() {
		It("must deliver the armed signal to this process", func() {
			w := libwdg.New(50*time.Millisecond, probeSignal, "expiry probe", nil)

			defer w.Stop()

			Eventually(rcv, 2*time.Second).Should(Receive())
		})
	})

	Context("stopped before the timeout", func() {
		It("must not deliver anything", func() {
			w := libwdg.New(200*time.Millisecond, probeSignal, "cancelled probe", nil)
			w.Stop()

			Consistently(rcv, 500*time.Millisecond).ShouldNot(Receive())
		})

		It("stopping twice must be safe", func() {
			w := libwdg.New(time.Minute, probeSignal, "double stop", nil)
			w.Stop()
			w.Stop()
		})

		It("stopping concurrently with the firing timer must be safe", func() {
			w := libwdg.New(time.Nanosecond, probeSignal, "race probe", nil)

			time.Sleep(10 * time.Millisecond)
			w.Stop()

			// drain an eventual delivery that won the race
			select {
			case <-rcv:
			case <-time.After(100 * time.Millisecond):
			}
		})
	})
})
