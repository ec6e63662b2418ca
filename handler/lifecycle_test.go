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

package handler_test

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	libhdl "github.com/spohlenz/passenger/handler"
	libprt "github.com/spohlenz/passenger/protocol"
	libsck "github.com/spohlenz/passenger/socket"
)

// okApp answers a fixed response after draining the body.
func okApp(_ libprt.Headers, body io.Reader, client io.Writer) {
	_, _ = io.Copy(io.Discard, body)
	_, _ = fmt.Fprint(client, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok")
}

// sendRequest connects, sends one request and returns the raw response.
func sendRequest(h libhdl.Handler, hdr libprt.Headers, body []byte) (string, error) {
	c, err := libsck.Dial(h.Name(), h.Abstract())
	if err != nil {
		return "", err
	}

	defer func() {
		_ = c.Close()
	}()

	if e := libprt.WriteRequest(c, hdr, body); e != nil {
		return "", e
	}

	b, err := io.ReadAll(c)

	return string(b), err
}

var _ = Describe("handler", func() {
	var (
		h     libhdl.Handler
		err   error
		ownR  *os.File
		ownW  *os.File
		terse = libprt.Headers{"REQUEST_METHOD": "GET", "PATH_INFO": "/"}
	)

	start := func(app libhdl.Callback, cfg libhdl.Config) {
		var e error

		ownR, ownW, e = os.Pipe()
		Expect(e).ToNot(HaveOccurred())

		h, err = libhdl.New(ownR, app, cfg, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(h.StartMainLoopThread()).ToNot(HaveOccurred())
		Expect(h.IsRunning()).To(BeTrue())
	}

	AfterEach(func() {
		if h != nil {
			h.Cleanup()
			h = nil
		}

		if ownW != nil {
			_ = ownW.Close()
			ownW = nil
		}
	})

	Context("serving one request", func() {
		It("must hand the response back and count the request", func() {
			start(okApp, libhdl.Config{})

			res, e := sendRequest(h, terse, nil)
			Expect(e).ToNot(HaveOccurred())
			Expect(res).To(HaveSuffix("ok"))

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(1))
			Expect(h.Iterations()).To(BeNumerically(">=", h.ProcessedRequests()))
		})

		It("must deliver a header map mirroring the body length", func() {
			var seen atomic.Value

			app := func(hd libprt.Headers, body io.Reader, client io.Writer) {
				seen.Store(hd.Clone())
				okApp(hd, body, client)
			}

			start(app, libhdl.Config{})

			hdr := terse.Clone()
			hdr.Set(libprt.HTTPContentLength, "4")

			_, e := sendRequest(h, hdr, []byte("data"))
			Expect(e).ToNot(HaveOccurred())

			Eventually(seen.Load, time.Second).ShouldNot(BeNil())

			got := seen.Load().(libprt.Headers)
			Expect(got.Get(libprt.ContentLength)).To(Equal(got.Get(libprt.HTTPContentLength)))
		})

		It("must expose a forward-only body to the application", func() {
			var seekable atomic.Bool

			app := func(hd libprt.Headers, body io.Reader, client io.Writer) {
				_, ok := body.(io.Seeker)
				seekable.Store(ok)
				okApp(hd, body, client)
			}

			start(app, libhdl.Config{})

			hdr := terse.Clone()
			hdr.Set(libprt.HTTPContentLength, "4")

			_, e := sendRequest(h, hdr, []byte("data"))
			Expect(e).ToNot(HaveOccurred())

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(1))
			Expect(seekable.Load()).To(BeFalse())
		})
	})

	Context("serving several requests in sequence", func() {
		It("must count every request exactly once", func() {
			start(okApp, libhdl.Config{})

			for i := 0; i < 3; i++ {
				_, e := sendRequest(h, terse, nil)
				Expect(e).ToNot(HaveOccurred())
			}

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(3))
		})
	})

	Context("receiving an oversized metadata announcement", func() {
		It("must abort the request, keep the loop and serve the next one", func() {
			start(okApp, libhdl.Config{})

			c, e := libsck.Dial(h.Name(), h.Abstract())
			Expect(e).ToNot(HaveOccurred())

			_, e = c.Write([]byte{0x00, 0x02, 0x00, 0x01})
			Expect(e).ToNot(HaveOccurred())

			b, e := io.ReadAll(c)
			Expect(e).ToNot(HaveOccurred())
			Expect(b).To(BeEmpty())
			_ = c.Close()

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(1))

			res, e := sendRequest(h, terse, nil)
			Expect(e).ToNot(HaveOccurred())
			Expect(res).To(HaveSuffix("ok"))

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(2))
		})
	})

	Context("application misbehavior", func() {
		It("a panicking callback must not take the loop down", func() {
			app := func(libprt.Headers, io.Reader, io.Writer) {
				panic("boom")
			}

			start(app, libhdl.Config{})

			_, _ = sendRequest(h, terse, nil)

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(1))
			Expect(h.IsRunning()).To(BeTrue())
		})

		It("an aborting callback must be reported as a request failure, not a death", func() {
			app := func(hd libprt.Headers, body io.Reader, client io.Writer) {
				_ = syscall.Kill(os.Getpid(), syscall.SIGABRT)
				time.Sleep(50 * time.Millisecond)
				okApp(hd, body, client)
			}

			start(app, libhdl.Config{})

			res, e := sendRequest(h, terse, nil)
			Expect(e).ToNot(HaveOccurred())
			Expect(res).To(HaveSuffix("ok"))

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(1))
			Expect(h.IsRunning()).To(BeTrue())
		})
	})

	Context("soft termination while a request is in flight", func() {
		It("must finish the request, then leave the loop", func() {
			app := func(hd libprt.Headers, body io.Reader, client io.Writer) {
				time.Sleep(300 * time.Millisecond)
				okApp(hd, body, client)
			}

			start(app, libhdl.Config{})

			done := make(chan string, 1)

			go func() {
				defer GinkgoRecover()

				res, e := sendRequest(h, terse, nil)
				Expect(e).ToNot(HaveOccurred())
				done <- res
			}()

			// let the request reach the callback before signaling
			time.Sleep(100 * time.Millisecond)
			Expect(syscall.Kill(os.Getpid(), syscall.SIGUSR1)).ToNot(HaveOccurred())

			Eventually(done, 2*time.Second).Should(Receive(HaveSuffix("ok")))
			Eventually(h.IsRunning, 2*time.Second).Should(BeFalse())
			Expect(h.ProcessedRequests()).To(BeEquivalentTo(1))
		})

		It("must remove a filesystem socket when the loop returns", func() {
			Expect(os.Setenv(libsck.EnvNoAbstractNamespace, "1")).ToNot(HaveOccurred())

			defer func() {
				_ = os.Unsetenv(libsck.EnvNoAbstractNamespace)
			}()

			start(okApp, libhdl.Config{})

			name := h.Name()

			_, e := os.Stat(name)
			Expect(e).ToNot(HaveOccurred())

			Expect(syscall.Kill(os.Getpid(), syscall.SIGUSR1)).ToNot(HaveOccurred())

			Eventually(h.IsRunning, 2*time.Second).Should(BeFalse())
			Eventually(func() bool {
				_, e := os.Stat(name)
				return os.IsNotExist(e)
			}, time.Second).Should(BeTrue())
		})
	})

	Context("hard termination", func() {
		It("must leave the loop without draining", func() {
			start(okApp, libhdl.Config{})

			Expect(syscall.Kill(os.Getpid(), syscall.SIGTERM)).ToNot(HaveOccurred())

			Eventually(h.IsRunning, 2*time.Second).Should(BeFalse())
		})
	})

	Context("the parent going away", func() {
		It("must leave the loop on owner pipe end of stream", func() {
			start(okApp, libhdl.Config{})

			Expect(ownW.Close()).ToNot(HaveOccurred())
			ownW = nil

			Eventually(h.IsRunning, 2*time.Second).Should(BeFalse())
		})
	})

	Context("a memory ceiling of one byte", func() {
		It("must drain right after the first request", func() {
			start(okApp, libhdl.Config{MemoryLimit: 1})

			res, e := sendRequest(h, terse, nil)
			Expect(e).ToNot(HaveOccurred())
			Expect(res).To(HaveSuffix("ok"))

			Eventually(h.IsRunning, 2*time.Second).Should(BeFalse())
			Expect(h.ProcessedRequests()).To(BeEquivalentTo(1))
		})
	})

	Context("cleanup", func() {
		It("must unwind a running loop and be idempotent", func() {
			start(okApp, libhdl.Config{})

			h.Cleanup()
			Expect(h.IsRunning()).To(BeFalse())

			h.Cleanup()
			h = nil
		})

		It("must refuse a main loop after cleanup", func() {
			start(okApp, libhdl.Config{})

			h.Cleanup()

			e := h.MainLoop()
			Expect(e).To(HaveOccurred())
			Expect(e.HasCode(libhdl.ErrorHandlerClosed)).To(BeTrue())
		})
	})

	Context("construction", func() {
		It("must reject a missing application callback", func() {
			_, e := libhdl.New(nil, nil, libhdl.Config{}, nil)
			Expect(e).To(HaveOccurred())
			Expect(e.HasCode(libhdl.ErrorParamEmpty)).To(BeTrue())
		})

		It("must reject a hostile socket prefix", func() {
			_, e := libhdl.New(nil, okApp, libhdl.Config{SocketPrefix: "../escape"}, nil)
			Expect(e).To(HaveOccurred())
			Expect(e.HasCode(libhdl.ErrorValidatorError)).To(BeTrue())
		})

		It("must disclose the endpoint name right after construction", func() {
			nh, e := libhdl.New(nil, okApp, libhdl.Config{}, nil)
			Expect(e).ToNot(HaveOccurred())

			Expect(nh.Name()).ToNot(BeEmpty())

			nh.Cleanup()
		})
	})

	Context("metrics registration", func() {
		It("must mirror the loop counters", func() {
			reg := prometheus.NewRegistry()

			start(okApp, libhdl.Config{Metrics: reg})

			_, e := sendRequest(h, terse, nil)
			Expect(e).ToNot(HaveOccurred())

			Eventually(h.ProcessedRequests, time.Second).Should(BeEquivalentTo(1))

			mfs, e := reg.Gather()
			Expect(e).ToNot(HaveOccurred())

			vals := make(map[string]float64, len(mfs))
			for _, mf := range mfs {
				vals[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
			}

			Expect(vals["passenger_handler_requests_total"]).To(BeNumerically("==", 1))
			Expect(vals["passenger_handler_iterations_total"]).To(BeNumerically(">=", 1))
		})
	})
})
