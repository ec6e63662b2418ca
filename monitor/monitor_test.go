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

package monitor_test

import (
	"net"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	libmon "github.com/spohlenz/passenger/monitor"
	libsck "github.com/spohlenz/passenger/socket"
)

var _ = Describe("monitor", func() {
	var (
		ep  libsck.Endpoint
		err error
	)

	BeforeEach(func() {
		Expect(os.Setenv(libsck.EnvNoAbstractNamespace, "1")).ToNot(HaveOccurred())

		ep, err = libsck.New("", nil)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		_ = ep.Close()
		_ = os.Unsetenv(libsck.EnvNoAbstractNamespace)
	})

	Context("with an incoming connection", func() {
		It("Wait must return the connection", func() {
			m, e := libmon.New(ep.Listener(), nil, nil, nil, nil)
			Expect(e).ToNot(HaveOccurred())

			go func() {
				defer GinkgoRecover()

				c, e := libsck.Dial(ep.Name(), ep.Abstract())
				Expect(e).ToNot(HaveOccurred())
				_ = c.Close()
			}()

			c, evt := m.Wait()
			Expect(evt).To(Equal(libmon.EvtConnection))
			Expect(c).ToNot(BeNil())
			_ = c.Close()

			_ = ep.Close()
			m.Close()
		})
	})

	Context("with the graceful gate closed", func() {
		It("Wait must report graceful termination", func() {
			drn := make(chan struct{})
			m, e := libmon.New(ep.Listener(), nil, drn, nil, nil)
			Expect(e).ToNot(HaveOccurred())

			close(drn)

			c, evt := m.Wait()
			Expect(evt).To(Equal(libmon.EvtDrain))
			Expect(c).To(BeNil())

			_ = ep.Close()
			m.Close()
		})
	})

	Context("with the owner pipe closed", func() {
		It("Wait must report the owner as gone", func() {
			r, w, e := os.Pipe()
			Expect(e).ToNot(HaveOccurred())

			m, e := libmon.New(ep.Listener(), r, nil, nil, nil)
			Expect(e).ToNot(HaveOccurred())

			Expect(w.Close()).ToNot(HaveOccurred())

			c, evt := m.Wait()
			Expect(evt).To(Equal(libmon.EvtOwnerGone))
			Expect(c).To(BeNil())

			_ = ep.Close()
			m.Close()
			_ = r.Close()
		})
	})

	Context("with a hard termination pending", func() {
		It("Wait must prioritize it over a ready connection", func() {
			hrd := make(chan os.Signal, 1)
			m, e := libmon.New(ep.Listener(), nil, nil, hrd, nil)
			Expect(e).ToNot(HaveOccurred())

			var cl net.Conn
			go func() {
				defer GinkgoRecover()

				c, e := libsck.Dial(ep.Name(), ep.Abstract())
				Expect(e).ToNot(HaveOccurred())
				cl = c
			}()

			// let the accept pump hold the pending connection first
			time.Sleep(100 * time.Millisecond)
			hrd <- os.Interrupt

			_, evt := m.Wait()
			Expect(evt).To(Equal(libmon.EvtHard))

			_ = ep.Close()
			m.Close()

			if cl != nil {
				_ = cl.Close()
			}
		})
	})

	Context("with the endpoint closed", func() {
		It("Wait must report the monitor as closed", func() {
			m, e := libmon.New(ep.Listener(), nil, nil, nil, nil)
			Expect(e).ToNot(HaveOccurred())

			Expect(ep.Close()).ToNot(HaveOccurred())

			c, evt := m.Wait()
			Expect(evt).To(Equal(libmon.EvtClosed))
			Expect(c).To(BeNil())

			m.Close()
		})
	})

	Context("without a listener", func() {
		It("New must be rejected", func() {
			m, e := libmon.New(nil, nil, nil, nil, nil)
			Expect(m).To(BeNil())
			Expect(e).To(HaveOccurred())
			Expect(e.HasCode(libmon.ErrorParamEmpty)).To(BeTrue())
		})
	})
})
