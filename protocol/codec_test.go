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

package protocol_test

import (
	"bytes"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	libprt "github.com/spohlenz/passenger/protocol"
)

func frame(pairs ...string) []byte {
	var meta bytes.Buffer

	for _, p := range pairs {
		meta.WriteString(p)
		meta.WriteByte(0)
	}

	var buf bytes.Buffer
	buf.Write([]byte{
		byte(meta.Len() >> 24), byte(meta.Len() >> 16),
		byte(meta.Len() >> 8), byte(meta.Len()),
	})
	buf.Write(meta.Bytes())

	return buf.Bytes()
}

var _ = Describe("protocol", func() {
	Context("decoding one well-formed request", func() {
		It("must return the metadata pairs and an empty body", func() {
			src := bytes.NewReader(frame("REQUEST_METHOD", "GET", "PATH_INFO", "/"))

			h, body, err := libprt.ReadRequest(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(h).To(HaveLen(2))
			Expect(h.Get("REQUEST_METHOD")).To(Equal("GET"))
			Expect(h.Get("PATH_INFO")).To(Equal("/"))

			b, e := io.ReadAll(body)
			Expect(e).ToNot(HaveOccurred())
			Expect(b).To(BeEmpty())
		})

		It("must stream the body bounded by the announced length", func() {
			raw := frame("HTTP_CONTENT_LENGTH", "5")
			raw = append(raw, []byte("hellotrailing")...)

			h, body, err := libprt.ReadRequest(bytes.NewReader(raw))
			Expect(err).ToNot(HaveOccurred())
			Expect(h.Get(libprt.ContentLength)).To(Equal("5"))

			b, e := io.ReadAll(body)
			Expect(e).ToNot(HaveOccurred())
			Expect(string(b)).To(Equal("hello"))
		})

		It("must mirror HTTP_CONTENT_LENGTH into CONTENT_LENGTH, overwriting", func() {
			src := bytes.NewReader(frame("CONTENT_LENGTH", "99", "HTTP_CONTENT_LENGTH", "0"))

			h, _, err := libprt.ReadRequest(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(h.Get(libprt.ContentLength)).To(Equal(h.Get(libprt.HTTPContentLength)))
		})

		It("must drop CONTENT_LENGTH when HTTP_CONTENT_LENGTH is absent", func() {
			src := bytes.NewReader(frame("CONTENT_LENGTH", "99"))

			h, _, err := libprt.ReadRequest(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(h).ToNot(HaveKey(libprt.ContentLength))
		})

		It("must discard an odd trailing element", func() {
			src := bytes.NewReader(frame("NAME", "value", "DANGLING"))

			h, _, err := libprt.ReadRequest(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(h).To(HaveLen(1))
			Expect(h.Get("NAME")).To(Equal("value"))
		})

		It("must expose a forward-only body stream", func() {
			raw := frame("HTTP_CONTENT_LENGTH", "2")
			raw = append(raw, []byte("ok")...)

			_, body, err := libprt.ReadRequest(bytes.NewReader(raw))
			Expect(err).ToNot(HaveOccurred())

			_, seekable := body.(io.Seeker)
			Expect(seekable).To(BeFalse())
		})
	})

	Context("decoding malformed input", func() {
		It("must report no request on a clean end of stream", func() {
			h, body, err := libprt.ReadRequest(bytes.NewReader(nil))
			Expect(err).ToNot(HaveOccurred())
			Expect(h).To(BeNil())
			Expect(body).To(BeNil())
		})

		It("must reject a metadata block over the maximum size", func() {
			src := bytes.NewReader([]byte{0x00, 0x02, 0x00, 0x01})

			_, _, err := libprt.ReadRequest(src)
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libprt.ErrorHeaderTooLarge)).To(BeTrue())
		})

		It("must accept a metadata block of exactly the maximum size", func() {
			meta := bytes.Repeat([]byte{'a', 0}, libprt.MaxHeaderSize/2)

			var buf bytes.Buffer
			buf.Write([]byte{0x00, 0x02, 0x00, 0x00})
			buf.Write(meta)

			_, _, err := libprt.ReadRequest(&buf)
			Expect(err).ToNot(HaveOccurred())
		})

		It("must fail on a truncated length prefix", func() {
			_, _, err := libprt.ReadRequest(bytes.NewReader([]byte{0x00, 0x00}))
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libprt.ErrorPrefixRead)).To(BeTrue())
		})

		It("must fail on a truncated metadata block", func() {
			src := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x10, 'a', 0, 'b', 0})

			_, _, err := libprt.ReadRequest(src)
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libprt.ErrorMetadataRead)).To(BeTrue())
		})
	})

	Context("round-trip through the encoder", func() {
		It("must reconstruct the mapping and the body", func() {
			org := libprt.Headers{
				"REQUEST_METHOD":      "POST",
				"PATH_INFO":           "/submit",
				"SERVER_NAME":         "example.com",
				"HTTP_CONTENT_LENGTH": "11",
			}
			pay := []byte("hello world")

			var buf bytes.Buffer
			Expect(libprt.WriteRequest(&buf, org, pay)).ToNot(HaveOccurred())

			h, body, err := libprt.ReadRequest(&buf)
			Expect(err).ToNot(HaveOccurred())

			exp := org.Clone()
			exp.Set(libprt.ContentLength, org.Get(libprt.HTTPContentLength))
			Expect(h).To(Equal(exp))

			b, e := io.ReadAll(body)
			Expect(e).ToNot(HaveOccurred())
			Expect(b).To(Equal(pay))
		})

		It("must reject an encoded metadata block over the maximum size", func() {
			org := libprt.Headers{"HUGE": string(bytes.Repeat([]byte{'x'}, libprt.MaxHeaderSize))}

			err := libprt.WriteRequest(io.Discard, org, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libprt.ErrorHeaderTooLarge)).To(BeTrue())
		})
	})
})
