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

// Package protocol implements the framed request encoding spoken on the
// private socket between the web server and a request handler.
//
// Wire format for one request on one connection:
//
//	request  := u32be length || length bytes of metadata || body
//	metadata := (name NUL value NUL)*
//
// The body length is given by the CONTENT_LENGTH metadata entry and is
// streamed from the same connection after the metadata block.
package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strconv"

	liberr "github.com/spohlenz/passenger/errors"
)

// ReadRequest decodes one request from the given stream.
//
// A clean end of stream before the first prefix byte means the peer opened
// and closed the connection without sending a request: all three results are
// nil. Any later truncation is an error for this request.
//
// The returned body reader is a forward-only view over the same stream,
// bounded by the decoded CONTENT_LENGTH (missing or unparseable means an
// empty body). It deliberately implements io.Reader and nothing else, so
// frameworks probing for seek or rewind support fall back to streaming.
func ReadRequest(r io.Reader) (Headers, io.Reader, liberr.Error) {
	if r == nil {
		return nil, nil, ErrorParamEmpty.Error()
	}

	var pfx [4]byte

	if _, err := io.ReadFull(r, pfx[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}

		return nil, nil, ErrorPrefixRead.Error(err)
	}

	size := binary.BigEndian.Uint32(pfx[:])

	if size > MaxHeaderSize {
		return nil, nil, ErrorHeaderTooLarge.Error()
	}

	meta := make([]byte, size)

	if _, err := io.ReadFull(r, meta); err != nil {
		return nil, nil, ErrorMetadataRead.Error(err)
	}

	h := parseMetadata(meta)

	return h, &bodyReader{r: io.LimitReader(r, contentLength(h))}, nil
}

// parseMetadata splits the metadata block on NUL and pairs consecutive
// elements into the header mapping. An odd trailing element is discarded.
func parseMetadata(meta []byte) Headers {
	meta = bytes.TrimSuffix(meta, []byte{0})

	var (
		h   = make(Headers)
		lst [][]byte
	)

	if len(meta) > 0 {
		lst = bytes.Split(meta, []byte{0})
	}

	for i := 0; i+1 < len(lst); i += 2 {
		h[string(lst[i])] = string(lst[i+1])
	}

	if v, ok := h[HTTPContentLength]; ok {
		h[ContentLength] = v
	} else {
		delete(h, ContentLength)
	}

	return h
}

func contentLength(h Headers) int64 {
	n, err := strconv.ParseInt(h.Get(ContentLength), 10, 64)

	if err != nil || n < 0 {
		return 0
	}

	return n
}

// bodyReader is the forward-only request body stream.
type bodyReader struct {
	r io.Reader
}

func (o *bodyReader) Read(p []byte) (int, error) {
	return o.r.Read(p)
}
