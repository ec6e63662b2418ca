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

package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	liberr "github.com/spohlenz/passenger/errors"
)

// WriteRequest encodes one request onto the given stream: length prefix,
// NUL-separated metadata pairs, then the raw body. Pairs are written in
// sorted name order so the encoding is deterministic.
func WriteRequest(w io.Writer, h Headers, body []byte) liberr.Error {
	if w == nil {
		return ErrorParamEmpty.Error()
	}

	meta := encodeMetadata(h)

	if len(meta) > MaxHeaderSize {
		return ErrorHeaderTooLarge.Error()
	}

	var pfx [4]byte
	binary.BigEndian.PutUint32(pfx[:], uint32(len(meta)))

	if _, err := w.Write(pfx[:]); err != nil {
		return ErrorMetadataWrite.Error(err)
	}

	if _, err := w.Write(meta); err != nil {
		return ErrorMetadataWrite.Error(err)
	}

	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return ErrorBodyWrite.Error(err)
		}
	}

	return nil
}

func encodeMetadata(h Headers) []byte {
	var (
		buf bytes.Buffer
		lst = make([]string, 0, len(h))
	)

	for k := range h {
		lst = append(lst, k)
	}

	sort.Strings(lst)

	for _, k := range lst {
		buf.WriteString(k)
		buf.WriteByte(0)
		buf.WriteString(h[k])
		buf.WriteByte(0)
	}

	return buf.Bytes()
}
