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

// Package random produces cryptographically strong identities used to name
// private sockets. Identities are drawn from the OS entropy source in
// 512-bit blocks and rendered as hex or URL-safe base64.
package random

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"

	liberr "github.com/spohlenz/passenger/errors"
)

// drawSize is the number of bytes pulled from the OS entropy source per
// block: 512 bits.
const drawSize = 64

// HexIdentity returns n chars of lowercase hex rendered from OS entropy.
func HexIdentity(n int) (string, liberr.Error) {
	if n < 1 {
		return "", ErrorParamEmpty.Error()
	}

	var buf strings.Builder

	for buf.Len() < n {
		blk, err := draw()
		if err != nil {
			return "", err
		}

		buf.WriteString(hex.EncodeToString(blk))
	}

	return buf.String()[:n], nil
}

// Base64Identity returns n chars of URL-safe base64 rendered from OS
// entropy. The alphabet never contains '+' or '/', so the result is safe to
// embed in a filesystem path.
func Base64Identity(n int) (string, liberr.Error) {
	if n < 1 {
		return "", ErrorParamEmpty.Error()
	}

	var buf strings.Builder

	for buf.Len() < n {
		blk, err := draw()
		if err != nil {
			return "", err
		}

		buf.WriteString(base64.URLEncoding.EncodeToString(blk))
	}

	return buf.String()[:n], nil
}

func draw() ([]byte, liberr.Error) {
	blk := make([]byte, drawSize)

	if _, err := rand.Read(blk); err != nil {
		return nil, ErrorEntropyRead.Error(err)
	}

	return blk, nil
}
