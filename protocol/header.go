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

const (
	// MaxHeaderSize is the maximum allowed size in bytes of the metadata
	// block of one request.
	MaxHeaderSize = 131072

	// ContentLength is the canonical body-length header name.
	ContentLength = "CONTENT_LENGTH"

	// HTTPContentLength is the body-length header name as transported on
	// the wire; it is mirrored into ContentLength on decoding.
	HTTPContentLength = "HTTP_CONTENT_LENGTH"

	// ServerName names the virtual host serving the request.
	ServerName = "SERVER_NAME"

	// RequestURI is the raw request target.
	RequestURI = "REQUEST_URI"

	// RequestMethod is the request verb.
	RequestMethod = "REQUEST_METHOD"

	// PathInfo is the path portion of the request target.
	PathInfo = "PATH_INFO"
)

// Headers is the request metadata: a mapping from header name to value.
type Headers map[string]string

// Get returns the value stored for the given name, or empty.
func (h Headers) Get(name string) string {
	if h == nil {
		return ""
	}

	return h[name]
}

// Set stores the given value under the given name.
func (h Headers) Set(name, value string) {
	if h == nil {
		return
	}

	h[name] = value
}

// Clone returns an independent copy of the mapping.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}

	res := make(Headers, len(h))
	for k, v := range h {
		res[k] = v
	}

	return res
}
