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

import "github.com/spohlenz/passenger/errors"

const (
	ErrorParamEmpty errors.CodeError = iota + errors.MinPkgProtocol
	ErrorHeaderTooLarge
	ErrorPrefixRead
	ErrorMetadataRead
	ErrorMetadataWrite
	ErrorBodyWrite
)

func init() {
	if errors.ExistInMapMessage(ErrorParamEmpty) {
		panic("error code range already registered")
	}
	errors.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorHeaderTooLarge:
		return "request metadata block exceeds the allowed maximum size"
	case ErrorPrefixRead:
		return "error occurs on reading the request length prefix"
	case ErrorMetadataRead:
		return "error occurs on reading the request metadata block"
	case ErrorMetadataWrite:
		return "error occurs on writing the request metadata block"
	case ErrorBodyWrite:
		return "error occurs on writing the request body"
	}

	return errors.NullMessage
}
