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

package errors

import (
	"math"
	"strconv"
)

// idMsgFct stores the mapping between error codes and their message functions.
// This allows customizing error messages for specific codes.
var idMsgFct = make(map[CodeError]Message)

// Message is a function type that generates error messages based on error codes.
type Message func(code CodeError) (message string)

// CodeError represents a numeric error code.
// It is a uint16 allowing codes from 0 to 65535.
// Each package of this module owns a range declared in modules.go.
type CodeError uint16

const (
	// UnknownError represents an error with no specific code (0).
	// Used as a fallback when error code cannot be determined.
	UnknownError CodeError = 0

	// UnknownMessage is the default message for UnknownError.
	UnknownMessage = "unknown error"

	// NullMessage represents an empty error message.
	NullMessage = ""
)

// ParseCodeError returns a CodeError value based on the input int64 value.
// Negative values collapse to UnknownError, values over uint16 to math.MaxUint16.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	} else {
		return CodeError(i)
	}
}

// Uint16 returns the CodeError value as a uint16.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// Int returns the CodeError value as an int.
func (c CodeError) Int() int {
	return int(c)
}

// String returns a string representation of the CodeError value.
func (c CodeError) String() string {
	return strconv.Itoa(c.Int())
}

// Message resolves the registered message for the code.
// An unregistered code resolves to UnknownMessage.
func (c CodeError) Message() string {
	if f, ok := idMsgFct[c]; ok {
		if m := f(c); m != NullMessage {
			return m
		}
	}

	return UnknownMessage
}

// Error builds a new Error instance for the code, with the given parents
// attached. The caller frame is captured for trace rendering.
func (c CodeError) Error(parent ...error) Error {
	e := &ers{
		code: c.Uint16(),
		msg:  c.Message(),
		src:  getFrame(),
	}

	e.Add(parent...)

	return e
}

// IfError returns a new Error for the code only if at least one given parent
// is a valid non-nil error, otherwise nil.
func (c CodeError) IfError(parent ...error) Error {
	var lst = make([]error, 0, len(parent))

	for _, p := range parent {
		if p != nil {
			lst = append(lst, p)
		}
	}

	if len(lst) < 1 {
		return nil
	}

	return c.Error(lst...)
}

// RegisterIdFctMessage registers a message function for all codes starting at
// the given minimum range code.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	for i := minCode; i < minCode+rangeSize; i++ {
		idMsgFct[i] = fct
	}
}

// ExistInMapMessage checks if the given code is already registered.
func ExistInMapMessage(code CodeError) bool {
	_, ok := idMsgFct[code]
	return ok
}
