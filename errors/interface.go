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

// Package errors provides error handling with numeric error codes, caller
// trace capture and parent error chaining.
//
// Each package of this module reserves a code range in modules.go and
// declares its codes in a local error.go, registering a message function
// with RegisterIdFctMessage in an init().
//
// Example usage:
//
//	import liberr "github.com/spohlenz/passenger/errors"
//
//	const ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgSocket
//
//	err := ErrorParamEmpty.Error(cause)
//	if err.HasCode(ErrorParamEmpty) { ... }
//
// Errors remain compatible with the standard library errors.Is / errors.As
// through Is and Unwrap.
package errors

import (
	"errors"
	"strings"
)

// FuncMap is called for the main error and each parent while walking an
// error with Map. Returning false stops the walk.
type FuncMap func(e error) bool

// Error is the interface implemented by coded errors of this module.
//
// All methods are safe for concurrent reads, but modification methods
// (Add, SetParent) are not safe for concurrent use.
type Error interface {
	error

	// IsCode checks if the error's own code matches the given code,
	// without checking parents.
	IsCode(code CodeError) bool
	// HasCode checks if the current error or any parent carries the code.
	HasCode(code CodeError) bool
	// GetCode returns the CodeError value of the current error.
	GetCode() CodeError
	// GetParentCode returns the code of the current error followed by the
	// codes of all parents.
	GetParentCode() []CodeError

	// Is implements compatibility with the root package errors.Is function.
	Is(e error) bool
	// IsError checks if the given error matches the current error message.
	IsError(e error) bool
	// HasError checks if the given error is found within the parents.
	HasError(err error) bool
	// HasParent checks if the current error has any valid parent.
	HasParent() bool
	// GetParent returns all parents, optionally prefixed with the main error.
	GetParent(withMainError bool) []error
	// Map runs the given function on the main error, then depth-first on
	// every parent, stopping when the function returns false.
	Map(fct FuncMap) bool
	// ContainsString checks the main and parent messages for the given part.
	ContainsString(s string) bool

	// Add appends every non-nil given error to the parents of the current
	// error.
	Add(parent ...error)
	// SetParent replaces all parents with the given error list.
	SetParent(parent ...error)

	// Code returns the code of the current error as uint16.
	Code() uint16
	// CodeSlice returns the codes of the current error and all parents.
	CodeSlice() []uint16

	// CodeError renders "[code N] message" for the current error using the
	// given pattern (defaulting to defaultPattern when empty).
	CodeError(pattern string) string
	// CodeErrorTrace renders "[code N] message (source)" for the current error
	// using the given pattern (defaulting to defaultPatternTrace when empty).
	CodeErrorTrace(pattern string) string

	// Error implements the error interface.
	Error() string

	// StringError returns the message of the current error without parents.
	StringError() string
	// StringErrorSlice returns the messages of the current error and all
	// parents.
	StringErrorSlice() []string

	// Unwrap sets compliance with the standard errors.Is / errors.As.
	Unwrap() []error

	// GetTrace returns the captured "file#line" source of the current error.
	GetTrace() string
}

const (
	defaultPattern      = "[code %d] %s"
	defaultPatternTrace = "[code %d] %s (%s)"
)

// Is checks if the given error is of type Error.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns the given error as an Error interface if it is one, else nil.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}

	return nil
}

// Has checks if the given error or any of its parents carries the code.
func Has(e error, code CodeError) bool {
	if err := Get(e); err == nil {
		return false
	} else {
		return err.HasCode(code)
	}
}

// ContainsString checks if the given error message contains the given string.
func ContainsString(e error, s string) bool {
	if e == nil {
		return false
	} else if err := Get(e); err == nil {
		return strings.Contains(e.Error(), s)
	} else {
		return err.ContainsString(s)
	}
}

// New builds an un-coded Error from a plain message, mainly useful for tests
// and for wrapping foreign errors at package boundaries.
func New(message string, parent ...error) Error {
	e := &ers{
		msg: message,
		src: getFrame(),
	}

	e.Add(parent...)

	return e
}
