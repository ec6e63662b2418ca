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
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ers is a coded error with an optional parent chain. Every query over the
// chain is derived from the single depth-first traversal in Map, so the
// hierarchy is walked in exactly one place.
type ers struct {
	code uint16
	msg  string
	par  []Error
	src  runtime.Frame
}

// Map runs the given function on this error, then depth-first on every
// parent. The walk stops as soon as the function returns false.
func (e *ers) Map(fct FuncMap) bool {
	if !fct(e) {
		return false
	}

	for _, p := range e.par {
		if !p.Map(fct) {
			return false
		}
	}

	return true
}

// find walks the chain and reports whether any element matches.
func (e *ers) find(match func(err Error) bool) bool {
	found := false

	e.Map(func(v error) bool {
		if x, ok := v.(Error); ok && match(x) {
			found = true
		}

		return !found
	})

	return found
}

// collect walks the chain and gathers one value per element.
func collect[T any](e *ers, get func(err Error) T) []T {
	res := make([]T, 0, len(e.par)+1)

	e.Map(func(v error) bool {
		if x, ok := v.(Error); ok {
			res = append(res, get(x))
		}

		return true
	})

	return res
}

func (e *ers) IsCode(code CodeError) bool {
	return e.code == code.Uint16()
}

func (e *ers) HasCode(code CodeError) bool {
	return e.find(func(err Error) bool {
		return err.IsCode(code)
	})
}

func (e *ers) GetCode() CodeError {
	return CodeError(e.code)
}

func (e *ers) GetParentCode() []CodeError {
	return collect(e, Error.GetCode)
}

// Is reports whether err denotes the same failure: coded errors match on
// their code, uncoded ones on their message.
func (e *ers) Is(err error) bool {
	if err == nil {
		return false
	}

	var o Error

	if errors.As(err, &o) && (e.code != 0 || o.Code() != 0) {
		return e.code == o.Code()
	}

	return e.IsError(err)
}

func (e *ers) IsError(err error) bool {
	if err == nil {
		return false
	}

	return strings.EqualFold(e.msg, err.Error())
}

func (e *ers) HasError(err error) bool {
	if err == nil {
		return false
	}

	self := true

	return e.find(func(v Error) bool {
		if self {
			self = false
			return false
		}

		return strings.EqualFold(v.StringError(), err.Error())
	})
}

func (e *ers) HasParent() bool {
	return len(e.par) > 0
}

func (e *ers) GetParent(withMainError bool) []error {
	self := true
	res := make([]error, 0, len(e.par)+1)

	e.Map(func(v error) bool {
		if self {
			self = false

			if !withMainError {
				return true
			}
		}

		res = append(res, v)

		return true
	})

	return res
}

func (e *ers) ContainsString(s string) bool {
	return e.find(func(err Error) bool {
		return strings.Contains(err.StringError(), s)
	})
}

// Add appends every non-nil given error to the parents. Foreign errors are
// captured by message; adding an error to itself is a no-op.
func (e *ers) Add(parent ...error) {
	for _, v := range parent {
		switch p := v.(type) {
		case nil:
		case *ers:
			if p != e {
				e.par = append(e.par, p)
			}
		case Error:
			e.par = append(e.par, p)
		default:
			e.par = append(e.par, &ers{msg: v.Error()})
		}
	}
}

func (e *ers) SetParent(parent ...error) {
	e.par = e.par[:0]
	e.Add(parent...)
}

func (e *ers) Code() uint16 {
	return e.code
}

func (e *ers) CodeSlice() []uint16 {
	return collect(e, Error.Code)
}

func (e *ers) CodeError(pattern string) string {
	if pattern == "" {
		pattern = defaultPattern
	}

	return fmt.Sprintf(pattern, e.code, e.msg)
}

func (e *ers) CodeErrorTrace(pattern string) string {
	if pattern == "" {
		pattern = defaultPatternTrace
	}

	return fmt.Sprintf(pattern, e.code, e.msg, e.GetTrace())
}

func (e *ers) Error() string {
	return strings.Join(e.StringErrorSlice(), ", ")
}

func (e *ers) StringError() string {
	return e.msg
}

func (e *ers) StringErrorSlice() []string {
	return collect(e, Error.StringError)
}

func (e *ers) Unwrap() []error {
	res := make([]error, 0, len(e.par))

	for _, p := range e.par {
		res = append(res, p)
	}

	return res
}

func (e *ers) GetTrace() string {
	switch {
	case e.src.File != "":
		return fmt.Sprintf("%s#%d", e.src.File, e.src.Line)
	case e.src.Function != "":
		return fmt.Sprintf("%s#%d", e.src.Function, e.src.Line)
	}

	return ""
}
