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
	"path"
	"path/filepath"
	"runtime"
)

// pkgDir is the source directory of this package, resolved once so the
// frame capture can tell its own frames apart from caller frames by file
// location instead of by symbol name.
var pkgDir = func() string {
	if _, file, _, ok := runtime.Caller(0); ok {
		return path.Dir(filepath.ToSlash(file))
	}

	return ""
}()

// getFrame returns the nearest caller frame located outside of this
// package's source directory. Only the fields used by trace rendering are
// kept.
func getFrame() runtime.Frame {
	var pcs [16]uintptr

	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs[:])])

	for {
		f, more := frames.Next()

		if f.File != "" && path.Dir(filepath.ToSlash(f.File)) != pkgDir {
			return runtime.Frame{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			}
		}

		if !more {
			return runtime.Frame{}
		}
	}
}
