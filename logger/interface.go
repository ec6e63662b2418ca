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

// Package logger fronts logrus with a small structured logging surface.
//
// Components of this module never hold a Logger directly: they receive a
// FuncLog provider so the caller can swap or reconfigure logging at any time
// without re-wiring the component.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// FuncLog is a function type that returns a Logger instance.
// This is used for dependency injection and lazy initialization of loggers.
type FuncLog func() Logger

// Fields are custom information added into log messages.
type Fields map[string]interface{}

// Logger is the interface for structured logging operations.
// All methods are safe to call on a nil receiver and act as a no-op.
type Logger interface {
	// SetLevel allows to change the minimal level of log message
	SetLevel(lvl Level)

	// GetLevel returns the minimal level of log message
	GetLevel() Level

	// SetFields allows to set or update the default fields added to all
	// entries emitted by this logger
	SetFields(fields Fields)

	// GetFields returns the default fields added to all entries
	GetFields() Fields

	// Debug adds an entry with DebugLevel to the logger
	Debug(message string, data interface{}, args ...interface{})

	// Info adds an entry with InfoLevel to the logger
	Info(message string, data interface{}, args ...interface{})

	// Warning adds an entry with WarnLevel to the logger
	Warning(message string, data interface{}, args ...interface{})

	// Error adds an entry with ErrorLevel to the logger
	Error(message string, data interface{}, args ...interface{})

	// CheckError logs the given errors at lvlKO if at least one is not nil
	// and returns true, otherwise logs the message at lvlOK (unless
	// NilLevel) and returns false.
	CheckError(lvlKO, lvlOK Level, message string, err ...error) bool
}

// New returns a Logger writing text-formatted records to the given writer,
// or to stderr when nil. The level defaults to InfoLevel.
func New(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(defaultFormatter())

	return &lgr{
		l: l,
		f: make(Fields),
	}
}

func defaultFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		ForceQuote:             true,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
		QuoteEmptyFields:       true,
	}
}
