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

package handler

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	libvld "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	liberr "github.com/spohlenz/passenger/errors"
	libwdg "github.com/spohlenz/passenger/watchdog"
)

// Config carries the per-handler parameters handed down by the web-server
// integration layer. The zero value is usable: every field has a default.
type Config struct {
	// SocketPrefix is the name prefix of a filesystem-backed endpoint.
	SocketPrefix string `mapstructure:"socket_prefix" json:"socket_prefix" yaml:"socket_prefix" validate:"omitempty,alphanum"`

	// MemoryLimit is the resident memory ceiling in bytes after which the
	// handler drains and exits. Zero means unlimited.
	MemoryLimit uint64 `mapstructure:"memory_limit" json:"memory_limit" yaml:"memory_limit"`

	// RequestTimeout bounds one request; exceeding it kills the process.
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout" validate:"omitempty,min=0"`

	// TerminationTimeout bounds the graceful drain phase.
	TerminationTimeout time.Duration `mapstructure:"termination_timeout" json:"termination_timeout" yaml:"termination_timeout" validate:"omitempty,min=0"`

	// HardSignal exits the loop immediately.
	HardSignal syscall.Signal `mapstructure:"hard_signal" json:"hard_signal" yaml:"hard_signal"`

	// SoftSignal finishes the request in flight, then exits.
	SoftSignal syscall.Signal `mapstructure:"soft_signal" json:"soft_signal" yaml:"soft_signal"`

	// KillSignal is delivered by expired watchdogs.
	KillSignal syscall.Signal `mapstructure:"kill_signal" json:"kill_signal" yaml:"kill_signal"`

	// Metrics optionally registers the handler counters.
	Metrics prometheus.Registerer `mapstructure:"-" json:"-" yaml:"-" validate:"-"`
}

// Validate checks the config against its field constraints.
func (o Config) Validate() liberr.Error {
	err := ErrorValidatorError.Error()

	if e := libvld.New().Struct(o); e != nil {
		var ve libvld.ValidationErrors

		if errors.As(e, &ve) {
			for _, f := range ve {
				//nolint goerr113
				err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", f.Namespace(), f.ActualTag()))
			}
		} else {
			err.Add(e)
		}
	}

	if err.HasParent() {
		return err
	}

	return nil
}

func (o Config) withDefaults() Config {
	if o.RequestTimeout == 0 {
		o.RequestTimeout = libwdg.RequestTimeout
	}

	if o.TerminationTimeout == 0 {
		o.TerminationTimeout = libwdg.TerminationTimeout
	}

	if o.HardSignal == 0 {
		o.HardSignal = syscall.SIGTERM
	}

	if o.SoftSignal == 0 {
		o.SoftSignal = syscall.SIGUSR1
	}

	if o.KillSignal == 0 {
		o.KillSignal = syscall.SIGKILL
	}

	return o
}
