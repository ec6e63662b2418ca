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

import "github.com/prometheus/client_golang/prometheus"

// metrics mirrors the loop counters onto an optional prometheus registry.
// A nil receiver is a no-op, so the loop never branches on configuration.
type metrics struct {
	itr prometheus.Counter
	prc prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &metrics{
		itr: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "passenger_handler_iterations_total",
			Help: "Number of main loop turns.",
		}),
		prc: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "passenger_handler_requests_total",
			Help: "Number of fully handled requests.",
		}),
	}

	if err := reg.Register(m.itr); err != nil {
		return nil, err
	}

	if err := reg.Register(m.prc); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) incIterations() {
	if m == nil {
		return
	}

	m.itr.Inc()
}

func (m *metrics) incRequests() {
	if m == nil {
		return
	}

	m.prc.Inc()
}
