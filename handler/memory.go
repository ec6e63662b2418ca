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
	"os"

	"github.com/shirou/gopsutil/process"

	liberr "github.com/spohlenz/passenger/errors"
	liblog "github.com/spohlenz/passenger/logger"
)

// overMemoryLimit checks the resident memory of this process against the
// configured ceiling. Probe failures are logged and treated as below the
// ceiling so a broken proc filesystem cannot terminate the handler.
func (o *hdl) overMemoryLimit() bool {
	if o.cfg.MemoryLimit == 0 {
		return false
	}

	rss, err := residentMemory()

	if err != nil {
		liblog.Call(o.log).Warning("request handler: cannot probe resident memory", liblog.Fields{
			"error": err.CodeErrorTrace(""),
		})

		return false
	}

	return rss > o.cfg.MemoryLimit
}

func residentMemory() (uint64, liberr.Error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, ErrorMemoryProbe.Error(err)
	}

	mi, err := p.MemoryInfo()
	if err != nil {
		return 0, ErrorMemoryProbe.Error(err)
	}

	return mi.RSS, nil
}
