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

package logger

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type lgr struct {
	m sync.RWMutex
	l *logrus.Logger
	f Fields
}

func (o *lgr) SetLevel(lvl Level) {
	if o == nil {
		return
	}

	o.l.SetLevel(lvl.logrus())
}

func (o *lgr) GetLevel() Level {
	if o == nil {
		return NilLevel
	}

	return parseLogrus(o.l.GetLevel())
}

func (o *lgr) SetFields(fields Fields) {
	if o == nil {
		return
	}

	o.m.Lock()
	defer o.m.Unlock()

	o.f = fields
}

func (o *lgr) GetFields() Fields {
	if o == nil {
		return nil
	}

	o.m.RLock()
	defer o.m.RUnlock()

	res := make(Fields, len(o.f))
	for k, v := range o.f {
		res[k] = v
	}

	return res
}

func (o *lgr) Debug(message string, data interface{}, args ...interface{}) {
	if o == nil {
		return
	}

	o.entry(data).Debug(fmt.Sprintf(message, args...))
}

func (o *lgr) Info(message string, data interface{}, args ...interface{}) {
	if o == nil {
		return
	}

	o.entry(data).Info(fmt.Sprintf(message, args...))
}

func (o *lgr) Warning(message string, data interface{}, args ...interface{}) {
	if o == nil {
		return
	}

	o.entry(data).Warn(fmt.Sprintf(message, args...))
}

func (o *lgr) Error(message string, data interface{}, args ...interface{}) {
	if o == nil {
		return
	}

	o.entry(data).Error(fmt.Sprintf(message, args...))
}

func (o *lgr) CheckError(lvlKO, lvlOK Level, message string, err ...error) bool {
	if o == nil {
		return false
	}

	var lst = make([]error, 0, len(err))

	for _, e := range err {
		if e != nil {
			lst = append(lst, e)
		}
	}

	if len(lst) > 0 {
		o.log(lvlKO, message, lst)
		return true
	}

	if lvlOK != NilLevel {
		o.log(lvlOK, message, nil)
	}

	return false
}

func (o *lgr) log(lvl Level, message string, err []error) {
	e := o.entry(nil)

	if len(err) > 0 {
		e = e.WithField("error", err)
	}

	switch lvl {
	case DebugLevel:
		e.Debug(message)
	case InfoLevel:
		e.Info(message)
	case WarnLevel:
		e.Warn(message)
	case ErrorLevel:
		e.Error(message)
	}
}

func (o *lgr) entry(data interface{}) *logrus.Entry {
	o.m.RLock()
	defer o.m.RUnlock()

	e := o.l.WithFields(logrus.Fields(o.f))

	if data != nil {
		e = e.WithField("data", data)
	}

	return e
}
