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

// Package version exposes the release identity of this module and the
// identification header that applications may emit as X-Powered-By.
package version

import (
	"os"
	"path/filepath"
	"sync"
)

var (
	// Release is the release number, overridable at build time with
	// -ldflags "-X github.com/spohlenz/passenger/version.Release=...".
	Release = "2.2.15"

	// Build is the VCS reference of the build.
	Build = "0000000"

	// Author is the vendor of this module.
	Author = "Phusion"
)

const (
	vendorName = "Phusion Passenger (mod_rails/mod_rack)"

	enterpriseSuffix = ", Enterprise Edition"

	// enterpriseMarker is the file probed next to the running executable to
	// detect an Enterprise Edition install.
	enterpriseMarker = "enterprisey.txt"
)

var (
	markerOnce sync.Once
	markerSeen bool
)

// Header returns the identification string of this module, with the
// Enterprise Edition suffix appended when the marker file is installed.
func Header() string {
	h := vendorName + " " + Release

	if enterprise() {
		h += enterpriseSuffix
	}

	return h
}

func enterprise() bool {
	markerOnce.Do(func() {
		markerSeen = markerExists()
	})

	return markerSeen
}

func markerExists() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	_, err = os.Stat(filepath.Join(filepath.Dir(exe), enterpriseMarker))

	return err == nil
}
