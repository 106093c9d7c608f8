// Copyright 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"strings"
	"sync"
)

var (
	// debugLibrary controls the debugging output of the reactor's
	// declaration phase.
	debugLibrary = false
	// maxCharsPerLine is the maximum number of characters per line from
	// DbgPrint. Additional characters are truncated.
	maxCharsPerLine = 1000
)

// SetDebug enables or disables the output of DbgPrint.
func SetDebug(on bool) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugLibrary = on
}

// DbgPrint prints v if debugging output is enabled.
// v has the same format as Printf. A trailing newline is added to the output.
func DbgPrint(v ...interface{}) {
	debugMu.Lock()
	defer debugMu.Unlock()
	if !debugLibrary {
		return
	}
	out := fmt.Sprintf(v[0].(string), v[1:]...)
	if len(out) > maxCharsPerLine {
		out = out[:maxCharsPerLine]
	}
	fmt.Println(globalIndent + out)
}

var (
	debugMu sync.Mutex
	// globalIndent is used to control Indent level.
	globalIndent = ""
)

// Indent increases DbgPrint Indent level.
func Indent() {
	debugMu.Lock()
	defer debugMu.Unlock()
	globalIndent += ". "
}

// Dedent decreases DbgPrint Indent level.
func Dedent() {
	debugMu.Lock()
	defer debugMu.Unlock()
	globalIndent = strings.TrimPrefix(globalIndent, ". ")
}
