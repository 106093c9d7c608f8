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
	"io"
	"os"
	"testing"
)

// captureStdout returns what f prints to stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	f()
	os.Stdout = orig
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured output: %v", err)
	}
	return string(out)
}

func TestDbgPrint(t *testing.T) {
	origMax := maxCharsPerLine
	defer func() {
		SetDebug(false)
		maxCharsPerLine = origMax
	}()

	tests := []struct {
		name    string
		debug   bool
		indents int
		in      string
		want    string
	}{{
		name: "disabled",
		in:   "uses g",
	}, {
		name:  "enabled",
		debug: true,
		in:    "uses g",
		want:  "uses g\n",
	}, {
		name:    "indented",
		debug:   true,
		indents: 2,
		in:      "augment /a:b",
		want:    ". . augment /a\n",
	}, {
		name:  "truncated",
		debug: true,
		in:    "uses grouping-with-a-long-name",
		want:  "uses group\n",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebug(tt.debug)
			maxCharsPerLine = 10
			for i := 0; i < tt.indents; i++ {
				Indent()
			}
			got := captureStdout(t, func() { DbgPrint("%s", tt.in) })
			for i := 0; i < tt.indents; i++ {
				Dedent()
			}
			if got != tt.want {
				t.Errorf("DbgPrint(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
