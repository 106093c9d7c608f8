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

package yir

import (
	"testing"
)

func TestTrimWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		dquot int
		want  string
	}{{
		name:  "no newline is unchanged",
		in:    "  abc  ",
		dquot: 5,
		want:  "  abc  ",
	}, {
		name:  "continuation lines aligned after the quote",
		in:    "a  \n     b\n  c",
		dquot: 4,
		want:  "a\nb\nc",
	}, {
		name:  "indentation beyond the quote is kept",
		in:    "a\n        b",
		dquot: 4,
		want:  "a\n   b",
	}, {
		name:  "whitespace-only line is emptied",
		in:    "a\n   \t \nb",
		dquot: 5,
		want:  "a\n\nb",
	}, {
		name:  "tab past the quote is replaced by spaces",
		in:    "a\n\tx",
		dquot: 2,
		want:  "a\n     x",
	}, {
		name:  "tab stops at multiples of eight",
		in:    "a\n   \tx",
		dquot: 7,
		want:  "a\nx",
	}, {
		name:  "two tabs then spaces",
		in:    "a\n\t\t  x",
		dquot: 9,
		want:  "a\n        x",
	}, {
		name:  "trailing whitespace of the last line is kept",
		in:    "a\n b  ",
		dquot: 0,
		want:  "a\nb  ",
	}, {
		name:  "carriage returns are trimmed before newlines",
		in:    "a\r\n  b",
		dquot: 1,
		want:  "a\nb",
	}}

	for _, tt := range tests {
		if got := TrimWhitespace(tt.in, tt.dquot); got != tt.want {
			t.Errorf("%s: TrimWhitespace(%q, %d): got %q, want %q", tt.name, tt.in, tt.dquot, got, tt.want)
		}
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{{
		name: "no escapes",
		in:   "abc",
		want: "abc",
	}, {
		name: "newline",
		in:   `a\nb`,
		want: "a\nb",
	}, {
		name: "escaped backslash before n",
		in:   `a\\nb`,
		want: `a\nb`,
	}, {
		name: "tab and quote",
		in:   `\t\"x\"`,
		want: "\t\"x\"",
	}, {
		name: "unknown escape passes through",
		in:   `a\db`,
		want: `a\db`,
	}, {
		name: "trailing backslash is literal",
		in:   `abc\`,
		want: `abc\`,
	}}

	for _, tt := range tests {
		if got := Unescape(tt.in); got != tt.want {
			t.Errorf("%s: Unescape(%q): got %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}
