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
	"strings"
)

// tabWidth is the column width of a tab when computing the indentation of
// continuation lines in double-quoted strings.
const tabWidth = 8

// TrimWhitespace normalizes the content of a multi-line double-quoted string
// as described in RFC7950 section 6.1.3. dquot is the 0-based column of the
// opening double quote. Each line after the first loses leading whitespace up
// to and including column dquot, and each line but the last loses trailing
// whitespace. A tab advances to the next multiple of tabWidth; when a tab
// extends beyond dquot the excess columns are kept as spaces. A string
// without a newline is returned unchanged.
func TrimWhitespace(str string, dquot int) string {
	brk := strings.IndexByte(str, '\n')
	if brk == -1 {
		return str
	}

	var sb strings.Builder
	sb.Grow(len(str))
	sb.WriteString(trimTail(str[:brk]))
	sb.WriteByte('\n')

	offset := brk + 1
	for {
		next := strings.IndexByte(str[offset:], '\n')
		if next == -1 {
			break
		}
		trimLeading(&sb, trimTail(str[offset:offset+next]), dquot)
		sb.WriteByte('\n')
		offset += next + 1
	}
	trimLeading(&sb, str[offset:], dquot)
	return sb.String()
}

// trimLeading appends line to sb with its indentation up to and including
// column dquot removed.
func trimLeading(sb *strings.Builder, line string, dquot int) {
	offset, pos := 0, 0
	for pos <= dquot {
		if offset == len(line) {
			// Whole line consumed.
			return
		}
		switch line[offset] {
		case '\t':
			pos = (pos/tabWidth + 1) * tabWidth
		case ' ':
			pos++
		default:
			sb.WriteString(line[offset:])
			return
		}
		offset++
	}
	// A tab took us past the opening quote, keep the excess as spaces.
	for ; pos-1 > dquot; pos-- {
		sb.WriteByte(' ')
	}
	sb.WriteString(line[offset:])
}

func trimTail(s string) string {
	return strings.TrimRight(s, " \t\r")
}

// Unescape expands the \n, \t, \" and \\ escape sequences of a double-quoted
// string. Any other escape sequence, and a trailing lone backslash, are
// copied through unchanged.
func Unescape(str string) string {
	idx := strings.IndexByte(str, '\\')
	if idx == -1 {
		return str
	}

	var sb strings.Builder
	sb.Grow(len(str))
	sb.WriteString(str[:idx])
	for i := idx; i < len(str); i++ {
		c := str[i]
		if c != '\\' || i+1 == len(str) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch n := str[i]; n {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(n)
		}
	}
	return sb.String()
}
