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
	"github.com/openconfig/yangkit/ycommon"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokUnquoted
	tokSingleQuoted
	tokDoubleQuoted
	tokLBrace
	tokRBrace
	tokSemicolon
	tokPlus
)

var tokenNames = map[tokenKind]string{
	tokEOF:          "end of input",
	tokUnquoted:     "string",
	tokSingleQuoted: "single-quoted string",
	tokDoubleQuoted: "double-quoted string",
	tokLBrace:       "'{'",
	tokRBrace:       "'}'",
	tokSemicolon:    "';'",
	tokPlus:         "'+'",
}

func (k tokenKind) String() string { return tokenNames[k] }

func (k tokenKind) quoted() bool { return k == tokSingleQuoted || k == tokDoubleQuoted }

// token is a lexical token. For quoted strings text is the content between
// the quotes, for double quotes already whitespace-trimmed.
type token struct {
	kind   tokenKind
	text   string
	line   int
	column int
}

// lexer splits YANG source text into tokens. It tracks 1-based line and
// column numbers for diagnostics.
type lexer struct {
	source    string
	src       string
	pos       int
	line      int
	lineStart int
	// afterQuoted is set when the previous token was a quoted string, the
	// only place where '+' is a concatenation operator.
	afterQuoted bool
}

func newLexer(source, src string) *lexer {
	return &lexer{source: source, src: src, line: 1}
}

func (l *lexer) ref(line, column int) ycommon.SourceRef {
	return ycommon.SourceRef{Source: l.source, Line: line, Column: column}
}

func (l *lexer) column() int { return l.pos - l.lineStart + 1 }

func (l *lexer) errorf(line, column int, format string, args ...any) error {
	return ycommon.NewSourceError(l.ref(line, column), format, args...)
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.pos++
}

// skipBlank skips whitespace and comments.
func (l *lexer) skipBlank() error {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case c == '/' && l.peekAt(1) == '*':
			line, col := l.line, l.column()
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.src) {
					return l.errorf(line, col, "unterminated comment")
				}
				if l.src[l.pos] == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

// quoteColumn returns the 0-based column of the byte at l.pos with tabs
// expanded to the next multiple of tabWidth.
func (l *lexer) quoteColumn() int {
	col := 0
	for _, c := range []byte(l.src[l.lineStart:l.pos]) {
		if c == '\t' {
			col = (col/tabWidth + 1) * tabWidth
			continue
		}
		col++
	}
	return col
}

func isUnquotedTerminator(l *lexer) bool {
	switch l.src[l.pos] {
	case ' ', '\t', '\r', '\n', ';', '{', '}', '"', '\'':
		return true
	case '/':
		n := l.peekAt(1)
		return n == '/' || n == '*'
	}
	return false
}

// next returns the next token.
func (l *lexer) next() (token, error) {
	if err := l.skipBlank(); err != nil {
		return token{}, err
	}
	line, col := l.line, l.column()
	tok := token{line: line, column: col}
	afterQuoted := l.afterQuoted
	l.afterQuoted = false
	if l.pos >= len(l.src) {
		tok.kind = tokEOF
		return tok, nil
	}

	switch c := l.src[l.pos]; c {
	case '{':
		tok.kind = tokLBrace
		l.advance()
	case '}':
		tok.kind = tokRBrace
		l.advance()
	case ';':
		tok.kind = tokSemicolon
		l.advance()
	case '\'':
		l.advance()
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '\'' {
			l.advance()
		}
		if l.pos >= len(l.src) {
			return token{}, l.errorf(line, col, "unterminated single-quoted string")
		}
		tok.kind, tok.text = tokSingleQuoted, l.src[start:l.pos]
		l.advance()
		l.afterQuoted = true
	case '"':
		dquot := l.quoteColumn()
		l.advance()
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '"' {
			if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
				l.advance()
			}
			l.advance()
		}
		if l.pos >= len(l.src) {
			return token{}, l.errorf(line, col, "unterminated double-quoted string")
		}
		tok.kind, tok.text = tokDoubleQuoted, TrimWhitespace(l.src[start:l.pos], dquot)
		l.advance()
		l.afterQuoted = true
	default:
		if c == '+' && afterQuoted {
			tok.kind = tokPlus
			l.advance()
			return tok, nil
		}
		start := l.pos
		for l.pos < len(l.src) && !isUnquotedTerminator(l) {
			if l.src[l.pos] == '*' && l.peekAt(1) == '/' {
				return token{}, l.errorf(l.line, l.column(), "unexpected end of comment in unquoted string")
			}
			l.advance()
		}
		tok.kind, tok.text = tokUnquoted, l.src[start:l.pos]
	}
	return tok, nil
}

// isIdentifier reports whether s is a YANG identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && (c == '-' || c == '.' || (c >= '0' && c <= '9')):
		default:
			return false
		}
	}
	return true
}
