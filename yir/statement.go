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

// Package yir implements the syntactic intermediate representation of YANG
// sources: a lexer for the RFC7950 statement grammar and an immutable tree of
// statements with interned keywords and arguments. No cross-reference
// resolution happens at this level.
package yir

import (
	"strings"
)

// ArgumentKind is the lexical form of a statement argument.
type ArgumentKind int

const (
	// Identifier is an unquoted argument that is a valid YANG identifier.
	Identifier ArgumentKind = iota
	// Unquoted is any other unquoted argument.
	Unquoted
	// SingleQuoted is a single-quoted literal, taken verbatim.
	SingleQuoted
	// DoubleQuoted is a double-quoted literal. Its raw value has already
	// been whitespace-trimmed but is still escaped.
	DoubleQuoted
	// Concatenation is a sequence of quoted literals joined by '+'.
	Concatenation
)

var argumentKindNames = map[ArgumentKind]string{
	Identifier:    "identifier",
	Unquoted:      "unquoted",
	SingleQuoted:  "single-quoted",
	DoubleQuoted:  "double-quoted",
	Concatenation: "concatenation",
}

// String returns the name of the argument kind.
func (k ArgumentKind) String() string { return argumentKindNames[k] }

// Keyword is a statement keyword, optionally qualified by a prefix for
// extension statements.
type Keyword struct {
	Prefix     string
	Identifier string
}

// IsQualified reports whether the keyword carries a prefix.
func (k *Keyword) IsQualified() bool { return k.Prefix != "" }

// String returns the keyword as it appears in source text.
func (k *Keyword) String() string {
	if k.Prefix == "" {
		return k.Identifier
	}
	return k.Prefix + ":" + k.Identifier
}

// Argument is an unresolved statement argument.
type Argument struct {
	Kind ArgumentKind
	// Raw is the literal content of a non-concatenated argument.
	Raw string
	// Parts holds the quoted literals of a Concatenation.
	Parts []*Argument
}

// String returns the argument value, with double-quoted escapes expanded
// and concatenations joined.
func (a *Argument) String() string {
	switch a.Kind {
	case DoubleQuoted:
		return Unescape(a.Raw)
	case Concatenation:
		var sb strings.Builder
		for _, p := range a.Parts {
			sb.WriteString(p.String())
		}
		return sb.String()
	default:
		return a.Raw
	}
}

// Equal reports whether a and o are structurally equal.
func (a *Argument) Equal(o *Argument) bool {
	if a == nil || o == nil {
		return a == o
	}
	if a.Kind != o.Kind || a.Raw != o.Raw || len(a.Parts) != len(o.Parts) {
		return false
	}
	for i := range a.Parts {
		if !a.Parts[i].Equal(o.Parts[i]) {
			return false
		}
	}
	return true
}

// Statement is one node of the IR tree. Statements are immutable once
// returned by Parse and may be shared between goroutines.
type Statement struct {
	Keyword *Keyword
	// Argument is nil when the statement has no argument.
	Argument *Argument
	// Line and Column are the 1-based position of the keyword.
	Line     int
	Column   int
	Children []*Statement
}

// Arg returns the resolved argument, or the empty string if the statement
// has none.
func (s *Statement) Arg() string {
	if s.Argument == nil {
		return ""
	}
	return s.Argument.String()
}

// Equal reports whether s and o are structurally equal, including source
// positions.
func (s *Statement) Equal(o *Statement) bool {
	if s == nil || o == nil {
		return s == o
	}
	if *s.Keyword != *o.Keyword || !s.Argument.Equal(o.Argument) || s.Line != o.Line || s.Column != o.Column {
		return false
	}
	if len(s.Children) != len(o.Children) {
		return false
	}
	for i := range s.Children {
		if !s.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// String returns a one-line summary of the statement.
func (s *Statement) String() string {
	if s.Argument == nil {
		return s.Keyword.String()
	}
	return s.Keyword.String() + " " + s.Argument.String()
}
