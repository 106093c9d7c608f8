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

// Package ysource provides statement sources for the reactor: YANG text held
// in memory or read from files, and pre-built IR trees, including trees
// converted from statements parsed by goyang.
package ysource

import (
	"strings"
	"sync"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/yir"
)

// Text is a source backed by YANG text. The text is parsed on first use and
// the result is shared by later calls.
type Text struct {
	id   ycommon.SourceID
	name string
	text string

	once sync.Once
	st   *yir.Statement
	err  error
}

// NewText returns a source named name holding text. When name is a file name
// of the form module[@revision].yang, the identifier is derived from it.
func NewText(name, text string) *Text {
	t := &Text{name: name, text: text}
	if id, err := ycommon.ParseSourceFileName(name); err == nil {
		t.id = id
	}
	return t
}

// ID returns the identifier of the source, which may be zero when unknown.
func (t *Text) ID() ycommon.SourceID { return t.id }

// Name returns the name used in diagnostics.
func (t *Text) Name() string { return t.name }

// Statement parses the text.
func (t *Text) Statement() (*yir.Statement, error) {
	t.once.Do(func() {
		t.st, t.err = yir.Parse(t.name, t.text)
	})
	return t.st, t.err
}

// IR is a source backed by an already built IR tree.
type IR struct {
	id   ycommon.SourceID
	name string
	st   *yir.Statement
}

// NewIR returns a source for st. The identifier is taken from the root
// statement argument when id is zero.
func NewIR(name string, id ycommon.SourceID, st *yir.Statement) *IR {
	if id.Name == "" && st != nil {
		id.Name = st.Arg()
	}
	return &IR{id: id, name: name, st: st}
}

// ID returns the identifier of the source.
func (s *IR) ID() ycommon.SourceID { return s.id }

// Name returns the name used in diagnostics.
func (s *IR) Name() string { return s.name }

// Statement returns the IR tree.
func (s *IR) Statement() (*yir.Statement, error) { return s.st, nil }

// isYANGFile reports whether name has the .yang extension.
func isYANGFile(name string) bool {
	return strings.HasSuffix(name, ".yang")
}
