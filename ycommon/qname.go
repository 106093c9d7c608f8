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

// Package ycommon contains the identifiers shared by every stage of the YANG
// processing pipeline: qualified names, revisions, source identifiers, schema
// node identifiers and source-located errors.
package ycommon

import (
	"fmt"
	"strings"
	"time"
)

// revisionLayout is the time layout of a YANG revision date.
const revisionLayout = "2006-01-02"

// Revision is a YANG revision date in the YYYY-MM-DD form. The zero value
// means that no revision was declared.
type Revision string

// ParseRevision validates s as a YANG revision date.
func ParseRevision(s string) (Revision, error) {
	if _, err := time.Parse(revisionLayout, s); err != nil {
		return "", fmt.Errorf("invalid revision %q: %v", s, err)
	}
	return Revision(s), nil
}

// IsZero reports whether no revision is set.
func (r Revision) IsZero() bool { return r == "" }

// CompareRevisions returns -1, 0 or 1 depending on whether a is older than,
// equal to or newer than b. An absent revision is older than any revision.
func CompareRevisions(a, b Revision) int {
	switch {
	case a == b:
		return 0
	case a.IsZero():
		return -1
	case b.IsZero():
		return 1
	}
	// The YYYY-MM-DD layout orders lexically.
	return strings.Compare(string(a), string(b))
}

// QNameModule identifies the module a QName belongs to.
type QNameModule struct {
	Namespace string
	Revision  Revision
}

// String returns the module in the (namespace?revision=rev) form used by
// QName.String, without the surrounding parentheses.
func (m QNameModule) String() string {
	if m.Revision.IsZero() {
		return m.Namespace
	}
	return m.Namespace + "?revision=" + string(m.Revision)
}

// QName is a YANG qualified name: a local name bound to a module namespace
// and revision.
type QName struct {
	Module QNameModule
	Name   string
}

// NewQName returns the QName for name in the namespace ns at revision rev.
func NewQName(ns string, rev Revision, name string) QName {
	return QName{Module: QNameModule{Namespace: ns, Revision: rev}, Name: name}
}

// Bind returns a copy of q bound to module m.
func (q QName) Bind(m QNameModule) QName {
	return QName{Module: m, Name: q.Name}
}

// IsZero reports whether q is the zero QName.
func (q QName) IsZero() bool { return q == QName{} }

// String returns q in the (namespace?revision=rev)name form.
func (q QName) String() string {
	return "(" + q.Module.String() + ")" + q.Name
}

// SourceID identifies a YANG source by module or submodule name and an
// optional revision.
type SourceID struct {
	Name     string
	Revision Revision
}

// String returns the identifier in the name@revision form.
func (s SourceID) String() string {
	if s.Revision.IsZero() {
		return s.Name
	}
	return s.Name + "@" + string(s.Revision)
}

// ParseSourceFileName derives a SourceID from a file name of the form
// name.yang or name@YYYY-MM-DD.yang. Any directory part is ignored.
func ParseSourceFileName(file string) (SourceID, error) {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		file = file[i+1:]
	}
	base, ok := strings.CutSuffix(file, ".yang")
	if !ok {
		return SourceID{}, fmt.Errorf("%s: not a .yang file", file)
	}
	name, rev, hasRev := strings.Cut(base, "@")
	if name == "" {
		return SourceID{}, fmt.Errorf("%s: empty module name", file)
	}
	if !hasRev {
		return SourceID{Name: name}, nil
	}
	r, err := ParseRevision(rev)
	if err != nil {
		return SourceID{}, fmt.Errorf("%s: %v", file, err)
	}
	return SourceID{Name: name, Revision: r}, nil
}
