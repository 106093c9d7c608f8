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

package ycommon

import (
	"strings"
)

// Absolute is an absolute schema node identifier: the QNames of the schema
// tree nodes from a module's top level down to the identified node. Values
// are immutable.
type Absolute struct {
	nodes []QName
}

// AbsoluteOf returns the absolute schema node identifier made of qs.
func AbsoluteOf(qs ...QName) Absolute {
	return Absolute{nodes: append([]QName(nil), qs...)}
}

// NodeIdentifiers returns a copy of the identifier's components.
func (a Absolute) NodeIdentifiers() []QName { return append([]QName(nil), a.nodes...) }

// Len returns the number of components.
func (a Absolute) Len() int { return len(a.nodes) }

// LastComponent returns the last QName, or the zero QName if a is empty.
func (a Absolute) LastComponent() QName {
	if len(a.nodes) == 0 {
		return QName{}
	}
	return a.nodes[len(a.nodes)-1]
}

// Child returns a new identifier with q appended.
func (a Absolute) Child(q QName) Absolute {
	n := make([]QName, len(a.nodes), len(a.nodes)+1)
	copy(n, a.nodes)
	return Absolute{nodes: append(n, q)}
}

// Equal reports whether a and b have the same components.
func (a Absolute) Equal(b Absolute) bool { return qnamesEqual(a.nodes, b.nodes) }

// String returns a in the /(ns)a/(ns)b form.
func (a Absolute) String() string { return "/" + joinQNames(a.nodes) }

// Descendant is a descendant schema node identifier, relative to some schema
// tree node. Values are immutable.
type Descendant struct {
	nodes []QName
}

// DescendantOf returns the descendant schema node identifier made of qs.
func DescendantOf(qs ...QName) Descendant {
	return Descendant{nodes: append([]QName(nil), qs...)}
}

// NodeIdentifiers returns a copy of the identifier's components.
func (d Descendant) NodeIdentifiers() []QName { return append([]QName(nil), d.nodes...) }

// Len returns the number of components.
func (d Descendant) Len() int { return len(d.nodes) }

// Equal reports whether d and o have the same components.
func (d Descendant) Equal(o Descendant) bool { return qnamesEqual(d.nodes, o.nodes) }

// String returns d in the (ns)a/(ns)b form.
func (d Descendant) String() string { return joinQNames(d.nodes) }

func qnamesEqual(a, b []QName) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinQNames(qs []QName) string {
	s := make([]string, 0, len(qs))
	for _, q := range qs {
		s = append(s, q.String())
	}
	return strings.Join(s, "/")
}
