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

package datatree

import (
	"fmt"
	"strings"

	"github.com/openconfig/yangkit/ycommon"
)

// PathArgument is one step of an instance identifier.
type PathArgument interface {
	// NodeType is the QName of the data node the step addresses. For an
	// AugmentationIdentifier it is the first of its possible children.
	NodeType() ycommon.QName
	String() string
	// key is a comparable form of the argument used by the child caches.
	key() string
}

// NodeIdentifier addresses a container, leaf, anydata, choice or a whole
// list or leaf-list.
type NodeIdentifier struct {
	QName ycommon.QName
}

// NodeType implements PathArgument.
func (n NodeIdentifier) NodeType() ycommon.QName { return n.QName }

func (n NodeIdentifier) String() string { return n.QName.String() }

func (n NodeIdentifier) key() string { return "n" + n.QName.String() }

// KeyValue is one key predicate of a list entry.
type KeyValue struct {
	Key   ycommon.QName
	Value string
}

// NodeIdentifierWithPredicates addresses one entry of a keyed list. Keys
// are held in the order they were given.
type NodeIdentifierWithPredicates struct {
	QName ycommon.QName
	Keys  []KeyValue
}

// NodeType implements PathArgument.
func (n NodeIdentifierWithPredicates) NodeType() ycommon.QName { return n.QName }

func (n NodeIdentifierWithPredicates) String() string {
	var b strings.Builder
	b.WriteString(n.QName.String())
	for _, kv := range n.Keys {
		fmt.Fprintf(&b, "[%s=%q]", kv.Key, kv.Value)
	}
	return b.String()
}

// Value returns the value of key k.
func (n NodeIdentifierWithPredicates) Value(k ycommon.QName) (string, bool) {
	for _, kv := range n.Keys {
		if kv.Key == k {
			return kv.Value, true
		}
	}
	return "", false
}

// Predicates do not select a different schema node, so every entry of a
// list shares the key of its list.
func (n NodeIdentifierWithPredicates) key() string { return "p" + n.QName.String() }

// NodeWithValue addresses one entry of a leaf-list.
type NodeWithValue struct {
	QName ycommon.QName
	Value string
}

// NodeType implements PathArgument.
func (n NodeWithValue) NodeType() ycommon.QName { return n.QName }

func (n NodeWithValue) String() string { return fmt.Sprintf("%s[.=%q]", n.QName, n.Value) }

func (n NodeWithValue) key() string { return "v" + n.QName.String() }

// AugmentationIdentifier addresses the children added to a node by one
// augment statement. ChildNames are in declaration order.
type AugmentationIdentifier struct {
	ChildNames []ycommon.QName
}

// NodeType implements PathArgument.
func (a AugmentationIdentifier) NodeType() ycommon.QName {
	if len(a.ChildNames) == 0 {
		return ycommon.QName{}
	}
	return a.ChildNames[0]
}

func (a AugmentationIdentifier) String() string {
	parts := make([]string, 0, len(a.ChildNames))
	for _, q := range a.ChildNames {
		parts = append(parts, q.String())
	}
	return "AugmentationIdentifier{" + strings.Join(parts, ", ") + "}"
}

func (a AugmentationIdentifier) key() string { return "a" + a.String() }

// Contains reports whether q is one of the possible children.
func (a AugmentationIdentifier) Contains(q ycommon.QName) bool {
	for _, c := range a.ChildNames {
		if c == q {
			return true
		}
	}
	return false
}
