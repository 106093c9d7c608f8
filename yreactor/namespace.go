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

package yreactor

import (
	"fmt"

	"github.com/openconfig/yangkit/ycommon"
)

// Scope is the visibility of a namespace.
type Scope int

const (
	// ScopeLocal namespaces are visible only to the owning statement.
	ScopeLocal Scope = iota
	// ScopeTree namespaces are visible to the owning statement and its
	// descendants. Entries at the root of a source are also visible to the
	// other sources of the same module.
	ScopeTree
	// ScopeSource namespaces live at the root of one source.
	ScopeSource
	// ScopeModule namespaces live at the root of a source and are shared by
	// a module and its submodules.
	ScopeModule
	// ScopeGlobal namespaces are shared by all sources of a build and only
	// written at phase barriers.
	ScopeGlobal
)

// NamespaceKey identifies a typed namespace.
type NamespaceKey[K, V comparable] struct {
	Name  string
	Scope Scope
}

type nsEntry struct {
	value any
	ref   ycommon.SourceRef
}

type nsTable struct {
	order   []any
	entries map[any]nsEntry
}

// nsStore holds the namespace tables owned by one statement or build.
type nsStore map[string]*nsTable

func (s *nsStore) table(name string, create bool) *nsTable {
	if *s == nil {
		if !create {
			return nil
		}
		*s = nsStore{}
	}
	t, ok := (*s)[name]
	if !ok && create {
		t = &nsTable{entries: map[any]nsEntry{}}
		(*s)[name] = t
	}
	return t
}

// put binds key to value. Binding a key again to the same value is a no-op;
// binding it to a different value fails, naming both definitions.
func (s *nsStore) put(name string, key, value any, ref ycommon.SourceRef) error {
	t := s.table(name, true)
	if prev, ok := t.entries[key]; ok {
		if prev.value == value {
			return nil
		}
		return &CollisionError{
			Ref:     ref,
			PrevRef: prev.ref,
			Msg:     fmt.Sprintf("%s: %s %v is already defined at %s", ref, name, key, prev.ref),
		}
	}
	t.entries[key] = nsEntry{value: value, ref: ref}
	t.order = append(t.order, key)
	return nil
}

func (s *nsStore) get(name string, key any) (nsEntry, bool) {
	t := s.table(name, false)
	if t == nil {
		return nsEntry{}, false
	}
	e, ok := t.entries[key]
	return e, ok
}

func (s *nsStore) values(name string) []any {
	t := s.table(name, false)
	if t == nil {
		return nil
	}
	out := make([]any, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.entries[k].value)
	}
	return out
}

// owner returns the store holding entries of ns added through c.
func owner(c *stmtCtx, scope Scope) *nsStore {
	switch scope {
	case ScopeSource, ScopeModule:
		return &c.b().ctx(c.src.root).ns
	case ScopeGlobal:
		return &c.b().global
	}
	return &c.ns
}

// addToNamespace binds key to value in ns as seen from c. Global namespaces
// are written by the reactor at phase barriers only.
func addToNamespace[K, V comparable](c *stmtCtx, ns NamespaceKey[K, V], key K, value V) error {
	return addToNamespaceAt(c, ns, key, value, c.ref)
}

// addToNamespaceAt is addToNamespace for a definition located at ref, such
// as a child registering its name in the namespace of its parent.
func addToNamespaceAt[K, V comparable](c *stmtCtx, ns NamespaceKey[K, V], key K, value V, ref ycommon.SourceRef) error {
	return owner(c, ns.Scope).put(ns.Name, key, value, ref)
}

// getFromNamespace looks key up in ns following the visibility rules of its
// scope from c.
func getFromNamespace[K, V comparable](c *stmtCtx, ns NamespaceKey[K, V], key K) (V, bool) {
	e, ok := lookupEntry(c, ns.Name, ns.Scope, key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value.(V), true
}

// namespaceRef returns the source reference of the definition of key.
func namespaceRef[K, V comparable](c *stmtCtx, ns NamespaceKey[K, V], key K) (ycommon.SourceRef, bool) {
	e, ok := lookupEntry(c, ns.Name, ns.Scope, key)
	return e.ref, ok
}

func lookupEntry(c *stmtCtx, name string, scope Scope, key any) (nsEntry, bool) {
	switch scope {
	case ScopeLocal, ScopeSource, ScopeGlobal:
		return owner(c, scope).get(name, key)
	case ScopeTree:
		for p := c; p != nil; p = p.parentCtx() {
			if e, ok := p.ns.get(name, key); ok {
				return e, true
			}
		}
		return moduleScopeEntry(c, name, key, c.src)
	case ScopeModule:
		return moduleScopeEntry(c, name, key, nil)
	}
	return nsEntry{}, false
}

// moduleScopeEntry searches the roots of the module owning c's source,
// skipping the source skip whose root was already searched.
func moduleScopeEntry(c *stmtCtx, name string, key any, skip *sourceCtx) (nsEntry, bool) {
	for _, s := range c.src.moduleScope() {
		if s == skip {
			continue
		}
		if e, ok := c.b().ctx(s.root).ns.get(name, key); ok {
			return e, true
		}
	}
	return nsEntry{}, false
}

// allNamespaceValues returns the values of ns owned at c in insertion order.
func allNamespaceValues[K, V comparable](c *stmtCtx, ns NamespaceKey[K, V]) []V {
	vals := owner(c, ns.Scope).values(ns.Name)
	out := make([]V, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.(V))
	}
	return out
}

// Namespaces used by the reactor.
var (
	// modulesNS maps name@revision to the module source.
	modulesNS = NamespaceKey[ycommon.SourceID, *sourceCtx]{Name: "module", Scope: ScopeGlobal}
	// submodulesNS maps name@revision to the submodule source.
	submodulesNS = NamespaceKey[ycommon.SourceID, *sourceCtx]{Name: "submodule", Scope: ScopeGlobal}
	// moduleNamespaceNS maps namespace and revision to the module source.
	moduleNamespaceNS = NamespaceKey[ycommon.QNameModule, *sourceCtx]{Name: "module namespace", Scope: ScopeGlobal}
	// prefixNS maps the prefixes usable in a source to modules.
	prefixNS = NamespaceKey[string, ycommon.QNameModule]{Name: "prefix", Scope: ScopeSource}
	// groupingNS and typedefNS are lexically scoped.
	groupingNS = NamespaceKey[string, ctxID]{Name: "grouping", Scope: ScopeTree}
	typedefNS  = NamespaceKey[string, ctxID]{Name: "typedef", Scope: ScopeTree}
	// identityNS, featureNS and extensionNS are shared by a module and its
	// submodules.
	identityNS  = NamespaceKey[string, ctxID]{Name: "identity", Scope: ScopeModule}
	featureNS   = NamespaceKey[string, ctxID]{Name: "feature", Scope: ScopeModule}
	extensionNS = NamespaceKey[string, ctxID]{Name: "extension", Scope: ScopeModule}
	// schemaTreeNS maps the schema tree children of a statement.
	schemaTreeNS = NamespaceKey[ycommon.QName, ctxID]{Name: "schema node", Scope: ScopeLocal}
)
