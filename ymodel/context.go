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

package ymodel

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/openconfig/yangkit/ycommon"
)

// Context is the effective schema context of a successful build: the set of
// modules linked together. It is immutable and safe for concurrent use.
type Context struct {
	modules []*Module
	byName  map[string][]*Module
	byQNM   map[ycommon.QNameModule]*Module
	byNS    map[string][]*Module
}

// NewContext assembles modules into a schema context.
func NewContext(modules []*Module) *Context {
	ms := append([]*Module(nil), modules...)
	slices.SortStableFunc(ms, func(a, b *Module) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		// Newest revision first.
		return ycommon.CompareRevisions(b.QNameModule.Revision, a.QNameModule.Revision)
	})
	c := &Context{
		modules: ms,
		byName:  map[string][]*Module{},
		byQNM:   map[ycommon.QNameModule]*Module{},
		byNS:    map[string][]*Module{},
	}
	for _, m := range ms {
		c.byName[m.Name] = append(c.byName[m.Name], m)
		c.byQNM[m.QNameModule] = m
		c.byNS[m.QNameModule.Namespace] = append(c.byNS[m.QNameModule.Namespace], m)
	}
	return c
}

// Modules returns the modules sorted by name, newest revision first.
func (c *Context) Modules() []*Module { return c.modules }

// FindModule returns the module name at revision rev. An empty rev selects
// the latest revision.
func (c *Context) FindModule(name string, rev ycommon.Revision) (*Module, bool) {
	ms := c.byName[name]
	if len(ms) == 0 {
		return nil, false
	}
	if rev.IsZero() {
		return ms[0], true
	}
	for _, m := range ms {
		if m.QNameModule.Revision == rev {
			return m, true
		}
	}
	return nil, false
}

// FindModules returns all revisions of module name, newest first.
func (c *Context) FindModules(name string) []*Module { return c.byName[name] }

// FindModuleByNamespace returns the module identified by m.
func (c *Context) FindModuleByNamespace(m ycommon.QNameModule) (*Module, bool) {
	mod, ok := c.byQNM[m]
	return mod, ok
}

// FindModulesByNamespace returns the revisions of the module with namespace
// ns, newest first.
func (c *Context) FindModulesByNamespace(ns string) []*Module { return c.byNS[ns] }

// DataChildByName returns the top-level data node q.
func (c *Context) DataChildByName(q ycommon.QName) (*Effective, bool) {
	m, ok := c.byQNM[q.Module]
	if !ok {
		return nil, false
	}
	return m.FindDataTreeNode(q)
}

// FindSchemaTreeNode follows the schema tree path a from the top level of
// the module owning its first component.
func (c *Context) FindSchemaTreeNode(a ycommon.Absolute) (*Effective, bool) {
	qs := a.NodeIdentifiers()
	if len(qs) == 0 {
		return nil, false
	}
	m, ok := c.byQNM[qs[0].Module]
	if !ok {
		return nil, false
	}
	cur := m.Effective
	for _, q := range qs {
		if cur, ok = cur.FindSchemaTreeNode(q); !ok {
			return nil, false
		}
	}
	return cur, true
}
