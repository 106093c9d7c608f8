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
	"github.com/derekparker/trie"
	log "github.com/golang/glog"
	"golang.org/x/exp/slices"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// PathIndex indexes the data tree paths of a schema context. Paths are in
// the RFC 7951 form: a node is prefixed with its module name when it is
// top-level or its module differs from its parent's, as in
// /mod:top/list/other:leaf. Choices and cases have no path elements.
type PathIndex struct {
	ctx *ymodel.Context
	t   *trie.Trie
}

// NewPathIndex indexes every data node of ctx. Operations and
// notifications are not indexed.
func NewPathIndex(ctx *ymodel.Context) *PathIndex {
	idx := &PathIndex{ctx: ctx, t: trie.New()}
	for _, m := range ctx.Modules() {
		idx.add(m.Effective, nil, "", ycommon.QNameModule{})
	}
	return idx
}

func (idx *PathIndex) add(parent *ymodel.Effective, schema []ycommon.QName, path string, mod ycommon.QNameModule) {
	for _, c := range parent.SchemaTreeChildren() {
		sp := append(append([]ycommon.QName(nil), schema...), c.QName)
		switch {
		case c.Kind == ymodel.KindChoice || c.Kind == ymodel.KindCase:
			idx.add(c, sp, path, mod)
		case c.Kind.IsDataNode():
			elem := c.QName.Name
			if c.QName.Module != mod {
				elem = idx.moduleName(c.QName.Module) + ":" + elem
			}
			p := path + "/" + elem
			if _, ok := idx.t.Find(p); ok {
				log.V(2).Infof("datatree: path %s is already indexed", p)
				continue
			}
			idx.t.Add(p, ycommon.AbsoluteOf(sp...))
			idx.add(c, sp, p, c.QName.Module)
		}
	}
}

func (idx *PathIndex) moduleName(m ycommon.QNameModule) string {
	if mod, ok := idx.ctx.FindModuleByNamespace(m); ok {
		return mod.Name
	}
	return m.Namespace
}

// Lookup returns the schema node identifier of the data node at path.
func (idx *PathIndex) Lookup(path string) (ycommon.Absolute, bool) {
	n, ok := idx.t.Find(path)
	if !ok {
		return ycommon.Absolute{}, false
	}
	return n.Meta().(ycommon.Absolute), true
}

// PrefixSearch returns the indexed paths starting with prefix, sorted.
func (idx *PathIndex) PrefixSearch(prefix string) []string {
	paths := idx.t.PrefixSearch(prefix)
	slices.Sort(paths)
	return paths
}

// Len returns the number of indexed paths.
func (idx *PathIndex) Len() int { return len(idx.t.Keys()) }
