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
	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/yir"
	"github.com/openconfig/yangkit/ymodel"
)

// ctxID is a handle to a statement context in the arena of a build. Parent
// and template links are handles, never owning pointers.
type ctxID int32

const noCtx ctxID = -1

// stmtCtx is the mutable build-time form of one statement.
type stmtCtx struct {
	id     ctxID
	src    *sourceCtx
	parent ctxID
	// original is the template a copy was made from, or noCtx.
	original ctxID

	keyword string
	prefix  string
	ident   string
	kind    ymodel.Kind
	support *support
	rawArg  string
	hasArg  bool
	ref     ycommon.SourceRef
	ir      *yir.Statement

	// qname is the coerced argument of statements bound to a namespace.
	qname ycommon.QName
	// refs are resolved QName references, such as list keys.
	refs []ycommon.QName
	// extension is the definition of an extension instance.
	extension ycommon.QName

	children []ctxID
	flags    ymodel.Flags
	phase    Phase
	// removed is set for statements pruned by if-feature or deviations.
	removed bool
	// augmentedBy lists the augment statements grafted onto this node.
	augmentedBy []ctxID

	ns        nsStore
	declared  *ymodel.Declared
	effective *ymodel.Effective
	building  bool
}

func (c *stmtCtx) b() *build { return c.src.b }

func (c *stmtCtx) parentCtx() *stmtCtx {
	if c.parent == noCtx {
		return nil
	}
	return c.b().ctx(c.parent)
}

// declaredCtx follows original links to the statement declared in source.
func (c *stmtCtx) declaredCtx() *stmtCtx {
	for c.original != noCtx {
		c = c.b().ctx(c.original)
	}
	return c
}

// liveChildren returns the children that have not been pruned.
func (c *stmtCtx) liveChildren() []*stmtCtx {
	out := make([]*stmtCtx, 0, len(c.children))
	for _, id := range c.children {
		if ch := c.b().ctx(id); !ch.removed {
			out = append(out, ch)
		}
	}
	return out
}

// childrenOf returns the live children of kind k.
func (c *stmtCtx) childrenOf(k ymodel.Kind) []*stmtCtx {
	var out []*stmtCtx
	for _, ch := range c.liveChildren() {
		if ch.kind == k {
			out = append(out, ch)
		}
	}
	return out
}

// firstChild returns the first live child of kind k.
func (c *stmtCtx) firstChild(k ymodel.Kind) (*stmtCtx, bool) {
	for _, ch := range c.liveChildren() {
		if ch.kind == k {
			return ch, true
		}
	}
	return nil, false
}

func (c *stmtCtx) firstArg(k ymodel.Kind) string {
	if ch, ok := c.firstChild(k); ok {
		return ch.rawArg
	}
	return ""
}

// schemaChild returns the live schema tree child named q.
func (c *stmtCtx) schemaChild(q ycommon.QName) (*stmtCtx, bool) {
	for _, ch := range c.liveChildren() {
		if ch.kind.IsSchemaTree() && ch.qname == q {
			return ch, true
		}
	}
	return nil, false
}

// isPrunedSchemaChild reports whether a schema tree child named q existed
// but was pruned.
func (c *stmtCtx) isPrunedSchemaChild(q ycommon.QName) bool {
	for _, id := range c.children {
		if ch := c.b().ctx(id); ch.removed && ch.kind.IsSchemaTree() && ch.qname == q {
			return true
		}
	}
	return false
}

// module returns the QNameModule statements of this source are bound to.
func (c *stmtCtx) module() ycommon.QNameModule { return c.src.qnameModule() }

func (c *stmtCtx) String() string {
	if !c.hasArg {
		return c.keyword
	}
	return c.keyword + " " + c.rawArg
}

// ancestorOrSelf reports whether a is c or one of its ancestors.
func (c *stmtCtx) ancestorOrSelf(a *stmtCtx) bool {
	for p := c; p != nil; p = p.parentCtx() {
		if p == a {
			return true
		}
	}
	return false
}

// implicitCaseKinds are the statements a choice wraps in an implicit case.
var implicitCaseKinds = map[ymodel.Kind]bool{
	ymodel.KindContainer: true,
	ymodel.KindLeaf:      true,
	ymodel.KindLeafList:  true,
	ymodel.KindList:      true,
	ymodel.KindAnydata:   true,
	ymodel.KindAnyxml:    true,
	ymodel.KindChoice:    true,
}

// newCtx allocates a context in the arena.
func (b *build) newCtx(src *sourceCtx, parent ctxID) *stmtCtx {
	c := &stmtCtx{
		id:       ctxID(len(b.ctxs)),
		src:      src,
		parent:   parent,
		original: noCtx,
	}
	b.ctxs = append(b.ctxs, c)
	return c
}

func (b *build) ctx(id ctxID) *stmtCtx { return b.ctxs[id] }

// addChild appends child to parent. A shorthand data statement added to a
// choice is wrapped in an implicit case of the same name.
func (b *build) addChild(parent, child *stmtCtx) {
	if parent.kind == ymodel.KindChoice && implicitCaseKinds[child.kind] {
		cs := b.newCtx(child.src, parent.id)
		cs.keyword, cs.ident, cs.kind = "case", "case", ymodel.KindCase
		cs.support = supports[ymodel.KindCase]
		cs.rawArg, cs.hasArg = child.rawArg, true
		cs.qname = child.qname
		cs.ref = child.ref
		cs.flags = ymodel.Implicit | child.flags&(ymodel.Augmenting|ymodel.AddedByUses)
		cs.phase = child.phase
		parent.children = append(parent.children, cs.id)
		parent = cs
	}
	child.parent = parent.id
	parent.children = append(parent.children, child.id)
}

// loadIR creates the context tree of an IR statement.
func (b *build) loadIR(src *sourceCtx, parent *stmtCtx, st *yir.Statement) *stmtCtx {
	pid := noCtx
	if parent != nil {
		pid = parent.id
	}
	c := b.newCtx(src, pid)
	c.ir = st
	c.keyword = st.Keyword.String()
	c.prefix, c.ident = st.Keyword.Prefix, st.Keyword.Identifier
	// Everything below an extension instance is opaque.
	if c.prefix == "" && (parent == nil || parent.kind != ymodel.KindUnknown) {
		c.kind = ymodel.KindOf(c.ident)
	}
	if st.Argument != nil {
		c.rawArg, c.hasArg = st.Argument.String(), true
	}
	c.ref = ycommon.SourceRef{Source: src.name, Line: st.Line, Column: st.Column}
	if parent != nil {
		b.addChild(parent, c)
	}
	for _, ch := range st.Children {
		b.loadIR(src, c, ch)
	}
	return c
}

// copyCtx deep copies the live subtree of c under parent, rebinding QNames
// to mod. Nested uses statements are not copied because their expansion is
// already part of the subtree.
func (b *build) copyCtx(c, parent *stmtCtx, mod ycommon.QNameModule, flags ymodel.Flags) *stmtCtx {
	n := b.newCtx(parent.src, parent.id)
	n.original = c.id
	n.keyword, n.prefix, n.ident = c.keyword, c.prefix, c.ident
	n.kind, n.support = c.kind, c.support
	n.rawArg, n.hasArg = c.rawArg, c.hasArg
	n.ref = c.ref
	n.ir = c.ir
	n.refs = rebind(c.refs, c.module(), mod)
	n.extension = c.extension
	n.flags = c.flags | flags
	n.phase = c.phase
	n.qname = c.qname
	if c.kind.HasQNameArgument() {
		n.qname = c.qname.Bind(mod)
	}
	n.augmentedBy = append([]ctxID(nil), c.augmentedBy...)
	b.addChild(parent, n)
	for _, ch := range c.liveChildren() {
		if ch.kind == ymodel.KindUses {
			continue
		}
		b.copyCtx(ch, n, mod, flags)
	}
	return n
}

// rebind returns qs with the QNames of module from moved to module to.
func rebind(qs []ycommon.QName, from, to ycommon.QNameModule) []ycommon.QName {
	if qs == nil {
		return nil
	}
	out := make([]ycommon.QName, len(qs))
	for i, q := range qs {
		if q.Module == from {
			q = q.Bind(to)
		}
		out[i] = q
	}
	return out
}
