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
	"strings"

	log "github.com/golang/glog"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// headerKinds are the substatements of a submodule that are not flattened
// into the owning module.
var headerKinds = map[ymodel.Kind]bool{
	ymodel.KindBelongsTo:    true,
	ymodel.KindContact:      true,
	ymodel.KindDescription:  true,
	ymodel.KindImport:       true,
	ymodel.KindInclude:      true,
	ymodel.KindOrganization: true,
	ymodel.KindReference:    true,
	ymodel.KindRevision:     true,
	ymodel.KindYangVersion:  true,
}

// buildContext builds the effective modules of the required sources.
func (b *build) buildContext() (*ymodel.Context, error) {
	var mods []*ymodel.Module
	for _, s := range b.required() {
		if s.submodule {
			continue
		}
		m, err := b.buildModule(s)
		if err != nil {
			return nil, atSource(s, err)
		}
		mods = append(mods, m)
	}
	log.V(1).Infof("reactor: built %d modules", len(mods))
	return ymodel.NewContext(mods), nil
}

// buildModule builds module s, flattening the body statements of its
// submodules into its substatements.
func (b *build) buildModule(s *sourceCtx) (*ymodel.Module, error) {
	root := s.rootCtx()
	subs, err := b.effectiveChildren(root)
	if err != nil {
		return nil, err
	}
	var submodules []*ymodel.Effective
	imports := map[string]ycommon.QNameModule{}
	addImports(root, imports)
	for _, sub := range s.scope[1:] {
		sroot := sub.rootCtx()
		for _, ch := range sroot.liveChildren() {
			if headerKinds[ch.kind] {
				continue
			}
			e, err := b.effectiveOf(ch)
			if err != nil {
				return nil, atSource(sub, err)
			}
			subs = append(subs, e)
		}
		e, err := b.effectiveOf(sroot)
		if err != nil {
			return nil, atSource(sub, err)
		}
		submodules = append(submodules, e)
		addImports(sroot, imports)
	}
	e, err := ymodel.NewEffective(ymodel.EffectiveArgs{
		Kind:          root.kind,
		Keyword:       root.keyword,
		Argument:      root.rawArg,
		Declared:      b.declared(root),
		Ref:           root.ref,
		Substatements: subs,
	})
	if err != nil {
		return nil, collisionOf(root.ref, err)
	}
	root.effective = e
	return ymodel.NewModule(ymodel.ModuleArgs{
		Root:       e,
		Name:       s.id.Name,
		Module:     s.qnameModule(),
		Prefix:     s.prefix,
		SemVer:     s.semver,
		Submodules: submodules,
		Imports:    imports,
	}), nil
}

// addImports adds the prefix bindings of root to imports. The first binding
// of a prefix wins.
func addImports(root *stmtCtx, imports map[string]ycommon.QNameModule) {
	t := root.ns.table(prefixNS.Name, false)
	if t == nil {
		return
	}
	for _, k := range t.order {
		if _, ok := imports[k.(string)]; !ok {
			imports[k.(string)] = t.entries[k].value.(ycommon.QNameModule)
		}
	}
}

func (b *build) effectiveChildren(c *stmtCtx) ([]*ymodel.Effective, error) {
	var subs []*ymodel.Effective
	for _, ch := range c.liveChildren() {
		e, err := b.effectiveOf(ch)
		if err != nil {
			return nil, err
		}
		subs = append(subs, e)
	}
	return subs, nil
}

// effectiveOf builds the effective statement of c, children first. Results
// are memoized; a statement that depends on itself through type, base or
// similar references is an error.
func (b *build) effectiveOf(c *stmtCtx) (*ymodel.Effective, error) {
	if c.effective != nil {
		return c.effective, nil
	}
	if c.building {
		return nil, inferenceErrorf(c.ref, "%s depends on itself", c)
	}
	c.building = true
	defer func() { c.building = false }()
	c.phase = PhaseEffectiveModel

	subs, err := b.effectiveChildren(c)
	if err != nil {
		return nil, err
	}
	var augs []*ymodel.Effective
	for _, id := range c.augmentedBy {
		a := b.ctx(id)
		if a.removed {
			continue
		}
		e, err := b.effectiveOf(a)
		if err != nil {
			return nil, err
		}
		augs = append(augs, e)
	}
	args := ymodel.EffectiveArgs{
		Kind:          c.kind,
		Keyword:       c.keyword,
		Argument:      c.rawArg,
		QName:         c.qname,
		Extension:     c.extension,
		Declared:      b.declared(c),
		Ref:           c.ref,
		Substatements: subs,
		Augmentations: augs,
		References:    c.refs,
		Flags:         c.flags,
	}
	if c.support != nil && c.support.effective != nil {
		if err := c.support.effective(b, c, &args); err != nil {
			return nil, err
		}
	}
	e, err := ymodel.NewEffective(args)
	if err != nil {
		return nil, collisionOf(c.ref, err)
	}
	c.effective = e
	return e, nil
}

// declared returns the declared statement c was built from. Implicit
// statements have none.
func (b *build) declared(c *stmtCtx) *ymodel.Declared {
	d := c.declaredCtx()
	if d.flags&ymodel.Implicit != 0 {
		return nil
	}
	if d.declared != nil {
		return d.declared
	}
	var subs []*ymodel.Declared
	for _, ch := range b.declaredChildren(d) {
		subs = append(subs, b.declared(ch))
	}
	d.declared = ymodel.NewDeclared(d.kind, d.keyword, d.rawArg, d.ref, subs)
	return d.declared
}

// declaredChildren returns the children of c that appear in source,
// including pruned ones and looking through implicit cases.
func (b *build) declaredChildren(c *stmtCtx) []*stmtCtx {
	var out []*stmtCtx
	for _, id := range c.children {
		ch := b.ctx(id)
		switch {
		case ch.original != noCtx:
		case ch.flags&ymodel.Implicit != 0:
			out = append(out, b.declaredChildren(ch)...)
		default:
			out = append(out, ch)
		}
	}
	return out
}

// typeEffective resolves a derived type to its typedef.
func typeEffective(b *build, c *stmtCtx, a *ymodel.EffectiveArgs) error {
	if !strings.Contains(c.rawArg, ":") && ymodel.BuiltinTypes[c.rawArg] {
		return nil
	}
	q, err := c.resolveQName(c.rawArg)
	if err != nil {
		return err
	}
	td, ok := b.findDefinition(c, typedefNS, q)
	if !ok {
		return inferenceErrorf(c.ref, "type %s not found", c.rawArg)
	}
	if _, err := b.effectiveOf(td); err != nil {
		return err
	}
	a.References = []ycommon.QName{td.qname}
	return nil
}

// baseEffective resolves a base statement to its identity.
func baseEffective(b *build, c *stmtCtx, a *ymodel.EffectiveArgs) error {
	q, err := c.resolveQName(c.rawArg)
	if err != nil {
		return err
	}
	id, ok := b.findDefinition(c, identityNS, q)
	if !ok {
		return inferenceErrorf(c.ref, "base identity %s not found", c.rawArg)
	}
	if _, err := b.effectiveOf(id); err != nil {
		return err
	}
	a.References = []ycommon.QName{id.qname}
	return nil
}

// identityEffective records the bases of an identity.
func identityEffective(_ *build, _ *stmtCtx, a *ymodel.EffectiveArgs) error {
	for _, s := range a.Substatements {
		if s.Kind == ymodel.KindBase {
			a.References = append(a.References, s.References...)
		}
	}
	return nil
}

// keyEffective checks that every key names a leaf of the list.
func keyEffective(_ *build, c *stmtCtx, _ *ymodel.EffectiveArgs) error {
	list := c.parentCtx()
	for _, q := range c.refs {
		leaf, ok := list.schemaChild(q)
		if !ok || leaf.kind != ymodel.KindLeaf {
			return inferenceErrorf(c.ref, "key leaf %s not found in list %s", q.Name, list.rawArg)
		}
	}
	return nil
}

// operationEffective adds the implicit input and output of an rpc or action.
func operationEffective(_ *build, c *stmtCtx, a *ymodel.EffectiveArgs) error {
	for _, k := range []ymodel.Kind{ymodel.KindInput, ymodel.KindOutput} {
		if _, ok := findKind(a.Substatements, k); ok {
			continue
		}
		e, err := ymodel.NewEffective(ymodel.EffectiveArgs{
			Kind:    k,
			Keyword: k.String(),
			QName:   ycommon.QName{Module: c.qname.Module, Name: k.String()},
			Ref:     c.ref,
			Flags:   ymodel.Implicit | c.flags&(ymodel.Augmenting|ymodel.AddedByUses),
		})
		if err != nil {
			return err
		}
		a.Substatements = append(a.Substatements, e)
	}
	return nil
}

func findKind(es []*ymodel.Effective, k ymodel.Kind) (*ymodel.Effective, bool) {
	for _, e := range es {
		if e.Kind == k {
			return e, true
		}
	}
	return nil, false
}
