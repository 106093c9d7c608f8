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
	log "github.com/golang/glog"

	"github.com/openconfig/yangkit/util"
	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

type expandState int

const (
	notExpanded expandState = iota
	expanding
	expanded
)

// singleValued are the properties a refine or deviate replaces rather than
// adds to.
var singleValued = map[ymodel.Kind]bool{
	ymodel.KindConfig:      true,
	ymodel.KindDescription: true,
	ymodel.KindMandatory:   true,
	ymodel.KindMaxElements: true,
	ymodel.KindMinElements: true,
	ymodel.KindPresence:    true,
	ymodel.KindReference:   true,
	ymodel.KindType:        true,
	ymodel.KindUnits:       true,
}

// isSingleValued reports whether target holds at most one property of kind
// k. Leaf-lists may have several defaults.
func isSingleValued(target *stmtCtx, k ymodel.Kind) bool {
	if k == ymodel.KindDefault {
		return target.kind != ymodel.KindLeafList
	}
	return singleValued[k]
}

// expandAllUses expands every uses statement below c. Copies inserted by an
// expansion are already expanded.
func (b *build) expandAllUses(c *stmtCtx) error {
	for _, ch := range c.liveChildren() {
		if ch.kind == ymodel.KindUnknown {
			continue
		}
		if ch.kind == ymodel.KindUses {
			if err := b.expandUses(ch); err != nil {
				return err
			}
			continue
		}
		if ch.original != noCtx {
			continue
		}
		if err := b.expandAllUses(ch); err != nil {
			return err
		}
	}
	return nil
}

// expandUses instantiates the grouping referenced by u in the parent of u,
// then applies the refine and augment substatements of u.
func (b *build) expandUses(u *stmtCtx) error {
	if b.expanded[u.id] == expanded {
		return nil
	}
	q, err := u.resolveQName(u.rawArg)
	if err != nil {
		return err
	}
	g, ok := b.findDefinition(u, groupingNS, q)
	if !ok {
		return inferenceErrorf(u.ref, "grouping %s not found", u.rawArg)
	}
	switch b.expanded[g.id] {
	case expanding:
		return inferenceErrorf(u.ref, "grouping %s is used recursively", u.rawArg)
	case notExpanded:
		b.expanded[g.id] = expanding
		if err := b.expandAllUses(g); err != nil {
			return err
		}
		b.expanded[g.id] = expanded
	}
	u.refs = []ycommon.QName{g.qname}
	util.DbgPrint("uses %s at %v", u.rawArg, u.ref)
	util.Indent()
	defer util.Dedent()

	parent := u.parentCtx()
	mod := u.module()
	before := len(parent.children)
	for _, ch := range g.liveChildren() {
		if instantiated(ch.kind) {
			b.copyCtx(ch, parent, mod, ymodel.AddedByUses)
		}
	}
	moveBefore(parent, before, u.id)
	log.V(2).Infof("full declaration: %s: uses %s added %d statements", u.ref, u.rawArg, len(parent.children)-before)

	for _, r := range u.childrenOf(ymodel.KindRefine) {
		if err := b.refine(u, r, g); err != nil {
			return err
		}
	}
	for _, a := range u.childrenOf(ymodel.KindAugment) {
		if err := b.expandAllUses(a); err != nil {
			return err
		}
		steps, err := parseNodeID(a, false)
		if err != nil {
			return err
		}
		target, pruned := findPath(parent, steps)
		if target == nil {
			if pruned || prunedInGrouping(g, steps) {
				continue
			}
			return inferenceErrorf(a.ref, "augment target %s not found", a.rawArg)
		}
		if err := b.graft(a, target, mod, ymodel.AddedByUses|ymodel.Augmenting); err != nil {
			return err
		}
	}
	b.expanded[u.id] = expanded
	return nil
}

// moveBefore moves the children of parent appended after index from to the
// position of the child id.
func moveBefore(parent *stmtCtx, from int, id ctxID) {
	added := append([]ctxID(nil), parent.children[from:]...)
	kept := parent.children[:from]
	out := make([]ctxID, 0, len(parent.children))
	for _, c := range kept {
		if c == id {
			out = append(out, added...)
		}
		out = append(out, c)
	}
	parent.children = out
}

// prunedInGrouping reports whether steps, resolved against the template
// grouping g, lead to a node removed by if-feature. Such nodes are never
// copied to the use site.
func prunedInGrouping(g *stmtCtx, steps []ycommon.QName) bool {
	rebound := make([]ycommon.QName, len(steps))
	for i, q := range steps {
		rebound[i] = ycommon.QName{Module: g.module(), Name: q.Name}
	}
	_, pruned := findPath(g, rebound)
	return pruned
}

// refine applies refine statement r of uses u to the copied node it targets.
func (b *build) refine(u, r, g *stmtCtx) error {
	steps, err := parseNodeID(r, false)
	if err != nil {
		return err
	}
	target, pruned := findPath(u.parentCtx(), steps)
	if target == nil {
		if pruned || prunedInGrouping(g, steps) {
			return nil
		}
		return inferenceErrorf(r.ref, "refine target %s not found", r.rawArg)
	}
	mod := u.module()
	for _, p := range r.liveChildren() {
		if isSingleValued(target, p.kind) {
			for _, old := range target.childrenOf(p.kind) {
				old.removed = true
			}
		}
		b.copyCtx(p, target, mod, 0)
	}
	if _, ok := r.firstChild(ymodel.KindIfFeature); ok {
		ok, err := b.conditionsHold(target)
		if err != nil {
			return err
		}
		if !ok {
			log.V(2).Infof("full declaration: %s: refine %s prunes %s", r.ref, r.rawArg, target)
			target.removed = true
		}
	}
	return nil
}
