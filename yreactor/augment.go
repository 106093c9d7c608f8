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

	"github.com/openconfig/yangkit/util"
	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// instantiated reports whether statements of kind k are copied by uses and
// grafted by augment.
func instantiated(k ymodel.Kind) bool {
	switch k {
	case ymodel.KindChoice, ymodel.KindCase, ymodel.KindAction, ymodel.KindNotification:
		return true
	}
	return k.IsDataNode()
}

// parseNodeID resolves the schema node identifier argument of c. Absolute
// identifiers start with a slash, descendant identifiers do not.
func parseNodeID(c *stmtCtx, absolute bool) ([]ycommon.QName, error) {
	arg := strings.TrimSpace(c.rawArg)
	if strings.HasPrefix(arg, "/") != absolute {
		kind := "descendant"
		if absolute {
			kind = "absolute"
		}
		return nil, ycommon.NewSourceError(c.ref, "%s requires a %s schema node identifier, got %q", c.keyword, kind, arg)
	}
	parts := strings.Split(strings.TrimPrefix(arg, "/"), "/")
	steps := make([]ycommon.QName, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, ycommon.NewSourceError(c.ref, "empty step in schema node identifier %q", arg)
		}
		q, err := c.resolveQName(p)
		if err != nil {
			return nil, err
		}
		steps = append(steps, q)
	}
	return steps, nil
}

// findPath follows steps through the schema tree children of start. A step
// naming a choice shorthand may omit its implicit case. When the path does
// not resolve, pruned reports whether it ends at a node removed by
// if-feature or a deviation.
func findPath(start *stmtCtx, steps []ycommon.QName) (n *stmtCtx, pruned bool) {
	cur := start
	for i, q := range steps {
		next, ok := cur.schemaChild(q)
		if !ok {
			return nil, cur.isPrunedSchemaChild(q)
		}
		if next.flags&ymodel.Implicit != 0 && (i+1 == len(steps) || steps[i+1] != q) {
			if sh, ok := next.schemaChild(q); ok {
				next = sh
			}
		}
		cur = next
	}
	return cur, false
}

// resolveAbsolute finds the target of the absolute schema node identifier
// argument of c, searching the module and submodules owning the first step.
func (b *build) resolveAbsolute(c *stmtCtx) (*stmtCtx, bool, error) {
	steps, err := parseNodeID(c, true)
	if err != nil {
		return nil, false, err
	}
	src, ok := b.moduleSource(steps[0].Module)
	if !ok {
		return nil, false, inferenceErrorf(c.ref, "module %s of %s not found", steps[0].Module, c.rawArg)
	}
	for _, s := range src.moduleScope() {
		if n, pruned := findPath(s.rootCtx(), steps); n != nil || pruned {
			return n, pruned, nil
		}
	}
	return nil, false, nil
}

// augmentable reports whether a node of kind k accepts augmentation.
func augmentable(k ymodel.Kind) bool {
	switch k {
	case ymodel.KindContainer, ymodel.KindList, ymodel.KindChoice, ymodel.KindCase,
		ymodel.KindInput, ymodel.KindOutput, ymodel.KindNotification:
		return true
	}
	return false
}

// graft copies the schema nodes of augment a into target.
func (b *build) graft(a, target *stmtCtx, mod ycommon.QNameModule, flags ymodel.Flags) error {
	if !augmentable(target.kind) {
		return inferenceErrorf(a.ref, "augment target %s is a %s, which cannot be augmented", a.rawArg, target.kind)
	}
	for _, ch := range a.liveChildren() {
		if !instantiated(ch.kind) {
			continue
		}
		if target.kind == ymodel.KindChoice && (ch.kind == ymodel.KindAction || ch.kind == ymodel.KindNotification) {
			return ycommon.NewSourceError(ch.ref, "%s cannot be added to choice %s", ch, target.rawArg)
		}
		q := ch.qname.Bind(mod)
		if prev, ok := target.schemaChild(q); ok {
			return &CollisionError{
				Ref:     ch.ref,
				PrevRef: prev.ref,
				Msg:     ch.ref.String() + ": " + ch.String() + " added by augment " + a.rawArg + " conflicts with " + prev.String() + " at " + prev.ref.String(),
			}
		}
		b.copyCtx(ch, target, mod, flags)
	}
	target.augmentedBy = append(target.augmentedBy, a.id)
	return nil
}

// expandAugments grafts the top-level augment statements of srcs onto their
// targets. Targets may be introduced by other augments, so unresolved
// augments are retried until no augment makes progress.
func (b *build) expandAugments(srcs []*sourceCtx) error {
	pending := topLevel(srcs, ymodel.KindAugment)
	for len(pending) > 0 {
		var next []*stmtCtx
		progress := false
		for _, a := range pending {
			target, pruned, err := b.resolveAbsolute(a)
			switch {
			case err != nil:
				return atSource(a.src, err)
			case pruned:
				log.V(2).Infof("full declaration: %s: target of augment %s is not supported", a.ref, a.rawArg)
				progress = true
			case target == nil:
				next = append(next, a)
			default:
				util.DbgPrint("augment %s at %v", a.rawArg, a.ref)
				if err := b.graft(a, target, a.module(), ymodel.Augmenting); err != nil {
					return atSource(a.src, err)
				}
				progress = true
			}
		}
		if !progress {
			a := next[0]
			return atSource(a.src, inferenceErrorf(a.ref, "augment target %s not found", a.rawArg))
		}
		pending = next
	}
	return nil
}
