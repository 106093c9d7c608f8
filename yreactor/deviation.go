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

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// applyDeviations applies the top-level deviation statements of srcs in
// source order. Deviations of nodes removed by if-feature are ignored.
func (b *build) applyDeviations(srcs []*sourceCtx) error {
	for _, d := range topLevel(srcs, ymodel.KindDeviation) {
		target, pruned, err := b.resolveAbsolute(d)
		switch {
		case err != nil:
			return atSource(d.src, err)
		case pruned:
			continue
		case target == nil:
			return atSource(d.src, inferenceErrorf(d.ref, "deviation target %s not found", d.rawArg))
		}
		for _, dv := range d.childrenOf(ymodel.KindDeviate) {
			if err := b.deviate(dv, target); err != nil {
				return atSource(d.src, err)
			}
			if target.removed {
				break
			}
		}
	}
	return nil
}

// deviate applies one deviate statement to target.
func (b *build) deviate(dv, target *stmtCtx) error {
	mod := target.module()
	switch dv.rawArg {
	case "not-supported":
		log.V(2).Infof("full declaration: %s: %s is not supported", dv.ref, target)
		target.removed = true
	case "add":
		for _, p := range dv.liveChildren() {
			if p.kind != ymodel.KindUnknown && isSingleValued(target, p.kind) {
				if old, ok := target.firstChild(p.kind); ok {
					return inferenceErrorf(p.ref, "deviate add: %s already has %s at %s", target, p.kind, old.ref)
				}
			}
			b.copyCtx(p, target, mod, 0)
		}
	case "replace":
		for _, p := range dv.liveChildren() {
			old, ok := target.firstChild(p.kind)
			if !ok {
				return inferenceErrorf(p.ref, "deviate replace: %s has no %s to replace", target, p.kind)
			}
			old.removed = true
			b.copyCtx(p, target, mod, 0)
		}
	case "delete":
		for _, p := range dv.liveChildren() {
			old, ok := matchingProperty(target, p)
			if !ok {
				return inferenceErrorf(p.ref, "deviate delete: %s has no %s %q", target, p.kind, p.rawArg)
			}
			old.removed = true
		}
	default:
		return ycommon.NewSourceError(dv.ref, "invalid deviate argument %q", dv.rawArg)
	}
	return nil
}

// matchingProperty finds the live child of target with the kind and
// argument of p.
func matchingProperty(target, p *stmtCtx) (*stmtCtx, bool) {
	for _, c := range target.childrenOf(p.kind) {
		if c.keyword == p.keyword && c.rawArg == p.rawArg {
			return c, true
		}
	}
	return nil, false
}
