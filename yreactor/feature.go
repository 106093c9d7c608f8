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

type featureState int

const (
	featureUnknown featureState = iota
	featureEvaluating
	featureSupported
	featureUnsupported
)

// resolveExtensions binds each extension instance below c to the extension
// it instantiates.
func (b *build) resolveExtensions(c *stmtCtx) error {
	return b.walk(c, func(c *stmtCtx) error {
		if c.prefix == "" {
			return nil
		}
		if p := c.parentCtx(); p != nil && p.kind == ymodel.KindUnknown {
			return nil
		}
		m, ok := c.resolvePrefix(c.prefix)
		if !ok {
			return inferenceErrorf(c.ref, "prefix %s of extension %s is not defined", c.prefix, c.keyword)
		}
		q := ycommon.QName{Module: m, Name: c.ident}
		if _, ok := b.findDefinition(c, extensionNS, q); !ok {
			return inferenceErrorf(c.ref, "extension %s not found", c.keyword)
		}
		c.extension = q
		return nil
	})
}

// pruneFeatures removes the statements below c whose if-feature conditions
// do not hold. Substatements of removed statements are never visited.
func (b *build) pruneFeatures(c *stmtCtx) error {
	for _, ch := range c.liveChildren() {
		if ch.kind == ymodel.KindUnknown {
			continue
		}
		// A feature is kept; its own conditions decide whether it is
		// supported. The conditions of a refine apply to its target.
		if ch.kind != ymodel.KindFeature && ch.kind != ymodel.KindRefine {
			ok, err := b.conditionsHold(ch)
			if err != nil {
				return err
			}
			if !ok {
				log.V(2).Infof("full declaration: %s: pruning %s", ch.ref, ch)
				ch.removed = true
				continue
			}
		}
		if err := b.pruneFeatures(ch); err != nil {
			return err
		}
	}
	return nil
}

// conditionsHold evaluates the if-feature substatements of c.
func (b *build) conditionsHold(c *stmtCtx) (bool, error) {
	for _, f := range c.childrenOf(ymodel.KindIfFeature) {
		ok, err := b.evalIfFeature(f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// evalIfFeature evaluates one if-feature statement and records the features
// it references.
func (b *build) evalIfFeature(f *stmtCtx) (bool, error) {
	expr, err := ymodel.ParseIfFeatureExpr(f.rawArg, f.resolveQName)
	if err != nil {
		return false, ycommon.NewSourceError(f.ref, "%v", err)
	}
	f.refs = expr.References()
	supported := map[ycommon.QName]bool{}
	for _, q := range f.refs {
		ok, err := b.featureSupported(f, q)
		if err != nil {
			return false, err
		}
		supported[q] = ok
	}
	return expr.Evaluate(func(q ycommon.QName) bool { return supported[q] }), nil
}

// featureSupported reports whether feature q, referenced from c, is
// supported: it is in the configured feature set and its own if-feature
// conditions hold.
func (b *build) featureSupported(c *stmtCtx, q ycommon.QName) (bool, error) {
	ft, ok := b.findDefinition(c, featureNS, q)
	if !ok {
		return false, inferenceErrorf(c.ref, "feature %s not found", q)
	}
	switch b.features[ft.id] {
	case featureSupported:
		return true, nil
	case featureUnsupported:
		return false, nil
	case featureEvaluating:
		return false, inferenceErrorf(ft.ref, "feature %s depends on itself", q)
	}
	b.features[ft.id] = featureEvaluating
	ok = b.cfg.SupportedFeatures.Contains(q)
	if ok {
		var err error
		if ok, err = b.conditionsHold(ft); err != nil {
			return false, err
		}
	}
	b.features[ft.id] = featureUnsupported
	if ok {
		b.features[ft.id] = featureSupported
	}
	return ok, nil
}
