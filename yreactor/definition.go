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
	"github.com/openconfig/yangkit/ymodel"
)

// moduleScopedNamespaces are checked for collisions across a module and its
// submodules once every source is defined.
var moduleScopedNamespaces = []string{
	identityNS.Name, featureNS.Name, extensionNS.Name,
	groupingNS.Name, typedefNS.Name, schemaTreeNS.Name,
}

// define runs statement definition over the required sources.
func (b *build) define() error {
	required := b.required()
	if err := b.forEachSource(required, func(s *sourceCtx) error {
		return b.walk(s.rootCtx(), b.defineCtx)
	}); err != nil {
		return err
	}
	// Barrier: definitions of a module and its submodules share namespaces.
	for _, s := range required {
		if s.submodule {
			continue
		}
		if err := checkModuleScope(s); err != nil {
			return err
		}
	}
	return nil
}

// defineCtx checks the argument and substatements of c and registers the
// definitions and schema tree names it introduces. It only mutates contexts
// of the source of c.
func (b *build) defineCtx(c *stmtCtx) error {
	c.phase = PhaseStatementDefinition
	parent := c.parentCtx()
	if c.kind == ymodel.KindUnknown {
		if c.prefix == "" && (parent == nil || parent.kind != ymodel.KindUnknown) {
			return ycommon.NewSourceError(c.ref, "unknown statement %s", c.keyword)
		}
		c.support = extensionSupport
		return nil
	}
	sup, ok := supports[c.kind]
	if !ok {
		return ycommon.NewSourceError(c.ref, "unsupported statement %s", c.keyword)
	}
	c.support = sup
	switch {
	case sup.noArg && c.hasArg:
		return ycommon.NewSourceError(c.ref, "%s does not take an argument", c.keyword)
	case !sup.noArg && !c.hasArg:
		return ycommon.NewSourceError(c.ref, "%s requires an argument", c.keyword)
	}
	if sup.argument != nil {
		if err := sup.argument(c); err != nil {
			return err
		}
	}
	if sup.validator != nil {
		if err := sup.validator.validate(c); err != nil {
			return err
		}
	}

	switch c.kind {
	case ymodel.KindGrouping:
		return addToNamespaceAt(parent, groupingNS, c.rawArg, c.id, c.ref)
	case ymodel.KindTypedef:
		return addToNamespaceAt(parent, typedefNS, c.rawArg, c.id, c.ref)
	case ymodel.KindIdentity:
		return addToNamespace(c, identityNS, c.rawArg, c.id)
	case ymodel.KindFeature:
		return addToNamespace(c, featureNS, c.rawArg, c.id)
	case ymodel.KindExtension:
		return addToNamespace(c, extensionNS, c.rawArg, c.id)
	}
	if c.kind.IsSchemaTree() && parent != nil {
		return addToNamespaceAt(parent, schemaTreeNS, c.qname, c.id, c.ref)
	}
	return nil
}

// checkModuleScope reports definitions of module m and its submodules that
// collide.
func checkModuleScope(m *sourceCtx) error {
	if len(m.scope) < 2 {
		return nil
	}
	for _, name := range moduleScopedNamespaces {
		merged := nsStore{}
		for _, s := range m.scope {
			t := s.rootCtx().ns.table(name, false)
			if t == nil {
				continue
			}
			for _, k := range t.order {
				e := t.entries[k]
				if err := merged.put(name, k, e.value, e.ref); err != nil {
					return atSource(s, err)
				}
			}
		}
	}
	return nil
}
