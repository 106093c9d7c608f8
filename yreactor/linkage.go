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

	log "github.com/golang/glog"
	"github.com/hashicorp/go-version"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// semverKeyword is the extension carrying the openconfig semantic version of
// a module or the version requested by an import.
const semverKeyword = "openconfig-version"

// preLinkage loads the sources and publishes their identities.
func (b *build) preLinkage() error {
	if err := b.forEachSource(b.sources, func(s *sourceCtx) error {
		st, err := s.in.Statement()
		if err != nil {
			return err
		}
		s.ir = st
		return nil
	}); err != nil {
		return err
	}
	for _, s := range b.sources {
		s.root = b.loadIR(s, nil, s.ir).id
	}
	if err := b.forEachSource(b.sources, (*sourceCtx).preLink); err != nil {
		return err
	}

	// Barrier: publish the identities in source order.
	for _, s := range b.sources {
		ns := modulesNS
		if s.submodule {
			ns = submodulesNS
		}
		root := s.rootCtx()
		if s.lib {
			if prev, ok := getFromNamespace(root, ns, s.id); ok {
				log.Warningf("library source %s is shadowed by %s", s.name, prev.name)
				s.shadowed = true
				continue
			}
		}
		if err := addToNamespace(root, ns, s.id, s); err != nil {
			return atSource(s, err)
		}
	}
	return nil
}

// preLink extracts the identity, imports and includes of s. It only reads
// the statements of s.
func (s *sourceCtx) preLink() error {
	root := s.rootCtx()
	root.phase = PhaseSourcePreLinkage
	switch root.kind {
	case ymodel.KindModule:
	case ymodel.KindSubmodule:
		s.submodule = true
	default:
		return ycommon.NewSourceError(root.ref, "root statement must be module or submodule, found %s", root.keyword)
	}
	if err := identifierArg(root); err != nil {
		return err
	}
	if err := supports[root.kind].validator.validate(root); err != nil {
		return err
	}
	s.id.Name = root.rawArg
	for _, r := range root.childrenOf(ymodel.KindRevision) {
		rev, err := ycommon.ParseRevision(r.rawArg)
		if err != nil {
			return ycommon.NewSourceError(r.ref, "revision: %v", err)
		}
		if ycommon.CompareRevisions(rev, s.id.Revision) > 0 {
			s.id.Revision = rev
		}
	}
	if want := s.in.ID(); want.Name != "" && (want.Name != s.id.Name || (!want.Revision.IsZero() && want.Revision != s.id.Revision)) {
		log.Warningf("%s: source identifier %s does not match declared %s", s.name, want, s.id)
	}

	s.yangVersion = root.firstArg(ymodel.KindYangVersion)
	if s.yangVersion == "" {
		s.yangVersion = "1"
	}
	s.semver = extensionArg(root, semverKeyword)
	if s.submodule {
		bt, _ := root.firstChild(ymodel.KindBelongsTo)
		s.belongsTo = bt.rawArg
		s.prefix = bt.firstArg(ymodel.KindPrefix)
	} else {
		s.namespace = root.firstArg(ymodel.KindNamespace)
		s.prefix = root.firstArg(ymodel.KindPrefix)
	}

	for _, c := range root.childrenOf(ymodel.KindImport) {
		imp := importSpec{ctx: c, name: c.rawArg, prefix: c.firstArg(ymodel.KindPrefix), semver: extensionArg(c, semverKeyword)}
		if r, ok := c.firstChild(ymodel.KindRevisionDate); ok {
			rev, err := ycommon.ParseRevision(r.rawArg)
			if err != nil {
				return ycommon.NewSourceError(r.ref, "revision-date: %v", err)
			}
			imp.rev = rev
		}
		if imp.prefix == "" {
			return ycommon.NewSourceError(c.ref, "import %s is missing prefix", imp.name)
		}
		s.imports = append(s.imports, imp)
	}
	for _, c := range root.childrenOf(ymodel.KindInclude) {
		inc := includeSpec{ctx: c, name: c.rawArg}
		if r, ok := c.firstChild(ymodel.KindRevisionDate); ok {
			rev, err := ycommon.ParseRevision(r.rawArg)
			if err != nil {
				return ycommon.NewSourceError(r.ref, "revision-date: %v", err)
			}
			inc.rev = rev
		}
		s.includes = append(s.includes, inc)
	}
	log.V(2).Infof("pre-linkage: %s is %s %s", s.name, s.kind(), s.id)
	return nil
}

// extensionArg returns the argument of the first extension instance with
// identifier ident below c, whatever its prefix.
func extensionArg(c *stmtCtx, ident string) string {
	for _, ch := range c.liveChildren() {
		if ch.prefix != "" && ch.ident == ident {
			return ch.rawArg
		}
	}
	return ""
}

// link resolves the required sources, their imports and includes, assigns
// submodules to their modules and publishes the module namespaces.
func (b *build) link() error {
	var queue []*sourceCtx
	for _, s := range b.sources {
		if !s.lib {
			s.required = true
			queue = append(queue, s)
		}
	}
	require := func(s *sourceCtx) {
		if !s.required {
			log.V(2).Infof("linkage: library source %s is required", s.name)
			s.required = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, imp := range s.imports {
			m, err := b.resolveImport(s, imp)
			if err != nil {
				return atSource(s, err)
			}
			s.imported = append(s.imported, m)
			require(m)
		}
		for _, inc := range s.includes {
			sub, err := b.resolveInclude(s, inc)
			if err != nil {
				return atSource(s, err)
			}
			s.included = append(s.included, sub)
			require(sub)
		}
	}

	required := b.required()
	for _, s := range required {
		if s.submodule {
			continue
		}
		s.owner = s
		s.scope = []*sourceCtx{s}
		if err := s.own(s); err != nil {
			return atSource(s, err)
		}
	}
	for _, s := range required {
		if !s.submodule || s.owner != nil {
			continue
		}
		var owner *sourceCtx
		for _, m := range allNamespaceValues(s.rootCtx(), modulesNS) {
			if m.id.Name == s.belongsTo && (owner == nil || ycommon.CompareRevisions(m.id.Revision, owner.id.Revision) > 0) {
				owner = m
			}
		}
		bt, _ := s.rootCtx().firstChild(ymodel.KindBelongsTo)
		if owner == nil {
			return atSource(s, inferenceErrorf(bt.ref, "Module %s from belongs-to was not found", s.belongsTo))
		}
		return atSource(s, inferenceErrorf(bt.ref, "submodule %s is not included by module %s", s.id.Name, owner.id))
	}

	// Barrier: publish the namespaces of the required modules.
	for _, s := range required {
		if s.submodule {
			continue
		}
		qm := s.qnameModule()
		root := s.rootCtx()
		if prev, ok := getFromNamespace(root, moduleNamespaceNS, qm); ok {
			prevRef, _ := namespaceRef(root, moduleNamespaceNS, qm)
			return atSource(s, &CollisionError{
				Ref:     root.ref,
				PrevRef: prevRef,
				Msg:     fmt.Sprintf("Adding %s causes conflict on namespace %s with %s", s.id, qm, prev.id),
			})
		}
		if err := addToNamespace(root, moduleNamespaceNS, qm, s); err != nil {
			return atSource(s, err)
		}
	}

	for _, s := range required {
		if err := s.bindPrefixes(); err != nil {
			return atSource(s, err)
		}
	}
	return nil
}

// own assigns the submodules included by s, transitively, to module m.
func (s *sourceCtx) own(m *sourceCtx) error {
	for i, sub := range s.included {
		ref := s.includes[i].ctx.ref
		switch {
		case sub.owner == m:
			continue
		case sub.owner != nil:
			return inferenceErrorf(ref, "submodule %s is included by both %s and %s", sub.id, sub.owner.id, m.id)
		case sub.belongsTo != m.id.Name:
			return inferenceErrorf(ref, "submodule %s belongs to %s, not %s", sub.id, sub.belongsTo, m.id.Name)
		}
		sub.owner = m
		m.scope = append(m.scope, sub)
		if err := sub.own(m); err != nil {
			return err
		}
	}
	return nil
}

// bindPrefixes fills the prefix namespace of s.
func (s *sourceCtx) bindPrefixes() error {
	root := s.rootCtx()
	root.phase = PhaseLinkage
	if err := addToNamespace(root, prefixNS, s.prefix, s.qnameModule()); err != nil {
		return err
	}
	seen := map[string]bool{s.prefix: true}
	for i, imp := range s.imports {
		if seen[imp.prefix] {
			return ycommon.NewSourceError(imp.ctx.ref, "Duplicate import prefix %s", imp.prefix)
		}
		seen[imp.prefix] = true
		if err := addToNamespace(imp.ctx, prefixNS, imp.prefix, s.imported[i].qnameModule()); err != nil {
			return err
		}
	}
	return nil
}

// requested formats the module requested by an import.
func (imp importSpec) requested() string {
	r := imp.name
	if !imp.rev.IsZero() {
		r += "@" + string(imp.rev)
	}
	if imp.semver != "" {
		r += "(" + imp.semver + ")"
	}
	return r
}

// resolveImport selects the module for imp. Without a pinned revision the
// latest revision wins. In semver mode an import requesting a version selects
// the highest version with the same major version that is not lower than the
// requested one.
func (b *build) resolveImport(s *sourceCtx, imp importSpec) (*sourceCtx, error) {
	var cands []*sourceCtx
	for _, m := range allNamespaceValues(s.rootCtx(), modulesNS) {
		if m.id.Name == imp.name {
			cands = append(cands, m)
		}
	}
	if len(cands) == 0 {
		return nil, inferenceErrorf(imp.ctx.ref, "Imported module [%s] was not found", imp.name)
	}
	incompatible := inferenceErrorf(imp.ctx.ref, "Unable to find module compatible with requested import [%s]", imp.requested())
	if !imp.rev.IsZero() {
		for _, m := range cands {
			if m.id.Revision == imp.rev {
				return m, nil
			}
		}
		return nil, incompatible
	}
	if b.cfg.Mode == ModeSemVer && imp.semver != "" {
		want, err := version.NewVersion(imp.semver)
		if err != nil {
			return nil, ycommon.NewSourceError(imp.ctx.ref, "invalid %s %q: %v", semverKeyword, imp.semver, err)
		}
		var best *sourceCtx
		var bestVer *version.Version
		for _, m := range cands {
			v, err := version.NewVersion(m.semver)
			if err != nil || v.Segments()[0] != want.Segments()[0] || v.LessThan(want) {
				continue
			}
			if best == nil || v.GreaterThan(bestVer) || (v.Equal(bestVer) && ycommon.CompareRevisions(m.id.Revision, best.id.Revision) > 0) {
				best, bestVer = m, v
			}
		}
		if best == nil {
			return nil, incompatible
		}
		log.V(2).Infof("linkage: %s imports %s as %s", s.id, imp.requested(), best.id)
		return best, nil
	}
	best := cands[0]
	for _, m := range cands[1:] {
		if ycommon.CompareRevisions(m.id.Revision, best.id.Revision) > 0 {
			best = m
		}
	}
	log.V(2).Infof("linkage: %s imports %s as %s", s.id, imp.requested(), best.id)
	return best, nil
}

// resolveInclude selects the submodule for inc, the latest revision unless
// one is pinned.
func (b *build) resolveInclude(s *sourceCtx, inc includeSpec) (*sourceCtx, error) {
	var best *sourceCtx
	for _, sub := range allNamespaceValues(s.rootCtx(), submodulesNS) {
		if sub.id.Name != inc.name {
			continue
		}
		if !inc.rev.IsZero() {
			if sub.id.Revision == inc.rev {
				return sub, nil
			}
			continue
		}
		if best == nil || ycommon.CompareRevisions(sub.id.Revision, best.id.Revision) > 0 {
			best = sub
		}
	}
	if best == nil {
		return nil, inferenceErrorf(inc.ctx.ref, "Included submodule %s was not found", inc.name)
	}
	return best, nil
}
