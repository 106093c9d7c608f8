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

	"github.com/openconfig/yangkit/ycommon"
)

// resolvePrefix maps a prefix to a module as seen from the source c was
// declared in.
func (c *stmtCtx) resolvePrefix(prefix string) (ycommon.QNameModule, bool) {
	return getFromNamespace(c.declaredCtx(), prefixNS, prefix)
}

// resolveQName resolves an optionally prefixed identifier used in c.
// Unprefixed identifiers belong to the module c was declared in.
func (c *stmtCtx) resolveQName(s string) (ycommon.QName, error) {
	d := c.declaredCtx()
	prefix, name, ok := strings.Cut(s, ":")
	if !ok {
		return ycommon.QName{Module: d.module(), Name: s}, nil
	}
	if !isIdentifier(name) {
		return ycommon.QName{}, ycommon.NewSourceError(c.ref, "invalid identifier %q", s)
	}
	m, ok := c.resolvePrefix(prefix)
	if !ok {
		return ycommon.QName{}, inferenceErrorf(c.ref, "prefix %s is not defined", prefix)
	}
	return ycommon.QName{Module: m, Name: name}, nil
}

// moduleSource returns the module source with namespace and revision m.
func (b *build) moduleSource(m ycommon.QNameModule) (*sourceCtx, bool) {
	e, ok := b.global.get(moduleNamespaceNS.Name, m)
	if !ok {
		return nil, false
	}
	return e.value.(*sourceCtx), true
}

// findDefinition finds the definition q in namespace ns. Definitions of the
// module c was declared in are found lexically from c, others at the top
// level of their module.
func (b *build) findDefinition(c *stmtCtx, ns NamespaceKey[string, ctxID], q ycommon.QName) (*stmtCtx, bool) {
	d := c.declaredCtx()
	from := d
	if q.Module != d.module() {
		src, ok := b.moduleSource(q.Module)
		if !ok {
			return nil, false
		}
		from = src.rootCtx()
	}
	id, ok := getFromNamespace(from, ns, q.Name)
	if !ok {
		return nil, false
	}
	return b.ctx(id), true
}
