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
)

// StatementSource supplies the IR of one module or submodule.
type StatementSource interface {
	// ID identifies the source. The revision may be empty when unknown.
	ID() ycommon.SourceID
	// Name names the source in diagnostics, typically its file path.
	Name() string
	// Statement returns the root statement of the source.
	Statement() (*yir.Statement, error)
}

type importSpec struct {
	ctx    *stmtCtx
	prefix string
	name   string
	rev    ycommon.Revision
	semver string
}

type includeSpec struct {
	ctx  *stmtCtx
	name string
	rev  ycommon.Revision
}

// sourceCtx is the build state of one source.
type sourceCtx struct {
	b    *build
	in   StatementSource
	name string
	lib  bool
	ir   *yir.Statement
	root ctxID

	submodule   bool
	id          ycommon.SourceID
	namespace   string
	prefix      string
	belongsTo   string
	yangVersion string
	semver      string
	imports     []importSpec
	includes    []includeSpec

	// owner is the module a submodule belongs to; a module owns itself.
	owner *sourceCtx
	// included are the submodules included by this source.
	included []*sourceCtx
	// imported are the modules resolved for imports, in import order.
	imported []*sourceCtx
	required bool
	// shadowed is set for library sources hidden by a regular source with
	// the same identifier.
	shadowed bool
	scope    []*sourceCtx
}

// qnameModule returns the namespace and revision statements of the source
// are bound to. Submodules use those of their owning module.
func (s *sourceCtx) qnameModule() ycommon.QNameModule {
	if s.submodule {
		if s.owner == nil {
			return ycommon.QNameModule{}
		}
		return s.owner.qnameModule()
	}
	return ycommon.QNameModule{Namespace: s.namespace, Revision: s.id.Revision}
}

// moduleScope returns the sources sharing module-scoped namespaces with s:
// the owning module and all submodules it includes.
func (s *sourceCtx) moduleScope() []*sourceCtx {
	if s.owner == nil {
		return []*sourceCtx{s}
	}
	return s.owner.scope
}

func (s *sourceCtx) rootCtx() *stmtCtx { return s.b.ctx(s.root) }

func (s *sourceCtx) kind() string {
	if s.submodule {
		return "submodule"
	}
	return "module"
}
