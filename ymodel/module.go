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

package ymodel

import (
	"github.com/openconfig/yangkit/ycommon"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Module is the effective form of a module. The substatements of Effective
// include the body statements of all included submodules, as if they were
// declared in the module itself.
type Module struct {
	*Effective

	Name        string
	QNameModule ycommon.QNameModule
	Prefix      string
	YangVersion string
	// SemVer is the openconfig-version of the module, if any.
	SemVer string
	// Submodules are the effective statements of the included submodules.
	Submodules []*Effective

	prefixToModule    map[string]ycommon.QNameModule
	namespaceToPrefix map[string]string
	features          map[string]*Effective
	identities        map[string]*Effective
	extensions        map[string]*Effective
	typedefs          map[string]*Effective
	groupings         map[string]*Effective
}

// ModuleArgs is the input of NewModule.
type ModuleArgs struct {
	Root       *Effective
	Name       string
	Module     ycommon.QNameModule
	Prefix     string
	SemVer     string
	Submodules []*Effective
	// Imports maps the import prefixes of the module and its submodules to
	// the imported modules. The module's own prefix is added by NewModule.
	Imports map[string]ycommon.QNameModule
}

// NewModule builds the module view over its effective root statement. The
// prefix and namespace maps are derived once and never change.
func NewModule(a ModuleArgs) *Module {
	m := &Module{
		Effective:         a.Root,
		Name:              a.Name,
		QNameModule:       a.Module,
		Prefix:            a.Prefix,
		YangVersion:       a.Root.FirstArgument(KindYangVersion),
		SemVer:            a.SemVer,
		Submodules:        a.Submodules,
		prefixToModule:    map[string]ycommon.QNameModule{a.Prefix: a.Module},
		namespaceToPrefix: map[string]string{a.Module.Namespace: a.Prefix},
		features:          map[string]*Effective{},
		identities:        map[string]*Effective{},
		extensions:        map[string]*Effective{},
		typedefs:          map[string]*Effective{},
		groupings:         map[string]*Effective{},
	}
	if m.YangVersion == "" {
		m.YangVersion = "1"
	}
	// Sort the prefixes so that the namespace to prefix map is stable when
	// several prefixes name the same module.
	prefixes := maps.Keys(a.Imports)
	slices.Sort(prefixes)
	for _, p := range prefixes {
		mod := a.Imports[p]
		if _, ok := m.prefixToModule[p]; !ok {
			m.prefixToModule[p] = mod
		}
		if _, ok := m.namespaceToPrefix[mod.Namespace]; !ok {
			m.namespaceToPrefix[mod.Namespace] = p
		}
	}
	for _, s := range a.Root.Substatements {
		var idx map[string]*Effective
		switch s.Kind {
		case KindFeature:
			idx = m.features
		case KindIdentity:
			idx = m.identities
		case KindExtension:
			idx = m.extensions
		case KindTypedef:
			idx = m.typedefs
		case KindGrouping:
			idx = m.groupings
		default:
			continue
		}
		idx[s.Argument] = s
	}
	return m
}

// PrefixToModule resolves a prefix used in the module or its submodules.
func (m *Module) PrefixToModule(prefix string) (ycommon.QNameModule, bool) {
	v, ok := m.prefixToModule[prefix]
	return v, ok
}

// NamespaceToPrefix returns the prefix the module uses for namespace ns.
func (m *Module) NamespaceToPrefix(ns string) (string, bool) {
	v, ok := m.namespaceToPrefix[ns]
	return v, ok
}

// Feature returns the feature named name.
func (m *Module) Feature(name string) (*Effective, bool) {
	v, ok := m.features[name]
	return v, ok
}

// Identity returns the identity named name.
func (m *Module) Identity(name string) (*Effective, bool) {
	v, ok := m.identities[name]
	return v, ok
}

// Extension returns the extension named name.
func (m *Module) Extension(name string) (*Effective, bool) {
	v, ok := m.extensions[name]
	return v, ok
}

// Typedef returns the top-level typedef named name.
func (m *Module) Typedef(name string) (*Effective, bool) {
	v, ok := m.typedefs[name]
	return v, ok
}

// Grouping returns the top-level grouping named name.
func (m *Module) Grouping(name string) (*Effective, bool) {
	v, ok := m.groupings[name]
	return v, ok
}

// Features returns the names of the module's features in sorted order.
func (m *Module) Features() []string {
	names := maps.Keys(m.features)
	slices.Sort(names)
	return names
}

// SourceID returns the source identifier of the module.
func (m *Module) SourceID() ycommon.SourceID {
	return ycommon.SourceID{Name: m.Name, Revision: m.QNameModule.Revision}
}
