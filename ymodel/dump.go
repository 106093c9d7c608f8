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
	"fmt"
	"strings"
)

// Dump returns a canonical text rendering of every module in c. Two contexts
// with equal dumps are structurally equal.
func Dump(c *Context) string {
	var sb strings.Builder
	for _, m := range c.Modules() {
		fmt.Fprintf(&sb, "module %s %s prefix=%s semver=%q\n", m.Name, m.QNameModule, m.Prefix, m.SemVer)
		for _, s := range m.Submodules {
			fmt.Fprintf(&sb, "  submodule %s\n", s.Argument)
		}
		for _, s := range m.Substatements {
			dumpEffective(&sb, s, 1)
		}
	}
	return sb.String()
}

// DumpStatement returns the canonical rendering of e and its descendants.
func DumpStatement(e *Effective) string {
	var sb strings.Builder
	dumpEffective(&sb, e, 0)
	return sb.String()
}

func dumpEffective(sb *strings.Builder, e *Effective, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(e.Keyword)
	if e.Argument != "" {
		fmt.Fprintf(sb, " %q", e.Argument)
	}
	if !e.QName.IsZero() {
		fmt.Fprintf(sb, " qname=%s", e.QName)
	}
	if !e.Extension.IsZero() {
		fmt.Fprintf(sb, " extension=%s", e.Extension)
	}
	for _, r := range e.References {
		fmt.Fprintf(sb, " ref=%s", r)
	}
	if e.Augmenting() {
		sb.WriteString(" augmenting")
	}
	if e.AddedByUses() {
		sb.WriteString(" added-by-uses")
	}
	if e.Implicit() {
		sb.WriteString(" implicit")
	}
	for _, a := range e.Augmentations() {
		fmt.Fprintf(sb, " augmented-by=%q", a.Argument)
	}
	sb.WriteByte('\n')
	for _, s := range e.Substatements {
		dumpEffective(sb, s, depth+1)
	}
}
