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

	"github.com/openconfig/yangkit/ycommon"
)

// Declared is a statement as it was declared in source text, before any
// grouping, augment or feature processing.
type Declared struct {
	Kind Kind
	// Keyword is the keyword as written, including any extension prefix.
	Keyword       string
	Argument      string
	Ref           ycommon.SourceRef
	Substatements []*Declared
}

// NewDeclared returns a declared statement.
func NewDeclared(kind Kind, keyword, arg string, ref ycommon.SourceRef, subs []*Declared) *Declared {
	return &Declared{Kind: kind, Keyword: keyword, Argument: arg, Ref: ref, Substatements: subs}
}

// Flags carries how an effective statement came to exist.
type Flags uint8

const (
	// Augmenting marks a schema node grafted onto its parent by an augment.
	Augmenting Flags = 1 << iota
	// AddedByUses marks a statement instantiated from a grouping.
	AddedByUses
	// Implicit marks a statement that has no declaration, such as the case
	// wrapping a choice shorthand.
	Implicit
)

// EffectiveArgs is the input of NewEffective.
type EffectiveArgs struct {
	Kind    Kind
	Keyword string
	// Argument is the resolved argument string.
	Argument string
	// QName identifies schema tree nodes and the other statements whose
	// argument is bound to the module namespace.
	QName ycommon.QName
	// Extension is the definition of an extension instance.
	Extension     ycommon.QName
	Declared      *Declared
	Ref           ycommon.SourceRef
	Substatements []*Effective
	// Augmentations are the effective augment statements targeting this node.
	Augmentations []*Effective
	// References are resolved QName references of the statement, such as the
	// bases of an identity or the typedef of a type.
	References []ycommon.QName
	Flags      Flags
}

// Effective is a fully resolved statement. Effective statements are
// immutable and may be read concurrently without synchronization.
type Effective struct {
	Kind          Kind
	Keyword       string
	Argument      string
	QName         ycommon.QName
	Extension     ycommon.QName
	Declared      *Declared
	Ref           ycommon.SourceRef
	Substatements []*Effective
	References    []ycommon.QName

	flags         Flags
	augmentations []*Effective

	schemaChildren []*Effective
	schemaIndex    map[ycommon.QName]*Effective
	dataChildren   []*Effective
	dataIndex      map[ycommon.QName]*Effective
}

// DuplicateChildError reports two children of a statement sharing a QName.
type DuplicateChildError struct {
	Ref     ycommon.SourceRef
	PrevRef ycommon.SourceRef
	Msg     string
}

// Error implements the error interface.
func (e *DuplicateChildError) Error() string { return e.Msg }

// NewEffective builds an effective statement and its child indices. It
// fails with a *DuplicateChildError if two schema tree children, or two
// data nodes reached through choices, share a QName.
func NewEffective(a EffectiveArgs) (*Effective, error) {
	e := &Effective{
		Kind:          a.Kind,
		Keyword:       a.Keyword,
		Argument:      a.Argument,
		QName:         a.QName,
		Extension:     a.Extension,
		Declared:      a.Declared,
		Ref:           a.Ref,
		Substatements: a.Substatements,
		References:    a.References,
		flags:         a.Flags,
		augmentations: a.Augmentations,
	}
	for _, s := range a.Substatements {
		if !s.Kind.IsSchemaTree() {
			continue
		}
		if e.schemaIndex == nil {
			e.schemaIndex = map[ycommon.QName]*Effective{}
		}
		if prev, ok := e.schemaIndex[s.QName]; ok {
			return nil, &DuplicateChildError{
				Ref:     s.Ref,
				PrevRef: prev.Ref,
				Msg:     fmt.Sprintf("%s: %s %s conflicts with %s at %s", s.Ref, s.Keyword, s.QName, prev.Keyword, prev.Ref),
			}
		}
		e.schemaIndex[s.QName] = s
		e.schemaChildren = append(e.schemaChildren, s)
	}
	if err := e.indexData(e.Substatements); err != nil {
		return nil, err
	}
	return e, nil
}

// indexData adds the data nodes in subs to the data tree index, looking
// through choice and case statements.
func (e *Effective) indexData(subs []*Effective) error {
	for _, s := range subs {
		switch {
		case s.Kind.IsDataNode():
			if e.dataIndex == nil {
				e.dataIndex = map[ycommon.QName]*Effective{}
			}
			if prev, ok := e.dataIndex[s.QName]; ok {
				return &DuplicateChildError{
					Ref:     s.Ref,
					PrevRef: prev.Ref,
					Msg:     fmt.Sprintf("%s: %s %s conflicts with data node at %s", s.Ref, s.Keyword, s.QName, prev.Ref),
				}
			}
			e.dataIndex[s.QName] = s
			e.dataChildren = append(e.dataChildren, s)
		case s.Kind == KindChoice || s.Kind == KindCase:
			if err := e.indexData(s.Substatements); err != nil {
				return err
			}
		}
	}
	return nil
}

// Augmenting reports whether the statement was grafted by an augment.
func (e *Effective) Augmenting() bool { return e.flags&Augmenting != 0 }

// AddedByUses reports whether the statement was instantiated from a grouping.
func (e *Effective) AddedByUses() bool { return e.flags&AddedByUses != 0 }

// Implicit reports whether the statement has no declaration of its own.
func (e *Effective) Implicit() bool { return e.flags&Implicit != 0 }

// Flags returns the statement flags.
func (e *Effective) Flags() Flags { return e.flags }

// Augmentations returns the augment statements that target this node, in
// the order they were applied.
func (e *Effective) Augmentations() []*Effective { return e.augmentations }

// SchemaTreeChildren returns the schema tree children in declaration order.
func (e *Effective) SchemaTreeChildren() []*Effective { return e.schemaChildren }

// FindSchemaTreeNode returns the schema tree child named q.
func (e *Effective) FindSchemaTreeNode(q ycommon.QName) (*Effective, bool) {
	c, ok := e.schemaIndex[q]
	return c, ok
}

// DataTreeChildren returns the data tree children, including those nested in
// choice and case statements, in declaration order.
func (e *Effective) DataTreeChildren() []*Effective { return e.dataChildren }

// FindDataTreeNode returns the data tree child named q, looking through
// choice and case statements.
func (e *Effective) FindDataTreeNode(q ycommon.QName) (*Effective, bool) {
	c, ok := e.dataIndex[q]
	return c, ok
}

// FindFirst returns the first substatement of kind k.
func (e *Effective) FindFirst(k Kind) (*Effective, bool) {
	for _, s := range e.Substatements {
		if s.Kind == k {
			return s, true
		}
	}
	return nil, false
}

// FirstArgument returns the argument of the first substatement of kind k, or
// the empty string.
func (e *Effective) FirstArgument(k Kind) string {
	if s, ok := e.FindFirst(k); ok {
		return s.Argument
	}
	return ""
}

// All returns the substatements of kind k.
func (e *Effective) All(k Kind) []*Effective {
	var out []*Effective
	for _, s := range e.Substatements {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

// ListKeys returns the key leaves of a list, in key statement order.
func (e *Effective) ListKeys() []ycommon.QName {
	if e.Kind != KindList {
		return nil
	}
	if k, ok := e.FindFirst(KindKey); ok {
		return k.References
	}
	return nil
}

// IsUserOrdered reports whether a list or leaf-list is ordered-by user.
func (e *Effective) IsUserOrdered() bool {
	return e.FirstArgument(KindOrderedBy) == "user"
}

// IsPresence reports whether a container is a presence container.
func (e *Effective) IsPresence() bool {
	_, ok := e.FindFirst(KindPresence)
	return ok
}

// String returns a one-line description of the statement.
func (e *Effective) String() string {
	if !e.QName.IsZero() {
		return e.Keyword + " " + e.QName.String()
	}
	if e.Argument == "" {
		return e.Keyword
	}
	return e.Keyword + " " + e.Argument
}
