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

	"github.com/openconfig/yangkit/ycommon"
)

// InferenceStack tracks a walk through the schema tree of a Context, one
// statement per step. Steps entered through the data tree skip choice and
// case statements; ToAbsolute reconstructs them when producing the schema
// node identifier.
type InferenceStack struct {
	ctx           *Context
	deque         []*Effective
	currentModule *Module
	groupingDepth int
	// clean is set when every step in deque is a schema tree step.
	clean bool
}

// NewInferenceStack returns an empty stack over ctx.
func NewInferenceStack(ctx *Context) *InferenceStack {
	return &InferenceStack{ctx: ctx, clean: true}
}

// Context returns the schema context the stack walks.
func (s *InferenceStack) Context() *Context { return s.ctx }

// Copy returns an independent copy of s.
func (s *InferenceStack) Copy() *InferenceStack {
	c := *s
	c.deque = append([]*Effective(nil), s.deque...)
	return &c
}

// IsEmpty reports whether no step has been entered.
func (s *InferenceStack) IsEmpty() bool { return len(s.deque) == 0 }

// Len returns the number of entered steps.
func (s *InferenceStack) Len() int { return len(s.deque) }

// Current returns the statement entered last.
func (s *InferenceStack) Current() (*Effective, bool) {
	if len(s.deque) == 0 {
		return nil, false
	}
	return s.deque[len(s.deque)-1], true
}

// CurrentModule returns the module of the first step.
func (s *InferenceStack) CurrentModule() (*Module, bool) {
	return s.currentModule, s.currentModule != nil
}

// InGrouping reports whether a grouping has been entered.
func (s *InferenceStack) InGrouping() bool { return s.groupingDepth > 0 }

// Statements returns a copy of the entered steps.
func (s *InferenceStack) Statements() []*Effective {
	return append([]*Effective(nil), s.deque...)
}

// Clear resets the stack to its empty state.
func (s *InferenceStack) Clear() {
	s.deque = nil
	s.currentModule = nil
	s.groupingDepth = 0
	s.clean = true
}

func (s *InferenceStack) push(e *Effective) {
	s.deque = append(s.deque, e)
}

// parent returns the current statement, or the module owning q when the
// stack is empty.
func (s *InferenceStack) parent(q ycommon.QName) (*Effective, *Module, error) {
	if cur, ok := s.Current(); ok {
		return cur, nil, nil
	}
	m, ok := s.ctx.FindModuleByNamespace(q.Module)
	if !ok {
		return nil, nil, fmt.Errorf("module for %s not found", q)
	}
	return m.Effective, m, nil
}

func (s *InferenceStack) notPresent(parent *Effective, what string, q ycommon.QName) error {
	if len(s.deque) == 0 {
		return fmt.Errorf("%s %s not present", what, q)
	}
	return fmt.Errorf("%s %s not present in %s", what, q, parent)
}

func (s *InferenceStack) enterFirst(m *Module) {
	if m != nil {
		s.currentModule = m
	}
}

// EnterSchemaTree enters the schema tree child q of the current statement.
func (s *InferenceStack) EnterSchemaTree(q ycommon.QName) (*Effective, error) {
	parent, m, err := s.parent(q)
	if err != nil {
		return nil, err
	}
	child, ok := parent.FindSchemaTreeNode(q)
	if !ok {
		return nil, s.notPresent(parent, "schema tree child", q)
	}
	s.enterFirst(m)
	s.push(child)
	return child, nil
}

// EnterSchemaTreePath enters each component of d in turn. On failure the
// stack is left unchanged.
func (s *InferenceStack) EnterSchemaTreePath(d ycommon.Descendant) (*Effective, error) {
	saved := s.Copy()
	var cur *Effective
	for _, q := range d.NodeIdentifiers() {
		var err error
		if cur, err = s.EnterSchemaTree(q); err != nil {
			*s = *saved
			return nil, err
		}
	}
	return cur, nil
}

// EnterChoice enters choice q. When the current statement is a choice, the
// intermediate case is skipped and the stack is no longer clean.
func (s *InferenceStack) EnterChoice(q ycommon.QName) (*Effective, error) {
	if cur, ok := s.Current(); ok && cur.Kind == KindChoice {
		for _, c := range cur.Substatements {
			if c.Kind != KindCase {
				continue
			}
			if found, ok := c.FindSchemaTreeNode(q); ok && found.Kind == KindChoice {
				s.push(found)
				s.clean = false
				return found, nil
			}
		}
		return nil, s.notPresent(cur, "choice", q)
	}
	cur, _ := s.Current()
	res, err := s.EnterSchemaTree(q)
	if err != nil {
		return nil, fmt.Errorf("choice %s not present: %v", q, err)
	}
	if res.Kind != KindChoice {
		s.Exit()
		return nil, s.notPresent(cur, "choice", q)
	}
	return res, nil
}

// EnterDataTree enters the data tree child q of the current statement,
// looking through choice and case statements.
func (s *InferenceStack) EnterDataTree(q ycommon.QName) (*Effective, error) {
	parent, m, err := s.parent(q)
	if err != nil {
		return nil, err
	}
	child, ok := parent.FindDataTreeNode(q)
	if !ok {
		return nil, s.notPresent(parent, "data tree child", q)
	}
	s.enterFirst(m)
	s.push(child)
	s.clean = false
	return child, nil
}

// EnterGrouping enters grouping q of the current statement or module.
func (s *InferenceStack) EnterGrouping(q ycommon.QName) (*Effective, error) {
	return s.enterByKind(KindGrouping, "grouping", q)
}

// EnterTypedef enters typedef q of the current statement or module.
func (s *InferenceStack) EnterTypedef(q ycommon.QName) (*Effective, error) {
	return s.enterByKind(KindTypedef, "typedef", q)
}

func (s *InferenceStack) enterByKind(k Kind, what string, q ycommon.QName) (*Effective, error) {
	parent, m, err := s.parent(q)
	if err != nil {
		return nil, err
	}
	for _, c := range parent.Substatements {
		if c.Kind == k && c.QName == q {
			s.enterFirst(m)
			s.push(c)
			if k == KindGrouping {
				s.groupingDepth++
			}
			return c, nil
		}
	}
	return nil, s.notPresent(parent, what, q)
}

// Exit pops the current statement.
func (s *InferenceStack) Exit() (*Effective, error) {
	if len(s.deque) == 0 {
		return nil, fmt.Errorf("cannot exit an empty stack")
	}
	prev := s.deque[len(s.deque)-1]
	s.deque = s.deque[:len(s.deque)-1]
	if prev.Kind == KindGrouping {
		s.groupingDepth--
	}
	if len(s.deque) == 0 {
		s.currentModule = nil
		s.clean = true
	}
	return prev, nil
}

// ExitToDataTree pops the current data node and any choice and case
// statements above it, so that EnterDataTree finds the node again.
func (s *InferenceStack) ExitToDataTree() (*Effective, error) {
	child, err := s.Exit()
	if err != nil {
		return nil, err
	}
	if !child.Kind.IsDataNode() {
		return nil, fmt.Errorf("unexpected current %s", child)
	}
	for {
		cur, ok := s.Current()
		if !ok || (cur.Kind != KindChoice && cur.Kind != KindCase) {
			break
		}
		s.Exit()
	}
	return child, nil
}

// ToAbsolute returns the schema node identifier of the current position.
func (s *InferenceStack) ToAbsolute() (ycommon.Absolute, error) {
	if len(s.deque) == 0 {
		return ycommon.Absolute{}, fmt.Errorf("cannot convert an empty stack")
	}
	steps := s.deque
	if !s.clean {
		r, err := s.reconstruct()
		if err != nil {
			return ycommon.Absolute{}, err
		}
		steps = r
	}
	qs := make([]ycommon.QName, 0, len(steps))
	for _, e := range steps {
		qs = append(qs, e.QName)
	}
	return ycommon.AbsoluteOf(qs...), nil
}

// reconstruct replays the stack as schema tree steps, restoring the choice
// and case statements skipped by data tree and choice steps.
func (s *InferenceStack) reconstruct() ([]*Effective, error) {
	tmp := NewInferenceStack(s.ctx)
	for _, e := range s.deque {
		var err error
		switch {
		case e.Kind.IsDataNode():
			err = tmp.resolveDataTreeStep(e.QName)
		case e.Kind == KindChoice:
			err = tmp.resolveChoiceStep(e.QName)
		case e.Kind == KindGrouping:
			_, err = tmp.EnterGrouping(e.QName)
		case e.Kind == KindTypedef:
			_, err = tmp.EnterTypedef(e.QName)
		default:
			_, err = tmp.EnterSchemaTree(e.QName)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct %s: %v", s, err)
		}
	}
	if len(tmp.deque) == len(s.deque) {
		s.clean = true
	}
	return tmp.deque, nil
}

func (s *InferenceStack) resolveChoiceStep(q ycommon.QName) error {
	cur, ok := s.Current()
	if !ok || cur.Kind != KindChoice {
		_, err := s.EnterSchemaTree(q)
		return err
	}
	for _, c := range cur.Substatements {
		if c.Kind != KindCase {
			continue
		}
		if found, ok := c.FindSchemaTreeNode(q); ok && found.Kind == KindChoice {
			s.push(c)
			s.push(found)
			return nil
		}
	}
	return s.notPresent(cur, "choice", q)
}

func (s *InferenceStack) resolveDataTreeStep(q ycommon.QName) error {
	parent, m, err := s.parent(q)
	if err != nil {
		return err
	}
	if found, ok := parent.FindSchemaTreeNode(q); ok && found.Kind.IsDataNode() {
		s.enterFirst(m)
		s.push(found)
		return nil
	}
	var match []*Effective
	for _, c := range parent.Substatements {
		if c.Kind == KindChoice && searchChoice(&match, c, q) {
			s.enterFirst(m)
			s.deque = append(s.deque, match...)
			return nil
		}
	}
	return s.notPresent(parent, "data tree child", q)
}

func searchCase(result *[]*Effective, c *Effective, q ycommon.QName) bool {
	*result = append(*result, c)
	for _, s := range c.Substatements {
		if s.Kind.IsDataNode() && s.QName == q {
			*result = append(*result, s)
			return true
		}
		if s.Kind == KindChoice && searchChoice(result, s, q) {
			return true
		}
	}
	*result = (*result)[:len(*result)-1]
	return false
}

func searchChoice(result *[]*Effective, choice *Effective, q ycommon.QName) bool {
	*result = append(*result, choice)
	for _, s := range choice.Substatements {
		if s.Kind == KindCase && searchCase(result, s, q) {
			return true
		}
	}
	*result = (*result)[:len(*result)-1]
	return false
}

// String returns the entered steps.
func (s *InferenceStack) String() string {
	var parts []string
	for _, e := range s.deque {
		parts = append(parts, e.Keyword+" "+e.QName.Name)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
