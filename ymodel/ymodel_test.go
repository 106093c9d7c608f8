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
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/gnmi/errdiff"
	"github.com/openconfig/yangkit/ycommon"
)

var testMod = ycommon.QNameModule{Namespace: "urn:t", Revision: "2020-01-01"}

func q(name string) ycommon.QName { return ycommon.QName{Module: testMod, Name: name} }

func mk(t *testing.T, k Kind, name string, subs ...*Effective) *Effective {
	t.Helper()
	a := EffectiveArgs{Kind: k, Keyword: k.String(), Argument: name, Substatements: subs}
	if k.HasQNameArgument() {
		a.QName = q(name)
	}
	e, err := NewEffective(a)
	if err != nil {
		t.Fatalf("NewEffective(%s %s): %v", k, name, err)
	}
	return e
}

// testContext builds:
//
//	container foo {
//	  choice bar {
//	    case baz {
//	      leaf l;
//	      choice inner { case ic { leaf deep; } }
//	    }
//	  }
//	  list entries { key name; leaf name; }
//	}
func testContext(t *testing.T) *Context {
	t.Helper()
	inner := mk(t, KindChoice, "inner", mk(t, KindCase, "ic", mk(t, KindLeaf, "deep")))
	bar := mk(t, KindChoice, "bar", mk(t, KindCase, "baz", mk(t, KindLeaf, "l"), inner))
	key, err := NewEffective(EffectiveArgs{Kind: KindKey, Keyword: "key", Argument: "name", References: []ycommon.QName{q("name")}})
	if err != nil {
		t.Fatal(err)
	}
	list := mk(t, KindList, "entries", key, mk(t, KindLeaf, "name"))
	foo := mk(t, KindContainer, "foo", bar, list)
	root := mk(t, KindModule, "t", mk(t, KindPrefix, "t"), foo)
	return NewContext([]*Module{NewModule(ModuleArgs{Root: root, Name: "t", Module: testMod, Prefix: "t"})})
}

func TestEffectiveIndices(t *testing.T) {
	ctx := testContext(t)
	foo, ok := ctx.DataChildByName(q("foo"))
	if !ok {
		t.Fatalf("DataChildByName(foo) not found")
	}
	if _, ok := foo.FindSchemaTreeNode(q("l")); ok {
		t.Errorf("FindSchemaTreeNode(l) found a node nested in a choice")
	}
	var got []string
	for _, c := range foo.DataTreeChildren() {
		got = append(got, c.QName.Name)
	}
	if diff := cmp.Diff([]string{"l", "deep", "entries"}, got); diff != "" {
		t.Errorf("DataTreeChildren (-want, +got):\n%s", diff)
	}
	list, _ := foo.FindDataTreeNode(q("entries"))
	if diff := cmp.Diff([]ycommon.QName{q("name")}, list.ListKeys()); diff != "" {
		t.Errorf("ListKeys (-want, +got):\n%s", diff)
	}
}

func TestNewEffectiveDuplicate(t *testing.T) {
	leaf, leafList := mk(t, KindLeaf, "x"), mk(t, KindLeafList, "x")
	leaf.Ref = ycommon.SourceRef{Source: "a.yang", Line: 3, Column: 5}
	leafList.Ref = ycommon.SourceRef{Source: "a.yang", Line: 4, Column: 5}
	_, err := NewEffective(EffectiveArgs{
		Kind:          KindContainer,
		Keyword:       "container",
		QName:         q("c"),
		Substatements: []*Effective{leaf, leafList},
	})
	if diff := errdiff.Substring(err, "leaf-list (urn:t?revision=2020-01-01)x conflicts with leaf"); diff != "" {
		t.Fatalf("NewEffective: %s", diff)
	}
	var de *DuplicateChildError
	if !errors.As(err, &de) {
		t.Fatalf("NewEffective: got error type %T, want *DuplicateChildError", err)
	}
	if de.Ref != leafList.Ref || de.PrevRef != leaf.Ref {
		t.Errorf("DuplicateChildError: got sites %s and %s, want %s and %s", de.Ref, de.PrevRef, leafList.Ref, leaf.Ref)
	}
}

func TestInferenceStack(t *testing.T) {
	ctx := testContext(t)

	tests := []struct {
		desc          string
		steps         func(s *InferenceStack) error
		want          ycommon.Absolute
		wantErrSubstr string
	}{{
		desc: "schema tree steps",
		steps: func(s *InferenceStack) error {
			for _, n := range []string{"foo", "bar", "baz", "l"} {
				if _, err := s.EnterSchemaTree(q(n)); err != nil {
					return err
				}
			}
			return nil
		},
		want: ycommon.AbsoluteOf(q("foo"), q("bar"), q("baz"), q("l")),
	}, {
		desc: "data tree step restores choice and case",
		steps: func(s *InferenceStack) error {
			if _, err := s.EnterDataTree(q("foo")); err != nil {
				return err
			}
			_, err := s.EnterDataTree(q("deep"))
			return err
		},
		want: ycommon.AbsoluteOf(q("foo"), q("bar"), q("baz"), q("inner"), q("ic"), q("deep")),
	}, {
		desc: "choice to choice skips the case",
		steps: func(s *InferenceStack) error {
			if _, err := s.EnterSchemaTree(q("foo")); err != nil {
				return err
			}
			if _, err := s.EnterChoice(q("bar")); err != nil {
				return err
			}
			_, err := s.EnterChoice(q("inner"))
			return err
		},
		want: ycommon.AbsoluteOf(q("foo"), q("bar"), q("baz"), q("inner")),
	}, {
		desc: "enter choice on a non-choice",
		steps: func(s *InferenceStack) error {
			if _, err := s.EnterSchemaTree(q("foo")); err != nil {
				return err
			}
			_, err := s.EnterChoice(q("entries"))
			return err
		},
		wantErrSubstr: "choice (urn:t?revision=2020-01-01)entries not present",
	}, {
		desc: "missing child",
		steps: func(s *InferenceStack) error {
			_, err := s.EnterSchemaTree(q("nope"))
			return err
		},
		wantErrSubstr: "schema tree child (urn:t?revision=2020-01-01)nope not present",
	}, {
		desc: "unknown module",
		steps: func(s *InferenceStack) error {
			_, err := s.EnterSchemaTree(ycommon.NewQName("urn:other", "", "x"))
			return err
		},
		wantErrSubstr: "module for (urn:other)x not found",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s := NewInferenceStack(ctx)
			err := tt.steps(s)
			if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
				t.Fatalf("steps: %s", diff)
			}
			if err != nil {
				return
			}
			got, err := s.ToAbsolute()
			if err != nil {
				t.Fatalf("ToAbsolute: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ToAbsolute: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInferenceStackExit(t *testing.T) {
	s := NewInferenceStack(testContext(t))
	if _, err := s.Exit(); err == nil {
		t.Errorf("Exit on an empty stack: got nil error")
	}
	if _, err := s.EnterDataTree(q("foo")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EnterDataTree(q("l")); err != nil {
		t.Fatal(err)
	}
	c := s.Copy()
	if e, err := s.ExitToDataTree(); err != nil || e.QName != q("l") {
		t.Fatalf("ExitToDataTree: got %v, %v", e, err)
	}
	if got := s.Len(); got != 1 {
		t.Errorf("after ExitToDataTree: got %d steps, want 1", got)
	}
	if got := c.Len(); got != 2 {
		t.Errorf("copy was modified: got %d steps, want 2", got)
	}
	if m, ok := s.CurrentModule(); !ok || m.Name != "t" {
		t.Errorf("CurrentModule: got %v, %v", m, ok)
	}
	s.Clear()
	if !s.IsEmpty() {
		t.Errorf("Clear did not empty the stack")
	}
}

func TestIfFeatureExpr(t *testing.T) {
	resolve := func(s string) (ycommon.QName, error) {
		if s == "bad:x" {
			return ycommon.QName{}, fmt.Errorf("unknown prefix bad")
		}
		return q(s), nil
	}
	tests := []struct {
		in            string
		supported     []string
		want          bool
		wantErrSubstr string
	}{
		{in: "a", supported: []string{"a"}, want: true},
		{in: "a", want: false},
		{in: "not a", want: true},
		{in: "a or b and c", supported: []string{"a"}, want: true},
		{in: "a or b and c", supported: []string{"b"}, want: false},
		{in: "(a or b) and c", supported: []string{"a"}, want: false},
		{in: "(a or b) and c", supported: []string{"b", "c"}, want: true},
		{in: "not not a", supported: []string{"a"}, want: true},
		{in: "not (a and b)", supported: []string{"a", "b"}, want: false},
		{in: "", wantErrSubstr: "empty if-feature expression"},
		{in: "a and", wantErrSubstr: "unexpected end of expression"},
		{in: "(a", wantErrSubstr: "missing ')'"},
		{in: "a b", wantErrSubstr: `unexpected "b"`},
		{in: "bad:x", wantErrSubstr: "unknown prefix bad"},
	}

	for _, tt := range tests {
		x, err := ParseIfFeatureExpr(tt.in, resolve)
		if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
			t.Errorf("ParseIfFeatureExpr(%q): %s", tt.in, diff)
			continue
		}
		if err != nil {
			continue
		}
		set := map[ycommon.QName]bool{}
		for _, s := range tt.supported {
			set[q(s)] = true
		}
		if got := x.Evaluate(func(f ycommon.QName) bool { return set[f] }); got != tt.want {
			t.Errorf("%q with %v: got %v, want %v", tt.in, tt.supported, got, tt.want)
		}
	}
}
