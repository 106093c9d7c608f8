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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/gnmi/errdiff"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// count returns the number of statements below e, e included, for which
// match returns true.
func count(e *ymodel.Effective, match func(*ymodel.Effective) bool) int {
	n := 0
	if match(e) {
		n++
	}
	for _, s := range e.Substatements {
		n += count(s, match)
	}
	return n
}

func names(es []*ymodel.Effective) []string {
	var out []string
	for _, e := range es {
		out = append(out, e.QName.Name)
	}
	return out
}

const featureModule = `module foo {
  namespace urn:foo;
  prefix foo;
  feature f1;
  feature f2 { if-feature f1; }
  grouping g {
    container gated {
      if-feature f2;
      leaf x { type string; }
    }
    leaf kept { type string; }
  }
  container top {
    container region {
      if-feature f1;
      uses g;
    }
    uses g;
  }
}`

func TestFeaturePruning(t *testing.T) {
	f1, f2 := qn("urn:foo", "f1"), qn("urn:foo", "f2")
	tests := []struct {
		desc           string
		features       *FeatureSet
		wantGated      int
		wantRegion     bool
		wantIfFeatures int
	}{{
		desc:           "all features",
		wantGated:      2,
		wantRegion:     true,
		wantIfFeatures: 3,
	}, {
		desc:     "no features",
		features: NewFeatureSet(),
	}, {
		desc:           "f1 only",
		features:       NewFeatureSet(f1),
		wantRegion:     true,
		wantIfFeatures: 1,
	}, {
		desc:           "f1 and f2",
		features:       NewFeatureSet(f1, f2),
		wantGated:      2,
		wantRegion:     true,
		wantIfFeatures: 3,
	}, {
		desc:     "f2 depends on unsupported f1",
		features: NewFeatureSet(f2),
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ctx := mustBuild(t, Config{SupportedFeatures: tt.features}, featureModule)
			top := mustFind(t, ctx, qn("urn:foo", "top"))
			gated := count(top, func(e *ymodel.Effective) bool {
				return e.Kind == ymodel.KindContainer && e.QName.Name == "gated"
			})
			if gated != tt.wantGated {
				t.Errorf("containers named gated: got %d, want %d", gated, tt.wantGated)
			}
			ifFeatures := count(top, func(e *ymodel.Effective) bool { return e.Kind == ymodel.KindIfFeature })
			if ifFeatures != tt.wantIfFeatures {
				t.Errorf("if-feature statements: got %d, want %d", ifFeatures, tt.wantIfFeatures)
			}
			if _, ok := top.FindSchemaTreeNode(qn("urn:foo", "region")); ok != tt.wantRegion {
				t.Errorf("region present: got %v, want %v", ok, tt.wantRegion)
			}
			if _, ok := top.FindSchemaTreeNode(qn("urn:foo", "kept")); !ok {
				t.Errorf("ungated leaf kept is missing")
			}
			// Feature statements are never pruned.
			m, _ := ctx.FindModule("foo", "")
			if diff := cmp.Diff([]string{"f1", "f2"}, m.Features()); diff != "" {
				t.Errorf("Features() (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestFeatureSet(t *testing.T) {
	f := ycommon.NewQName("urn:foo", "", "f")
	fRev := ycommon.NewQName("urn:foo", "2024-01-01", "f")
	var all *FeatureSet
	if !all.Contains(fRev) {
		t.Errorf("nil set: Contains(%s) = false, want true", fRev)
	}
	s := NewFeatureSet(f)
	if !s.Contains(fRev) {
		t.Errorf("Contains(%s) = false for a revision-less entry, want true", fRev)
	}
	if s.Contains(ycommon.NewQName("urn:bar", "", "f")) {
		t.Errorf("Contains feature of another module, want false")
	}
	if NewFeatureSet(fRev).Contains(ycommon.NewQName("urn:foo", "2025-01-01", "f")) {
		t.Errorf("Contains feature of another revision, want false")
	}
}

const (
	usesModuleA = `module ua {
  namespace urn:ua;
  prefix ua;
  typedef name-type { type string; }
  grouping g {
    leaf name {
      type name-type;
      description "from g";
    }
    container sub {
      leaf inner { type string; }
    }
  }
}`
	usesModuleB = `module ub {
  namespace urn:ub;
  prefix ub;
  import ua { prefix a; }
  container top {
    leaf first { type string; }
    uses a:g {
      refine name {
        description "refined";
        must "true()";
      }
      augment sub {
        leaf extra { type string; }
      }
    }
    leaf last { type string; }
  }
}`
)

func TestUses(t *testing.T) {
	ctx := mustBuild(t, Config{}, usesModuleA, usesModuleB)
	top := mustFind(t, ctx, qn("urn:ub", "top"))

	if diff := cmp.Diff([]string{"first", "name", "sub", "last"}, names(top.SchemaTreeChildren())); diff != "" {
		t.Errorf("children of top (-want, +got):\n%s", diff)
	}
	uses, ok := top.FindFirst(ymodel.KindUses)
	if !ok {
		t.Fatal("uses statement missing from top")
	}
	if got, want := uses.References, []ycommon.QName{qn("urn:ua", "g")}; !cmp.Equal(got, want) {
		t.Errorf("uses references: got %v, want %v", got, want)
	}

	name := mustFind(t, ctx, qn("urn:ub", "top"), qn("urn:ub", "name"))
	if !name.AddedByUses() || name.Augmenting() {
		t.Errorf("name: got added-by-uses %v augmenting %v, want true false", name.AddedByUses(), name.Augmenting())
	}
	if got := name.FirstArgument(ymodel.KindDescription); got != "refined" {
		t.Errorf("refined description: got %q, want refined", got)
	}
	if got := len(name.All(ymodel.KindMust)); got != 1 {
		t.Errorf("refined must statements: got %d, want 1", got)
	}
	typ, _ := name.FindFirst(ymodel.KindType)
	if got, want := typ.References, []ycommon.QName{qn("urn:ua", "name-type")}; !cmp.Equal(got, want) {
		t.Errorf("type of name: got references %v, want %v", got, want)
	}
	if name.Declared == nil || name.Declared.Argument != "name" {
		t.Fatalf("name: got declared %v, want the grouping leaf", name.Declared)
	}
	var declDesc []string
	for _, d := range name.Declared.Substatements {
		if d.Kind == ymodel.KindDescription {
			declDesc = append(declDesc, d.Argument)
		}
	}
	if diff := cmp.Diff([]string{"from g"}, declDesc); diff != "" {
		t.Errorf("declared description (-want, +got):\n%s", diff)
	}

	sub := mustFind(t, ctx, qn("urn:ub", "top"), qn("urn:ub", "sub"))
	if got := len(sub.Augmentations()); got != 1 {
		t.Errorf("augmentations of sub: got %d, want 1", got)
	}
	extra := mustFind(t, ctx, qn("urn:ub", "top"), qn("urn:ub", "sub"), qn("urn:ub", "extra"))
	if !extra.AddedByUses() || !extra.Augmenting() {
		t.Errorf("extra: got added-by-uses %v augmenting %v, want true true", extra.AddedByUses(), extra.Augmenting())
	}
	mustFind(t, ctx, qn("urn:ub", "top"), qn("urn:ub", "sub"), qn("urn:ub", "inner"))

	// The grouping itself is untouched by the refine.
	a, _ := ctx.FindModule("ua", "")
	g, ok := a.Grouping("g")
	if !ok {
		t.Fatal("grouping g missing")
	}
	tmpl, _ := g.FindSchemaTreeNode(qn("urn:ua", "name"))
	if got := tmpl.FirstArgument(ymodel.KindDescription); got != "from g" {
		t.Errorf("grouping leaf description: got %q, want from g", got)
	}
}

func TestNestedUses(t *testing.T) {
	ctx := mustBuild(t, Config{}, `module n {
  namespace urn:n;
  prefix n;
  grouping inner { leaf i { type string; } }
  grouping outer {
    container wrap { uses inner; }
  }
  list l {
    key k;
    leaf k { type string; }
    uses outer;
  }
}`)
	i := mustFind(t, ctx, qn("urn:n", "l"), qn("urn:n", "wrap"), qn("urn:n", "i"))
	if !i.AddedByUses() {
		t.Errorf("leaf i: want added-by-uses")
	}
	l := mustFind(t, ctx, qn("urn:n", "l"))
	if diff := cmp.Diff([]ycommon.QName{qn("urn:n", "k")}, l.ListKeys()); diff != "" {
		t.Errorf("ListKeys() (-want, +got):\n%s", diff)
	}
}

const (
	augmentModuleA = `module aa {
  namespace urn:aa;
  prefix aa;
  container c {
    choice ch {
      leaf one { type string; }
    }
  }
}`
	augmentModuleB = `module ab {
  namespace urn:ab;
  prefix ab;
  import aa { prefix aa; }
  augment "/aa:c/ab:added" {
    leaf deep { type string; }
  }
  augment "/aa:c" {
    container added;
  }
  augment "/aa:c/aa:ch" {
    leaf two { type string; }
  }
}`
)

func TestAugment(t *testing.T) {
	ctx := mustBuild(t, Config{}, augmentModuleA, augmentModuleB)
	c := mustFind(t, ctx, qn("urn:aa", "c"))
	if diff := cmp.Diff([]string{"ch", "added"}, names(c.SchemaTreeChildren())); diff != "" {
		t.Errorf("children of c (-want, +got):\n%s", diff)
	}
	if got := len(c.Augmentations()); got != 1 {
		t.Errorf("augmentations of c: got %d, want 1", got)
	}
	added := mustFind(t, ctx, qn("urn:aa", "c"), qn("urn:ab", "added"))
	if !added.Augmenting() {
		t.Errorf("added: want augmenting")
	}
	// The first augment targets a node introduced by a later one.
	mustFind(t, ctx, qn("urn:aa", "c"), qn("urn:ab", "added"), qn("urn:ab", "deep"))

	cs := mustFind(t, ctx, qn("urn:aa", "c"), qn("urn:aa", "ch"), qn("urn:ab", "two"))
	if cs.Kind != ymodel.KindCase || !cs.Implicit() || !cs.Augmenting() {
		t.Errorf("case two: got kind %s implicit %v augmenting %v, want implicit augmenting case", cs.Kind, cs.Implicit(), cs.Augmenting())
	}
	if cs.Declared != nil {
		t.Errorf("implicit case two: got declared %v, want nil", cs.Declared)
	}
	mustFind(t, ctx, qn("urn:aa", "c"), qn("urn:aa", "ch"), qn("urn:aa", "one"), qn("urn:aa", "one"))
	if _, ok := c.FindDataTreeNode(qn("urn:ab", "two")); !ok {
		t.Errorf("augmented leaf two is not a data child of c")
	}
	// Augmented children are not part of the declared statement.
	if got := len(c.Declared.Substatements); got != 1 {
		t.Errorf("declared substatements of c: got %d, want 1", got)
	}
}

func TestDeviation(t *testing.T) {
	target := `module dt {
  namespace urn:dt;
  prefix dt;
  container c {
    leaf gone { type string; }
    leaf l {
      type string;
      must "a";
      must "b";
    }
    leaf-list ll { type string; }
  }
}`
	deviator := func(body string) string {
		return `module dv { namespace urn:dv; prefix dv; import dt { prefix dt; } ` + body + ` }`
	}
	ctx := mustBuild(t, Config{}, target, deviator(`
  deviation /dt:c/dt:gone { deviate not-supported; }
  deviation /dt:c/dt:l {
    deviate add { units ms; }
    deviate replace { type int32; }
    deviate delete { must "a"; }
  }`))
	c := mustFind(t, ctx, qn("urn:dt", "c"))
	if _, ok := c.FindSchemaTreeNode(qn("urn:dt", "gone")); ok {
		t.Errorf("leaf gone is still present")
	}
	l := mustFind(t, ctx, qn("urn:dt", "c"), qn("urn:dt", "l"))
	if got := l.FirstArgument(ymodel.KindUnits); got != "ms" {
		t.Errorf("units: got %q, want ms", got)
	}
	if got := l.FirstArgument(ymodel.KindType); got != "int32" {
		t.Errorf("type: got %q, want int32", got)
	}
	var musts []string
	for _, m := range l.All(ymodel.KindMust) {
		musts = append(musts, m.Argument)
	}
	if diff := cmp.Diff([]string{"b"}, musts); diff != "" {
		t.Errorf("must statements (-want, +got):\n%s", diff)
	}

	errTests := []struct {
		desc             string
		body             string
		wantErrSubstring string
	}{{
		desc:             "add existing single-valued property",
		body:             `deviation /dt:c/dt:l { deviate add { type int8; } }`,
		wantErrSubstring: "deviate add: leaf l already has type",
	}, {
		desc:             "replace missing property",
		body:             `deviation /dt:c/dt:ll { deviate replace { units s; } }`,
		wantErrSubstring: "deviate replace: leaf-list ll has no units to replace",
	}, {
		desc:             "delete missing value",
		body:             `deviation /dt:c/dt:l { deviate delete { must "c"; } }`,
		wantErrSubstring: `deviate delete: leaf l has no must "c"`,
	}, {
		desc:             "deviation without deviate",
		body:             `deviation /dt:c/dt:l { description x; }`,
		wantErrSubstring: "deviation is missing deviate. Minimal count is 1",
	}}
	for _, tt := range errTests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := buildTexts(Config{}, target, deviator(tt.body))
			if diff := errdiff.Substring(err, tt.wantErrSubstring); diff != "" {
				t.Errorf("Build: %s", diff)
			}
		})
	}
}

func TestSubmodule(t *testing.T) {
	ctx := mustBuild(t, Config{}, `module m {
  namespace urn:m;
  prefix m;
  include s;
  container top { uses sg; }
}`, `submodule s {
  belongs-to m { prefix m; }
  import ab { prefix ab; }
  grouping sg { leaf x { type string; } }
  container sc;
}`, augmentModuleA, augmentModuleB)
	m, ok := ctx.FindModule("m", "")
	if !ok {
		t.Fatal("module m missing")
	}
	if got := len(m.Submodules); got != 1 {
		t.Fatalf("submodules: got %d, want 1", got)
	}
	sc, ok := m.FindSchemaTreeNode(qn("urn:m", "sc"))
	if !ok {
		t.Fatal("container sc of the submodule is not a child of the module")
	}
	if sc.QName.Module.Namespace != "urn:m" {
		t.Errorf("sc: got namespace %s, want urn:m", sc.QName.Module.Namespace)
	}
	mustFind(t, ctx, qn("urn:m", "top"), qn("urn:m", "x"))
	if got, ok := m.PrefixToModule("ab"); !ok || got.Namespace != "urn:ab" {
		t.Errorf("prefix ab imported by the submodule: got %v, %v", got, ok)
	}
	if _, ok := m.Grouping("sg"); !ok {
		t.Errorf("grouping sg of the submodule is not indexed by the module")
	}
	if _, ok := ctx.FindModule("s", ""); ok {
		t.Errorf("submodule s is listed as a module")
	}
}

func TestSubmoduleCollision(t *testing.T) {
	_, err := buildTexts(Config{}, `module m {
  namespace urn:m;
  prefix m;
  include s;
  identity dup;
}`, `submodule s {
  belongs-to m { prefix m; }
  identity dup;
}`)
	if diff := errdiff.Substring(err, "identity dup is already defined at src0"); diff != "" {
		t.Errorf("Build: %s", diff)
	}
}

func TestOperations(t *testing.T) {
	ctx := mustBuild(t, Config{}, `module op {
  yang-version 1.1;
  namespace urn:op;
  prefix op;
  rpc bare;
  rpc withInput {
    input { leaf a { type string; } }
  }
  container c {
    action act;
  }
}`)
	tests := []struct {
		path         []ycommon.QName
		wantImplicit []bool
	}{{
		path:         []ycommon.QName{qn("urn:op", "bare")},
		wantImplicit: []bool{true, true},
	}, {
		path:         []ycommon.QName{qn("urn:op", "withInput")},
		wantImplicit: []bool{false, true},
	}, {
		path:         []ycommon.QName{qn("urn:op", "c"), qn("urn:op", "act")},
		wantImplicit: []bool{true, true},
	}}
	for _, tt := range tests {
		op := mustFind(t, ctx, tt.path...)
		var got []bool
		for _, k := range []ymodel.Kind{ymodel.KindInput, ymodel.KindOutput} {
			e, ok := op.FindSchemaTreeNode(qn("urn:op", k.String()))
			if !ok {
				t.Fatalf("%s: %s missing", op, k)
			}
			got = append(got, e.Implicit())
		}
		if diff := cmp.Diff(tt.wantImplicit, got); diff != "" {
			t.Errorf("%s implicit input, output (-want, +got):\n%s", op, diff)
		}
	}
	mustFind(t, ctx, qn("urn:op", "withInput"), qn("urn:op", "input"), qn("urn:op", "a"))
}

func TestReferences(t *testing.T) {
	ctx := mustBuild(t, Config{}, `module r {
  namespace urn:r;
  prefix r;
  import ua { prefix a; }
  identity base-id;
  identity derived { base base-id; }
  identity other { base derived; base r:base-id; }
  typedef local { type a:name-type; }
  leaf l { type local; }
  leaf b { type boolean; }
  container c {
    typedef nested { type uint8; }
    leaf n { type nested; }
  }
}`, usesModuleA)
	m, _ := ctx.FindModule("r", "")
	id, _ := m.Identity("other")
	if diff := cmp.Diff([]ycommon.QName{qn("urn:r", "derived"), qn("urn:r", "base-id")}, id.References); diff != "" {
		t.Errorf("bases of other (-want, +got):\n%s", diff)
	}
	tests := []struct {
		path []ycommon.QName
		want []ycommon.QName
	}{
		{[]ycommon.QName{qn("urn:r", "l")}, []ycommon.QName{qn("urn:r", "local")}},
		{[]ycommon.QName{qn("urn:r", "b")}, nil},
		{[]ycommon.QName{qn("urn:r", "c"), qn("urn:r", "n")}, []ycommon.QName{qn("urn:r", "nested")}},
	}
	for _, tt := range tests {
		typ, _ := mustFind(t, ctx, tt.path...).FindFirst(ymodel.KindType)
		if diff := cmp.Diff(tt.want, typ.References); diff != "" {
			t.Errorf("type of %v (-want, +got):\n%s", tt.path, diff)
		}
	}
	td, _ := m.Typedef("local")
	typ, _ := td.FindFirst(ymodel.KindType)
	if diff := cmp.Diff([]ycommon.QName{qn("urn:ua", "name-type")}, typ.References); diff != "" {
		t.Errorf("type of typedef local (-want, +got):\n%s", diff)
	}
}

func TestExtensionInstances(t *testing.T) {
	ctx := mustBuild(t, Config{}, `module e {
  namespace urn:e;
  prefix e;
  extension annotate { argument text; }
  container c {
    e:annotate "note" {
      leaf opaque;
    }
  }
}`)
	c := mustFind(t, ctx, qn("urn:e", "c"))
	var ext *ymodel.Effective
	for _, s := range c.Substatements {
		if s.Kind == ymodel.KindUnknown {
			ext = s
		}
	}
	if ext == nil {
		t.Fatal("extension instance missing")
	}
	if got, want := ext.Extension, qn("urn:e", "annotate"); got != want {
		t.Errorf("extension: got %s, want %s", got, want)
	}
	if got := ext.Substatements[0].Kind; got != ymodel.KindUnknown {
		t.Errorf("statement below extension instance: got kind %s, want unknown", got)
	}
	if len(c.SchemaTreeChildren()) != 0 {
		t.Errorf("leaf below the extension instance became a schema node")
	}
}
