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

package ycommon

import (
	"testing"

	"github.com/openconfig/gnmi/errdiff"
)

func TestCompareRevisions(t *testing.T) {
	tests := []struct {
		name string
		a, b Revision
		want int
	}{{
		name: "equal",
		a:    "2020-01-01",
		b:    "2020-01-01",
		want: 0,
	}, {
		name: "older",
		a:    "2019-12-31",
		b:    "2020-01-01",
		want: -1,
	}, {
		name: "newer",
		a:    "2021-01-01",
		b:    "2020-01-01",
		want: 1,
	}, {
		name: "absent is oldest",
		a:    "",
		b:    "1970-01-01",
		want: -1,
	}, {
		name: "both absent",
		want: 0,
	}}

	for _, tt := range tests {
		if got := CompareRevisions(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: CompareRevisions(%q, %q): got %d, want %d", tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseSourceFileName(t *testing.T) {
	tests := []struct {
		desc          string
		in            string
		want          SourceID
		wantErrSubstr string
	}{{
		desc: "name only",
		in:   "foo.yang",
		want: SourceID{Name: "foo"},
	}, {
		desc: "name and revision with directory",
		in:   "models/foo@2020-02-29.yang",
		want: SourceID{Name: "foo", Revision: "2020-02-29"},
	}, {
		desc:          "bad revision",
		in:            "foo@2020-13-01.yang",
		wantErrSubstr: "invalid revision",
	}, {
		desc:          "wrong extension",
		in:            "foo.yin",
		wantErrSubstr: "not a .yang file",
	}, {
		desc:          "empty name",
		in:            "@2020-01-01.yang",
		wantErrSubstr: "empty module name",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := ParseSourceFileName(tt.in)
			if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
				t.Fatalf("ParseSourceFileName(%q): %s", tt.in, diff)
			}
			if got != tt.want {
				t.Errorf("ParseSourceFileName(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQNameString(t *testing.T) {
	q := NewQName("urn:foo", "2020-01-01", "bar")
	if got, want := q.String(), "(urn:foo?revision=2020-01-01)bar"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	nr := NewQName("urn:foo", "", "bar")
	if got, want := nr.String(), "(urn:foo)bar"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if got := nr.Bind(q.Module); got != q {
		t.Errorf("Bind: got %v, want %v", got, q)
	}
}

func TestAbsolute(t *testing.T) {
	a := NewQName("urn:a", "", "a")
	b := NewQName("urn:a", "", "b")
	p := AbsoluteOf(a)
	c := p.Child(b)
	if p.Len() != 1 || c.Len() != 2 {
		t.Fatalf("Child modified the receiver: %v, %v", p, c)
	}
	if !c.Equal(AbsoluteOf(a, b)) {
		t.Errorf("got %v, want %v", c, AbsoluteOf(a, b))
	}
	if got, want := c.String(), "/(urn:a)a/(urn:a)b"; got != want {
		t.Errorf("String: got %s, want %s", got, want)
	}
	if got := c.LastComponent(); got != b {
		t.Errorf("LastComponent: got %v, want %v", got, b)
	}
	ids := c.NodeIdentifiers()
	ids[0] = b
	if c.NodeIdentifiers()[0] != a {
		t.Errorf("NodeIdentifiers did not return a copy")
	}
}
