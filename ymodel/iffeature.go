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

// IfFeatureExpr is a parsed YANG 1.1 if-feature expression.
type IfFeatureExpr interface {
	// Evaluate reports whether the expression holds when supported reports
	// which features are available.
	Evaluate(supported func(ycommon.QName) bool) bool
	// References returns the features named by the expression.
	References() []ycommon.QName
	String() string
}

type featureRef struct{ q ycommon.QName }

func (f featureRef) Evaluate(supported func(ycommon.QName) bool) bool { return supported(f.q) }
func (f featureRef) References() []ycommon.QName                     { return []ycommon.QName{f.q} }
func (f featureRef) String() string                                  { return f.q.String() }

type notExpr struct{ x IfFeatureExpr }

func (n notExpr) Evaluate(supported func(ycommon.QName) bool) bool { return !n.x.Evaluate(supported) }
func (n notExpr) References() []ycommon.QName                     { return n.x.References() }
func (n notExpr) String() string                                  { return "not " + n.x.String() }

// junction is a conjunction (and) or disjunction (or) of expressions.
type junction struct {
	and bool
	xs  []IfFeatureExpr
}

func (j junction) Evaluate(supported func(ycommon.QName) bool) bool {
	for _, x := range j.xs {
		if x.Evaluate(supported) != j.and {
			return !j.and
		}
	}
	return j.and
}

func (j junction) References() []ycommon.QName {
	var out []ycommon.QName
	for _, x := range j.xs {
		out = append(out, x.References()...)
	}
	return out
}

func (j junction) String() string {
	op := " or "
	if j.and {
		op = " and "
	}
	parts := make([]string, 0, len(j.xs))
	for _, x := range j.xs {
		parts = append(parts, x.String())
	}
	return "(" + strings.Join(parts, op) + ")"
}

// ParseIfFeatureExpr parses an if-feature argument. resolve maps each
// identifier-ref, with its optional prefix, to the QName of the feature.
// Operator precedence is not, then and, then or.
func ParseIfFeatureExpr(s string, resolve func(string) (ycommon.QName, error)) (IfFeatureExpr, error) {
	p := &featureParser{toks: tokenizeIfFeature(s), resolve: resolve}
	if len(p.toks) == 0 {
		return nil, fmt.Errorf("empty if-feature expression")
	}
	x, err := p.or()
	if err != nil {
		return nil, fmt.Errorf("invalid if-feature expression %q: %v", s, err)
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("invalid if-feature expression %q: unexpected %q", s, p.toks[p.pos])
	}
	return x, nil
}

func tokenizeIfFeature(s string) []string {
	var toks []string
	start := -1
	flush := func(i int) {
		if start >= 0 {
			toks = append(toks, s[start:i])
			start = -1
		}
	}
	for i, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r':
			flush(i)
		case '(', ')':
			flush(i)
			toks = append(toks, string(c))
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(s))
	return toks
}

type featureParser struct {
	toks    []string
	pos     int
	resolve func(string) (ycommon.QName, error)
}

func (p *featureParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *featureParser) or() (IfFeatureExpr, error) {
	return p.junction(false, p.and)
}

func (p *featureParser) and() (IfFeatureExpr, error) {
	return p.junction(true, p.factor)
}

func (p *featureParser) junction(and bool, operand func() (IfFeatureExpr, error)) (IfFeatureExpr, error) {
	op := "or"
	if and {
		op = "and"
	}
	x, err := operand()
	if err != nil {
		return nil, err
	}
	xs := []IfFeatureExpr{x}
	for p.peek() == op {
		p.pos++
		y, err := operand()
		if err != nil {
			return nil, err
		}
		xs = append(xs, y)
	}
	if len(xs) == 1 {
		return x, nil
	}
	return junction{and: and, xs: xs}, nil
}

func (p *featureParser) factor() (IfFeatureExpr, error) {
	switch t := p.peek(); t {
	case "":
		return nil, fmt.Errorf("unexpected end of expression")
	case "not":
		p.pos++
		x, err := p.factor()
		if err != nil {
			return nil, err
		}
		return notExpr{x: x}, nil
	case "(":
		p.pos++
		x, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing ')'")
		}
		p.pos++
		return x, nil
	case ")", "and", "or":
		return nil, fmt.Errorf("unexpected %q", t)
	default:
		p.pos++
		q, err := p.resolve(t)
		if err != nil {
			return nil, err
		}
		return featureRef{q: q}, nil
	}
}
