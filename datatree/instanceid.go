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

package datatree

import (
	"fmt"
	"strings"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// Resolved is a path resolved through a Tree.
type Resolved struct {
	// Args are the path arguments of the path, including the steps of the
	// mixins passed through.
	Args []PathArgument
	// Node is the node the path leads to.
	Node Node
	// Schema is the schema node identifier of Node. It is empty for the
	// root.
	Schema ycommon.Absolute
}

func resolved(args []PathArgument, n Node, stack *ymodel.InferenceStack) (*Resolved, error) {
	r := &Resolved{Args: args, Node: n}
	if stack.IsEmpty() {
		return r, nil
	}
	abs, err := stack.ToAbsolute()
	if err != nil {
		return nil, err
	}
	r.Schema = abs
	return r, nil
}

// ParseInstanceIdentifier parses an instance identifier in the
// /module:node/node[key='value']/leaf-list[.='value'] form. Prefixes are
// module names; an unprefixed node belongs to the module of the node before
// it.
func ParseInstanceIdentifier(t *Tree, s string) (*Resolved, error) {
	p := &iidParser{
		tree:    t,
		data:    s,
		stack:   ymodel.NewInferenceStack(t.ctx),
		current: t.root,
	}
	for !p.done() {
		a, err := p.nextArgument()
		if err != nil {
			return nil, err
		}
		p.args = append(p.args, a)
	}
	return resolved(p.args, p.current, p.stack)
}

type iidParser struct {
	tree    *Tree
	data    string
	offset  int
	stack   *ymodel.InferenceStack
	current Node
	args    []PathArgument

	lastModule ycommon.QNameModule
	hasModule  bool
}

func (p *iidParser) errorf(format string, args ...any) error {
	return fmt.Errorf("could not parse instance identifier %q at offset %d: %s", p.data, p.offset, fmt.Sprintf(format, args...))
}

func (p *iidParser) done() bool { return p.offset >= len(p.data) }

func (p *iidParser) cur() byte { return p.data[p.offset] }

func (p *iidParser) expect(c byte, msg string) error {
	if p.done() || p.cur() != c {
		return p.errorf("%s", msg)
	}
	p.offset++
	return nil
}

func (p *iidParser) nextArgument() (PathArgument, error) {
	if err := p.expect('/', "identifier must start with '/'"); err != nil {
		return nil, err
	}
	if p.done() {
		return nil, p.errorf("identifier cannot end with '/'")
	}
	q, err := p.nextQName()
	if err != nil {
		return nil, err
	}
	p.lastModule, p.hasModule = q.Module, true
	if p.done() || p.cur() == '/' {
		return p.identifier(q)
	}
	if p.cur() != '[' {
		return nil, p.errorf("last element must be identifier, predicate or '/'")
	}
	return p.identifierWithPredicates(q)
}

// enterNode enters q below the current node, recording the steps of the
// mixins passed through.
func (p *iidParser) enterNode(q ycommon.QName) (Node, error) {
	c, ok := p.current.(Composite)
	if !ok {
		return nil, p.errorf("%s is not a valid schema node identifier", q)
	}
	n, ok := c.EnterChild(p.stack, q)
	if !ok {
		return nil, p.errorf("%s is not a valid schema node identifier", q)
	}
	n, ok = throughMixins(p.stack, n, q, func(m Node) { p.args = append(p.args, m.PathStep()) })
	if !ok {
		return nil, p.errorf("%s is not a valid schema node identifier", q)
	}
	p.current = n
	return n, nil
}

func (p *iidParser) identifier(q ycommon.QName) (PathArgument, error) {
	n, err := p.enterNode(q)
	if err != nil {
		return nil, err
	}
	if n.PathStep() == nil {
		return nil, p.errorf("entry %s requires key or value predicate to be present", q.Name)
	}
	return n.PathStep(), nil
}

func (p *iidParser) identifierWithPredicates(q ycommon.QName) (PathArgument, error) {
	n, err := p.enterNode(q)
	if err != nil {
		return nil, err
	}
	if n.PathStep() != nil {
		return nil, p.errorf("entry %s does not allow specifying predicates", q.Name)
	}
	arg := NodeIdentifierWithPredicates{QName: q}
	for !p.done() && p.cur() == '[' {
		p.offset++
		p.skipSpace()
		var key ycommon.QName
		self := false
		if !p.done() && p.cur() == '.' {
			self = true
			p.offset++
		} else if key, err = p.nextQName(); err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect('=', "predicate must contain '='"); err != nil {
			return nil, err
		}
		p.skipSpace()
		v, err := p.quotedValue()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(']', "predicate must end with ']'"); err != nil {
			return nil, err
		}
		if self {
			if !n.IsLeaf() {
				return nil, p.errorf("value predicate is not valid for %s", q.Name)
			}
			if !p.done() {
				return nil, p.errorf("leaf-list value must be the last argument of the instance identifier")
			}
			return NodeWithValue{QName: q, Value: v}, nil
		}
		item, ok := n.(*listItemNode)
		if !ok {
			return nil, p.errorf("%s is not a valid schema node identifier", key)
		}
		if !containsQName(item.Keys(), key) {
			return nil, p.errorf("%s is not a key of list %s", key.Name, q.Name)
		}
		if _, dup := arg.Value(key); dup {
			return nil, p.errorf("duplicate predicate for key %s", key.Name)
		}
		arg.Keys = append(arg.Keys, KeyValue{Key: key, Value: v})
	}
	return arg, nil
}

func containsQName(qs []ycommon.QName, q ycommon.QName) bool {
	for _, c := range qs {
		if c == q {
			return true
		}
	}
	return false
}

func (p *iidParser) nextQName() (ycommon.QName, error) {
	first, err := p.identifierToken()
	if err != nil {
		return ycommon.QName{}, err
	}
	if !p.done() && p.cur() == ':' {
		p.offset++
		local, err := p.identifierToken()
		if err != nil {
			return ycommon.QName{}, err
		}
		m, ok := p.tree.ctx.FindModule(first, "")
		if !ok {
			return ycommon.QName{}, p.errorf("module %s not found", first)
		}
		return ycommon.QName{Module: m.QNameModule, Name: local}, nil
	}
	if !p.hasModule {
		return ycommon.QName{}, p.errorf("%s must be prefixed with its module name", first)
	}
	return ycommon.QName{Module: p.lastModule, Name: first}, nil
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '.' || c == '-'
}

func (p *iidParser) identifierToken() (string, error) {
	if p.done() || !isIdentStart(p.cur()) {
		return "", p.errorf("identifier must start with a character from the set 'a-zA-Z_'")
	}
	start := p.offset
	for !p.done() && isIdentChar(p.cur()) {
		p.offset++
	}
	return p.data[start:p.offset], nil
}

func (p *iidParser) skipSpace() {
	for !p.done() && (p.cur() == ' ' || p.cur() == '\t') {
		p.offset++
	}
}

func (p *iidParser) quotedValue() (string, error) {
	if p.done() {
		return "", p.errorf("value must be quoted with ' or \"")
	}
	switch p.cur() {
	case '\'':
		p.offset++
		end := strings.IndexByte(p.data[p.offset:], '\'')
		if end < 0 {
			return "", p.errorf("closing single quote not found")
		}
		v := p.data[p.offset : p.offset+end]
		p.offset += end + 1
		return v, nil
	case '"':
		p.offset++
		var b strings.Builder
		for {
			if p.done() {
				return "", p.errorf("closing double quote not found")
			}
			c := p.cur()
			switch c {
			case '"':
				p.offset++
				return b.String(), nil
			case '\\':
				if p.offset+1 >= len(p.data) {
					return "", p.errorf("incomplete escape")
				}
				switch e := p.data[p.offset+1]; e {
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				case '"', '\\':
					b.WriteByte(e)
				default:
					return "", p.errorf("unrecognized escape \\%c", e)
				}
				p.offset += 2
			default:
				b.WriteByte(c)
				p.offset++
			}
		}
	}
	return "", p.errorf("value must be quoted with ' or \"")
}
