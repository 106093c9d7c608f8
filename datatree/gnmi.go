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
	"strings"

	gpb "github.com/openconfig/gnmi/proto/gnmi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/openconfig/yangkit/util"
	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// FromGNMIPath resolves a gNMI path through t. Element names may be
// prefixed with a module name; an unprefixed name is looked up in the module
// of its parent first, then among all children with that local name. List
// elements must carry every key of the list unless they are the last
// element of the path, and a leaf-list entry is selected with the "." key.
//
// Errors carry gRPC status codes: codes.InvalidArgument for malformed or
// ambiguous paths and codes.NotFound for names that are not in the schema.
func FromGNMIPath(t *Tree, p *gpb.Path) (*Resolved, error) {
	if p == nil {
		return nil, status.Error(codes.InvalidArgument, "nil path")
	}
	if len(p.GetElement()) != 0 {
		return nil, status.Errorf(codes.InvalidArgument, "path %v uses the deprecated element field", p.GetElement())
	}
	r := &gnmiResolver{tree: t, path: util.PathToString(p), stack: ymodel.NewInferenceStack(t.ctx)}
	var cur Node = t.root
	elems := p.GetElem()
	for i, e := range elems {
		c, ok := cur.(Composite)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "%s: %v has no children", r.path, cur.PathStep())
		}
		q, err := r.qname(c, e.GetName())
		if err != nil {
			return nil, err
		}
		if cur, err = r.enter(c, q, e, i == len(elems)-1); err != nil {
			return nil, err
		}
	}
	return resolved(r.args, cur, r.stack)
}

type gnmiResolver struct {
	tree  *Tree
	path  string
	stack *ymodel.InferenceStack
	args  []PathArgument

	module    ycommon.QNameModule
	hasModule bool
}

// qname maps the name of a path element to the QName of a child of c.
func (r *gnmiResolver) qname(c Composite, name string) (ycommon.QName, error) {
	if name == "" {
		return ycommon.QName{}, status.Errorf(codes.InvalidArgument, "%s: empty element name", r.path)
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		m, ok := r.tree.ctx.FindModule(name[:i], "")
		if !ok {
			return ycommon.QName{}, status.Errorf(codes.NotFound, "%s: module %s not found", r.path, name[:i])
		}
		return ycommon.QName{Module: m.QNameModule, Name: name[i+1:]}, nil
	}
	if r.hasModule {
		q := ycommon.QName{Module: r.module, Name: name}
		if _, ok := c.ChildByQName(q); ok {
			return q, nil
		}
	}
	var found []ycommon.QName
	for _, e := range r.candidates(c) {
		if e.QName.Name == name {
			found = append(found, e.QName)
		}
	}
	switch len(found) {
	case 0:
		return ycommon.QName{}, status.Errorf(codes.NotFound, "%s: %s not found", r.path, name)
	case 1:
		return found[0], nil
	}
	return ycommon.QName{}, status.Errorf(codes.InvalidArgument, "%s: %s is ambiguous, matching %v", r.path, name, found)
}

// candidates returns the data children of c, looking through choices.
func (r *gnmiResolver) candidates(c Composite) []*ymodel.Effective {
	switch n := c.(type) {
	case *rootNode:
		var out []*ymodel.Effective
		for _, m := range r.tree.ctx.Modules() {
			out = append(out, m.DataTreeChildren()...)
		}
		return out
	case *augmentationNode:
		var out []*ymodel.Effective
		for _, e := range n.target.DataTreeChildren() {
			if _, ok := n.ChildByQName(e.QName); ok {
				out = append(out, e)
			}
		}
		return out
	}
	if s := c.Schema(); s != nil {
		return s.DataTreeChildren()
	}
	return nil
}

// enter enters the child q of c named by element e, recording the path
// arguments of every node passed through.
func (r *gnmiResolver) enter(c Composite, q ycommon.QName, e *gpb.PathElem, last bool) (Node, error) {
	n, ok := c.EnterChild(r.stack, q)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "%s: %s not found", r.path, q.Name)
	}
	r.module, r.hasModule = q.Module, true
	for {
		switch m := n.(type) {
		case *choiceNode, *augmentationNode:
			r.args = append(r.args, n.PathStep())
			if n, ok = m.(Composite).EnterChild(r.stack, q); !ok {
				return nil, status.Errorf(codes.NotFound, "%s: %s not found", r.path, q.Name)
			}
			continue
		case *listNode:
			r.args = append(r.args, n.PathStep())
			return r.listEntry(m, q, e, last)
		case *leafListNode:
			r.args = append(r.args, n.PathStep())
			return r.leafListEntry(m, q, e, last)
		}
		if len(e.GetKey()) != 0 {
			return nil, status.Errorf(codes.InvalidArgument, "%s: %s does not take keys", r.path, q.Name)
		}
		r.args = append(r.args, n.PathStep())
		return n, nil
	}
}

func (r *gnmiResolver) listEntry(l *listNode, q ycommon.QName, e *gpb.PathElem, last bool) (Node, error) {
	keys := e.GetKey()
	if len(keys) == 0 {
		if !last {
			return nil, status.Errorf(codes.InvalidArgument, "%s: keys of list %s are required", r.path, q.Name)
		}
		return l, nil
	}
	n, ok := l.EnterChild(r.stack, q)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "%s: %s not found", r.path, q.Name)
	}
	item := n.(*listItemNode)
	if !item.keyed {
		return nil, status.Errorf(codes.InvalidArgument, "%s: list %s has no keys", r.path, q.Name)
	}
	arg := NodeIdentifierWithPredicates{QName: q}
	for _, k := range item.Keys() {
		v, ok := keys[k.Name]
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "%s: missing key %s of list %s", r.path, k.Name, q.Name)
		}
		arg.Keys = append(arg.Keys, KeyValue{Key: k, Value: v})
	}
	if len(keys) != len(arg.Keys) {
		return nil, status.Errorf(codes.InvalidArgument, "%s: list %s has keys %v, got %v", r.path, q.Name, item.Keys(), keys)
	}
	r.args = append(r.args, arg)
	return item, nil
}

func (r *gnmiResolver) leafListEntry(l *leafListNode, q ycommon.QName, e *gpb.PathElem, last bool) (Node, error) {
	keys := e.GetKey()
	if len(keys) == 0 {
		return l, nil
	}
	v, ok := keys["."]
	if !ok || len(keys) != 1 {
		return nil, status.Errorf(codes.InvalidArgument, "%s: leaf-list %s only takes the \".\" key", r.path, q.Name)
	}
	if !last {
		return nil, status.Errorf(codes.InvalidArgument, "%s: leaf-list entry %s must be the last element", r.path, q.Name)
	}
	n, _ := l.EnterChild(r.stack, q)
	r.args = append(r.args, NodeWithValue{QName: q, Value: v})
	return n, nil
}
