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

// Package datatree implements the data schema context tree: a navigable
// view of an effective schema that resolves instance identifier path
// arguments to schema nodes, passing through the choice, list entry and
// augmentation nodes that have no schema node identifier step of their own.
package datatree

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// treeCacheSize bounds the number of trees retained by Of.
const treeCacheSize = 16

var trees *lru.Cache

func init() {
	var err error
	if trees, err = lru.New(treeCacheSize); err != nil {
		panic(err)
	}
}

// Tree is the data schema context tree of a schema context. A Tree may be
// used concurrently.
type Tree struct {
	ctx  *ymodel.Context
	root *rootNode
}

// New returns a new tree over ctx.
func New(ctx *ymodel.Context) *Tree {
	return &Tree{ctx: ctx, root: newRoot(ctx)}
}

// Of returns the tree of ctx, reusing a recently derived one.
func Of(ctx *ymodel.Context) *Tree {
	if t, ok := trees.Get(ctx); ok {
		return t.(*Tree)
	}
	t := New(ctx)
	if ok, _ := trees.ContainsOrAdd(ctx, t); ok {
		if prev, ok := trees.Get(ctx); ok {
			return prev.(*Tree)
		}
	}
	return t
}

// Context returns the schema context of t.
func (t *Tree) Context() *ymodel.Context { return t.ctx }

// Root returns the root node, whose children are the top-level data nodes
// of every module.
func (t *Tree) Root() Composite { return t.root }

// FindChild follows path from the root. Every mixin on the way must be
// named by its own path argument. It panics if an element of path is nil.
func (t *Tree) FindChild(path ...PathArgument) (Node, bool) {
	for _, a := range path {
		mustArg(a)
	}
	var cur Node = t.root
	for _, a := range path {
		c, ok := cur.(Composite)
		if !ok {
			return nil, false
		}
		if cur, ok = c.ChildByArg(a); !ok {
			return nil, false
		}
	}
	return cur, true
}

// EnterPath follows the data tree path from the root, passing through
// mixins. It returns the node reached and an inference stack holding the
// schema tree steps taken, choices and cases included.
func (t *Tree) EnterPath(path ...ycommon.QName) (Node, *ymodel.InferenceStack, bool) {
	stack := ymodel.NewInferenceStack(t.ctx)
	var cur Node = t.root
	for _, q := range path {
		c, ok := cur.(Composite)
		if !ok {
			return nil, nil, false
		}
		if cur, ok = c.EnterChild(stack, q); !ok {
			return nil, nil, false
		}
		if cur, ok = throughMixins(stack, cur, q, nil); !ok {
			return nil, nil, false
		}
	}
	return cur, stack, true
}

// throughMixins enters q below n while n is a mixin, calling step with each
// mixin left behind. It stops at the first node that is not a mixin or
// does not lead to q.
func throughMixins(stack *ymodel.InferenceStack, n Node, q ycommon.QName, step func(Node)) (Node, bool) {
	for n.IsMixin() {
		c, ok := n.(Composite)
		if !ok {
			break
		}
		if _, ok := c.ChildByQName(q); !ok {
			break
		}
		if step != nil {
			step(n)
		}
		next, ok := c.EnterChild(stack, q)
		if !ok {
			return nil, false
		}
		n = next
	}
	return n, true
}
