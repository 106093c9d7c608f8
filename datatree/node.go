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
	"sync"

	log "github.com/golang/glog"

	"github.com/openconfig/yangkit/ycommon"
	"github.com/openconfig/yangkit/ymodel"
)

// Node is a node of the data schema context tree. It is either a data
// node of the schema or a mixin: a node that has no level of its own in
// schema node identifiers, such as a choice, an augmentation or the entry
// of a list.
type Node interface {
	// PathStep returns the path argument that addresses the node. It is
	// nil for list and leaf-list entries, which are addressed by
	// predicates.
	PathStep() PathArgument
	// Schema returns the schema node the node decorates, or nil for the
	// root and augmentation nodes.
	Schema() *ymodel.Effective
	IsMixin() bool
	// IsKeyedEntry reports whether the node is an entry of a keyed list or
	// a leaf-list.
	IsKeyedEntry() bool
	IsLeaf() bool

	// ident is the identifier the parent caches the node under.
	ident() PathArgument
	// qnames are the QNames the parent caches the node under.
	qnames() []ycommon.QName
	// enter pushes the schema tree steps of the node onto stack.
	enter(stack *ymodel.InferenceStack) error
}

// Composite is a Node that has children.
type Composite interface {
	Node
	// ChildByArg returns the child addressed by a. It panics if a is nil,
	// so that a missing argument is not mistaken for a missing child.
	ChildByArg(a PathArgument) (Node, bool)
	// ChildByQName returns the child through which the data node q is
	// reached. The child is a mixin when q is inside a choice or was added
	// by an augment.
	ChildByQName(q ycommon.QName) (Node, bool)
	// EnterChild returns the same node as ChildByQName and pushes the
	// schema tree steps between the node and the child onto stack. A nil
	// stack is ignored.
	EnterChild(stack *ymodel.InferenceStack, q ycommon.QName) (Node, bool)
}

type base struct {
	id     PathArgument
	schema *ymodel.Effective
}

func (b *base) PathStep() PathArgument    { return b.id }
func (b *base) Schema() *ymodel.Effective { return b.schema }
func (b *base) IsMixin() bool             { return false }
func (b *base) IsKeyedEntry() bool        { return false }
func (b *base) IsLeaf() bool              { return false }
func (b *base) ident() PathArgument       { return b.id }

func (b *base) qnames() []ycommon.QName { return []ycommon.QName{b.schema.QName} }

func (b *base) enter(stack *ymodel.InferenceStack) error {
	_, err := stack.EnterSchemaTree(b.schema.QName)
	return err
}

// noStep is embedded by nodes that add no schema tree step.
type noStep struct{}

func (noStep) enter(*ymodel.InferenceStack) error { return nil }

// cache memoizes the children of a node. Concurrent lookups of the same
// missing child may each compute it; the first registered value is kept.
type cache struct {
	mu      sync.RWMutex
	byQName map[ycommon.QName]Node
	byArg   map[string]Node
}

func (c *cache) qname(q ycommon.QName) (Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.byQName[q]
	return n, ok
}

func (c *cache) arg(k string) (Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.byArg[k]
	return n, ok
}

// register publishes n and returns the published child for its identifier.
func (c *cache) register(n Node) Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byArg == nil {
		c.byArg = map[string]Node{}
		c.byQName = map[ycommon.QName]Node{}
	}
	k := n.ident().key()
	if prev, ok := c.byArg[k]; ok {
		return prev
	}
	c.byArg[k] = n
	for _, q := range n.qnames() {
		if _, ok := c.byQName[q]; !ok {
			c.byQName[q] = n
		}
	}
	return n
}

// interior is a composite whose children are derived lazily from the schema
// and cached.
type interior struct {
	base
	children cache
	// resolve derives the child through which q is reached, or nil.
	resolve func(q ycommon.QName) Node
}

func (n *interior) ChildByQName(q ycommon.QName) (Node, bool) {
	if c, ok := n.children.qname(q); ok {
		return c, true
	}
	c := n.resolve(q)
	if c == nil {
		return nil, false
	}
	return n.children.register(c), true
}

// mustArg panics if a is nil.
func mustArg(a PathArgument) {
	if a == nil {
		panic("datatree: nil PathArgument")
	}
}

func (n *interior) ChildByArg(a PathArgument) (Node, bool) {
	mustArg(a)
	if c, ok := n.children.arg(a.key()); ok {
		return c, true
	}
	c, ok := n.ChildByQName(a.NodeType())
	if !ok {
		return nil, false
	}
	if aug, ok := a.(AugmentationIdentifier); ok && c.ident().key() != aug.key() {
		return nil, false
	}
	return c, true
}

func (n *interior) EnterChild(stack *ymodel.InferenceStack, q ycommon.QName) (Node, bool) {
	c, ok := n.ChildByQName(q)
	if !ok {
		return nil, false
	}
	return enter(stack, c)
}

func enter(stack *ymodel.InferenceStack, c Node) (Node, bool) {
	if stack == nil {
		return c, true
	}
	if err := c.enter(stack); err != nil {
		log.Warningf("datatree: cannot enter %v: %v", c.PathStep(), err)
		return nil, false
	}
	return c, true
}

// containerNode is a container.
type containerNode struct {
	interior
}

func newContainer(e *ymodel.Effective) *containerNode {
	n := &containerNode{}
	n.id, n.schema = NodeIdentifier{QName: e.QName}, e
	n.resolve = func(q ycommon.QName) Node { return childOf(e, q) }
	return n
}

// listItemNode is an entry of a list. Entries of a keyed list are
// addressed by predicates.
type listItemNode struct {
	interior
	noStep
	keyed bool
}

func (n *listItemNode) PathStep() PathArgument {
	if n.keyed {
		return nil
	}
	return n.id
}

func (n *listItemNode) IsKeyedEntry() bool { return n.keyed }

func (n *listItemNode) enter(s *ymodel.InferenceStack) error { return n.noStep.enter(s) }

// Keys returns the key leaves of a keyed list, in key statement order.
func (n *listItemNode) Keys() []ycommon.QName { return n.schema.ListKeys() }

// listNode is the mixin holding the entries of a list.
type listNode struct {
	base
	item *listItemNode
}

func newList(e *ymodel.Effective) *listNode {
	item := &listItemNode{keyed: len(e.ListKeys()) > 0}
	item.schema = e
	if item.keyed {
		item.id = NodeIdentifierWithPredicates{QName: e.QName}
	} else {
		item.id = NodeIdentifier{QName: e.QName}
	}
	item.resolve = func(q ycommon.QName) Node { return childOf(e, q) }
	return &listNode{base: base{id: NodeIdentifier{QName: e.QName}, schema: e}, item: item}
}

func (n *listNode) IsMixin() bool { return true }

// IsUserOrdered reports whether the list is ordered-by user.
func (n *listNode) IsUserOrdered() bool { return n.schema.IsUserOrdered() }

func (n *listNode) ChildByArg(a PathArgument) (Node, bool) {
	mustArg(a)
	return n.ChildByQName(a.NodeType())
}

func (n *listNode) ChildByQName(q ycommon.QName) (Node, bool) {
	if q != n.schema.QName {
		return nil, false
	}
	return n.item, true
}

func (n *listNode) EnterChild(stack *ymodel.InferenceStack, q ycommon.QName) (Node, bool) {
	c, ok := n.ChildByQName(q)
	if !ok {
		return nil, false
	}
	return enter(stack, c)
}

// leafListEntryNode is an entry of a leaf-list.
type leafListEntryNode struct {
	base
	noStep
}

func (n *leafListEntryNode) PathStep() PathArgument { return nil }
func (n *leafListEntryNode) IsKeyedEntry() bool     { return true }
func (n *leafListEntryNode) IsLeaf() bool           { return true }

func (n *leafListEntryNode) enter(s *ymodel.InferenceStack) error { return n.noStep.enter(s) }

// leafListNode is the mixin holding the entries of a leaf-list.
type leafListNode struct {
	base
	entry *leafListEntryNode
}

func newLeafList(e *ymodel.Effective) *leafListNode {
	return &leafListNode{
		base:  base{id: NodeIdentifier{QName: e.QName}, schema: e},
		entry: &leafListEntryNode{base: base{id: NodeWithValue{QName: e.QName}, schema: e}},
	}
}

func (n *leafListNode) IsMixin() bool { return true }

// IsUserOrdered reports whether the leaf-list is ordered-by user.
func (n *leafListNode) IsUserOrdered() bool { return n.schema.IsUserOrdered() }

func (n *leafListNode) ChildByArg(a PathArgument) (Node, bool) {
	mustArg(a)
	if v, ok := a.(NodeWithValue); ok && v.QName == n.schema.QName {
		return n.entry, true
	}
	return nil, false
}

func (n *leafListNode) ChildByQName(q ycommon.QName) (Node, bool) {
	if q != n.schema.QName {
		return nil, false
	}
	return n.entry, true
}

func (n *leafListNode) EnterChild(stack *ymodel.InferenceStack, q ycommon.QName) (Node, bool) {
	c, ok := n.ChildByQName(q)
	if !ok {
		return nil, false
	}
	return enter(stack, c)
}

type leafNode struct {
	base
}

func (n *leafNode) IsLeaf() bool { return true }

// anydataNode is an anydata or anyxml node. Its content is not modelled.
type anydataNode struct {
	base
}

type choiceChild struct {
	cs   *ymodel.Effective
	node Node
}

// choiceNode is the mixin of a choice. Its children are the data nodes of
// all its cases, built when the choice is.
type choiceNode struct {
	base
	children []choiceChild
	// index maps every QName reachable through the choice, nested choices
	// included, to the first child in declaration order reaching it.
	index map[ycommon.QName]int
}

func newChoice(e *ymodel.Effective) *choiceNode {
	n := &choiceNode{
		base:  base{id: NodeIdentifier{QName: e.QName}, schema: e},
		index: map[ycommon.QName]int{},
	}
	for _, cs := range e.SchemaTreeChildren() {
		if cs.Kind != ymodel.KindCase {
			continue
		}
		for _, s := range cs.SchemaTreeChildren() {
			c := fromSchema(s)
			if c == nil {
				continue
			}
			n.children = append(n.children, choiceChild{cs: cs, node: c})
		}
	}
	for i, ch := range n.children {
		for _, q := range ch.node.qnames() {
			if _, ok := n.index[q]; !ok {
				n.index[q] = i
			}
		}
	}
	return n
}

func (n *choiceNode) IsMixin() bool { return true }

func (n *choiceNode) qnames() []ycommon.QName {
	qs := []ycommon.QName{n.schema.QName}
	for q := range n.index {
		qs = append(qs, q)
	}
	return qs
}

func (n *choiceNode) ChildByArg(a PathArgument) (Node, bool) {
	mustArg(a)
	return n.ChildByQName(a.NodeType())
}

func (n *choiceNode) ChildByQName(q ycommon.QName) (Node, bool) {
	i, ok := n.index[q]
	if !ok {
		return nil, false
	}
	return n.children[i].node, true
}

// EnterChild pushes the case holding q before the child itself.
func (n *choiceNode) EnterChild(stack *ymodel.InferenceStack, q ycommon.QName) (Node, bool) {
	i, ok := n.index[q]
	if !ok {
		return nil, false
	}
	ch := n.children[i]
	if stack != nil {
		if _, err := stack.EnterSchemaTree(ch.cs.QName); err != nil {
			log.Warningf("datatree: cannot enter case %s: %v", ch.cs.QName, err)
			return nil, false
		}
	}
	return enter(stack, ch.node)
}

// augmentationNode is the mixin holding the children one augment statement
// added to its target.
type augmentationNode struct {
	interior
	noStep
	target *ymodel.Effective
}

func newAugmentation(target, aug *ymodel.Effective) *augmentationNode {
	var names []ycommon.QName
	for _, s := range aug.SchemaTreeChildren() {
		if !s.Kind.IsDataNode() && s.Kind != ymodel.KindChoice {
			continue
		}
		if c, ok := graftedChild(target, s); ok {
			names = append(names, c.QName)
		}
	}
	id := AugmentationIdentifier{ChildNames: names}
	n := &augmentationNode{target: target}
	n.id = id
	n.resolve = func(q ycommon.QName) Node {
		c, ok := findChild(target, q)
		if !ok || !id.Contains(c.QName) {
			return nil
		}
		return fromSchema(c)
	}
	return n
}

func (n *augmentationNode) IsMixin() bool { return true }

func (n *augmentationNode) qnames() []ycommon.QName {
	return n.id.(AugmentationIdentifier).ChildNames
}

func (n *augmentationNode) enter(s *ymodel.InferenceStack) error { return n.noStep.enter(s) }

// Target returns the schema node the augmentation was applied to.
func (n *augmentationNode) Target() *ymodel.Effective { return n.target }

// rootNode holds the top-level data nodes of every module of a context.
type rootNode struct {
	interior
	noStep
}

func newRoot(ctx *ymodel.Context) *rootNode {
	n := &rootNode{}
	n.id = NodeIdentifier{}
	n.resolve = func(q ycommon.QName) Node {
		m, ok := ctx.FindModuleByNamespace(q.Module)
		if !ok {
			return nil
		}
		return childOf(m.Effective, q)
	}
	return n
}

func (n *rootNode) qnames() []ycommon.QName { return nil }

func (n *rootNode) enter(s *ymodel.InferenceStack) error { return n.noStep.enter(s) }

// fromSchema returns the node decorating the schema node e, or nil if e is
// not part of the data tree.
func fromSchema(e *ymodel.Effective) Node {
	switch e.Kind {
	case ymodel.KindContainer:
		return newContainer(e)
	case ymodel.KindList:
		return newList(e)
	case ymodel.KindLeaf:
		return &leafNode{base: base{id: NodeIdentifier{QName: e.QName}, schema: e}}
	case ymodel.KindLeafList:
		return newLeafList(e)
	case ymodel.KindChoice:
		return newChoice(e)
	case ymodel.KindAnydata, ymodel.KindAnyxml:
		return &anydataNode{base: base{id: NodeIdentifier{QName: e.QName}, schema: e}}
	}
	return nil
}

// childOf returns the child of parent through which q is reached. Children
// added by an augment are wrapped in their augmentation.
func childOf(parent *ymodel.Effective, q ycommon.QName) Node {
	c, ok := findChild(parent, q)
	if !ok {
		return nil
	}
	if c.Augmenting() && (parent.Kind == ymodel.KindContainer || parent.Kind == ymodel.KindList) {
		for _, aug := range parent.Augmentations() {
			for _, a := range aug.SchemaTreeChildren() {
				if sameDeclaration(a, c) {
					return newAugmentation(parent, aug)
				}
			}
		}
	}
	return fromSchema(c)
}

// graftedChild returns the child of target copied from the statement s of
// one of its augments.
func graftedChild(target, s *ymodel.Effective) (*ymodel.Effective, bool) {
	for _, c := range target.SchemaTreeChildren() {
		if sameDeclaration(s, c) {
			return c, true
		}
	}
	return nil, false
}

// sameDeclaration reports whether a and b were built from the same declared
// statement. A grouping instantiated in another module rebinds the QNames of
// its copies, so the declaration is what ties a grafted child to its augment.
// Implicit statements fall back to their QName.
func sameDeclaration(a, b *ymodel.Effective) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Declared != nil || b.Declared != nil {
		return a.Declared == b.Declared
	}
	return a.QName == b.QName
}

// findChild returns the schema child of parent that is the data node q or
// the first choice, in declaration order, reaching q through its cases.
func findChild(parent *ymodel.Effective, q ycommon.QName) (*ymodel.Effective, bool) {
	if c, ok := parent.FindSchemaTreeNode(q); ok && (c.Kind.IsDataNode() || c.Kind == ymodel.KindChoice) {
		return c, true
	}
	for _, c := range parent.SchemaTreeChildren() {
		if c.Kind == ymodel.KindChoice && choiceReaches(c, q) {
			return c, true
		}
	}
	return nil, false
}

func choiceReaches(choice *ymodel.Effective, q ycommon.QName) bool {
	for _, cs := range choice.SchemaTreeChildren() {
		if cs.Kind != ymodel.KindCase {
			continue
		}
		if _, ok := findChild(cs, q); ok {
			return true
		}
	}
	return false
}
