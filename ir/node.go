// Package ir holds the document tree produced by a configuration parse.
package ir

// Kind is the closed set of node types.
type Kind int

const (
	MapKind Kind = iota
	ListKind
	StringKind
	NumberKind
	BoolKind
)

var kindNames = [...]string{
	MapKind:    "Map",
	ListKind:   "List",
	StringKind: "String",
	NumberKind: "Number",
	BoolKind:   "Boolean",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Entry is one key/value pair of a Map node. Entries preserve source
// order; duplicate keys are permitted and simply appended.
type Entry struct {
	Key string
	Val *Node
}

// Node is one value of the document tree. Nodes are immutable after
// construction; a node reachable through more than one path (via alias
// or merge inheritance) has refs > 0.
type Node struct {
	Kind    Kind
	Entries []Entry // MapKind
	Items   []*Node // ListKind
	Str     string  // StringKind
	Num     float64 // NumberKind
	Bool    bool    // BoolKind

	// refs counts owners beyond the structural parent; 0 means
	// uniquely owned. The unique owner never tears the node down while
	// refs > 0.
	refs int
}

func NewMap() *Node              { return &Node{Kind: MapKind} }
func NewList() *Node             { return &Node{Kind: ListKind} }
func FromString(v string) *Node  { return &Node{Kind: StringKind, Str: v} }
func FromNumber(v float64) *Node { return &Node{Kind: NumberKind, Num: v} }
func FromBool(v bool) *Node      { return &Node{Kind: BoolKind, Bool: v} }

// Refs returns the count of additional owners of n.
func (n *Node) Refs() int { return n.refs }

// Retain records an additional owner of n.
func (n *Node) Retain() { n.refs++ }

// Release gives up one ownership of n. The last owner's release tears
// the node down post-order: children are released before the node's
// own payload is dropped, so a shared subtree is destroyed exactly
// once, by whichever owner releases it last.
func (n *Node) Release() {
	if n == nil {
		return
	}
	if n.refs > 0 {
		n.refs--
		return
	}
	switch n.Kind {
	case MapKind:
		for _, e := range n.Entries {
			e.Val.Release()
		}
		n.Entries = nil
	case ListKind:
		for _, item := range n.Items {
			item.Release()
		}
		n.Items = nil
	}
}

// DiscardShallow drops a consumed map wrapper without touching its
// entries. Used when a merge moves a uniquely owned source map's
// entries into another map: the wrapper is torn down immediately, the
// moved entries keep their single owner.
func (n *Node) DiscardShallow() {
	n.Entries = nil
	n.Items = nil
}

// Add appends a key/value pair to a Map node.
func (n *Node) Add(key string, val *Node) {
	n.Entries = append(n.Entries, Entry{Key: key, Val: val})
}

// Append appends an item to a List node.
func (n *Node) Append(item *Node) {
	n.Items = append(n.Items, item)
}

// Get returns the value for key in a Map node, or nil when the node is
// not a map or has no such key. The first matching entry wins.
func Get(n *Node, key string) *Node {
	if n == nil || n.Kind != MapKind {
		return nil
	}
	for i := range n.Entries {
		if n.Entries[i].Key == key {
			return n.Entries[i].Val
		}
	}
	return nil
}

// Visit walks the tree rooted at n, calling f pre- and post-order.
// Returning false from a pre-order call skips the node's children.
func (n *Node) Visit(f func(n *Node, post bool) bool) {
	if n == nil {
		return
	}
	if !f(n, false) {
		f(n, true)
		return
	}
	switch n.Kind {
	case MapKind:
		for _, e := range n.Entries {
			e.Val.Visit(f)
		}
	case ListKind:
		for _, item := range n.Items {
			item.Visit(f)
		}
	}
	f(n, true)
}
