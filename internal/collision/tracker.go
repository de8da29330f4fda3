package collision

import (
	"fmt"
	"path"

	"github.com/arloliu/annfix/errs"
)

// NodeKind distinguishes the two node kinds of a hierarchical store.
type NodeKind uint8

const (
	KindGroup NodeKind = iota + 1
	KindArray
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Tracker records the node paths written to a store and rejects paths that
// would silently overwrite an existing node or hang a node below an array.
//
// Paths are slash separated and relative to the store root; the root group
// itself is the empty path.
type Tracker struct {
	nodes map[string]NodeKind
	order []string
}

// NewTracker creates a tracker that knows only the root group.
func NewTracker() *Tracker {
	t := &Tracker{nodes: make(map[string]NodeKind)}
	t.nodes[""] = KindGroup

	return t
}

// TrackGroup registers a group node at p.
func (t *Tracker) TrackGroup(p string) error {
	return t.track(p, KindGroup)
}

// TrackArray registers an array node at p.
func (t *Tracker) TrackArray(p string) error {
	return t.track(p, KindArray)
}

func (t *Tracker) track(p string, kind NodeKind) error {
	if p == "" {
		return fmt.Errorf("%w: root group", errs.ErrNodeExists)
	}
	if existing, ok := t.nodes[p]; ok {
		return fmt.Errorf("%w: %s %q", errs.ErrNodeExists, existing, p)
	}

	parent := path.Dir(p)
	if parent == "." {
		parent = ""
	}
	switch t.nodes[parent] {
	case KindGroup:
	case KindArray:
		return fmt.Errorf("%w: parent of %q is an array", errs.ErrNodeExists, p)
	default:
		return fmt.Errorf("%w: parent group of %q", errs.ErrNodeNotFound, p)
	}

	t.nodes[p] = kind
	t.order = append(t.order, p)

	return nil
}

// Kind returns the kind of the node at p and whether it is tracked.
func (t *Tracker) Kind(p string) (NodeKind, bool) {
	k, ok := t.nodes[p]
	return k, ok
}

// Paths returns the tracked node paths in the order they were registered,
// excluding the root.
func (t *Tracker) Paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)

	return out
}

// Count returns the number of tracked nodes, excluding the root.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Reset forgets every node except the root group.
func (t *Tracker) Reset() {
	clear(t.nodes)
	t.nodes[""] = KindGroup
	t.order = t.order[:0]
}
