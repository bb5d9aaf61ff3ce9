package combine

import (
	"context"
	"fmt"
	"sync"

	"github.com/lguimbarda/min-data/data/core"
)

// MismatchMode is the policy governing zip behavior when the combined
// streams have unequal lengths.
type MismatchMode int

const (
	// MismatchFail raises an error naming the element index at which one
	// stream was exhausted while others were not. This is the default.
	MismatchFail MismatchMode = iota

	// MismatchShortest terminates the whole zip as soon as any stream is
	// exhausted.
	MismatchShortest

	// MismatchLongest continues until every stream is exhausted; exhausted
	// streams contribute nil in their structural position.
	MismatchLongest
)

// Node is one vertex of the container shape passed to Zip: either a Leaf
// holding an iterator, a List of child nodes, or a Dict of named child
// nodes. The shape is fixed at construction time and mirrored exactly in
// every emitted element (values, []any, and map[string]any respectively).
type Node interface {
	zipNode()
}

// Leaf wraps an iterator as a zip shape leaf. Use NewLeaf to adapt a typed
// iterator.
type Leaf struct {
	It core.Iterator[any]
}

func (*Leaf) zipNode() {}

// NewLeaf adapts a typed iterator into a zip leaf.
func NewLeaf[T any](it core.Iterator[T]) *Leaf {
	return &Leaf{It: erase[T](it)}
}

// erase converts an Iterator[T] into an Iterator[any].
func erase[T any](it core.Iterator[T]) core.Iterator[any] {
	return core.Func[any](func(ctx context.Context) (core.Result[any], error) {
		res, err := it.Next(ctx)
		if err != nil {
			return core.Done[any](), err
		}
		if res.IsDone() {
			return core.Done[any](), nil
		}
		return core.Ok[any](res.Value()), nil
	})
}

// List is an ordered zip shape node. Its position in emitted elements is a
// []any of the same length.
type List struct {
	Nodes []Node
}

func (*List) zipNode() {}

// Dict is a string-keyed zip shape node with a stable key order. Its
// position in emitted elements is a map[string]any with the same keys.
type Dict struct {
	Keys  []string
	Nodes map[string]Node
}

func (*Dict) zipNode() {}

// NewDict builds a Dict preserving the given insertion order of pairs.
// Panics if keys and nodes have different lengths.
func NewDict(keys []string, nodes []Node) *Dict {
	if len(keys) != len(nodes) {
		panic("NewDict keys and nodes must have the same length")
	}
	d := &Dict{Keys: keys, Nodes: make(map[string]Node, len(keys))}
	for i, k := range keys {
		d.Nodes[k] = nodes[i]
	}
	return d
}

// ZipOption configures a Zip stage.
type ZipOption func(*zipSettings)

type zipSettings struct {
	mode MismatchMode
}

// WithMismatchMode sets the policy for streams of unequal length.
func WithMismatchMode(mode MismatchMode) ZipOption {
	return func(s *zipSettings) {
		s.mode = mode
	}
}

// Zip merges the iterators at the leaves of shape into a single iterator of
// mirrored structures. Every pull issues one concurrent pull on each
// distinct non-exhausted leaf; results are reassembled in the leaf's
// structural position. A leaf occupying several positions is pulled once
// per step and its element mirrored into each of them.
//
// The shape is validated eagerly: nil nodes, leaves without an iterator,
// and cyclic container references are reported as an error before any
// iteration begins.
func Zip(shape Node, opts ...ZipOption) (core.Iterator[any], error) {
	settings := zipSettings{mode: MismatchFail}
	for _, opt := range opts {
		opt(&settings)
	}

	var occurrences []*Leaf
	if err := validate(shape, make(map[Node]bool), &occurrences); err != nil {
		return nil, err
	}

	// The same leaf may occupy several structural positions (diamond
	// sharing). Deduplicate so each distinct iterator is pulled exactly once
	// per step; every occurrence of a leaf mirrors that one element.
	var leaves []*Leaf
	indexOf := make(map[*Leaf]int, len(occurrences))
	occ := make([]int, len(occurrences))
	for i, leaf := range occurrences {
		j, ok := indexOf[leaf]
		if !ok {
			j = len(leaves)
			indexOf[leaf] = j
			leaves = append(leaves, leaf)
		}
		occ[i] = j
	}

	return core.Serialize[any](&zipIterator{
		shape:    shape,
		leaves:   leaves,
		occ:      occ,
		finished: make([]bool, len(leaves)),
		mode:     settings.mode,
	}), nil
}

// validate walks the shape, rejecting malformed nodes and cycles, and
// collects the leaves in deterministic traversal order.
func validate(node Node, visited map[Node]bool, leaves *[]*Leaf) error {
	if node == nil {
		return fmt.Errorf("zip shape contains a nil node")
	}
	if visited[node] {
		return fmt.Errorf("zip shape contains a cyclic reference")
	}
	visited[node] = true
	defer delete(visited, node)

	switch n := node.(type) {
	case *Leaf:
		if n.It == nil {
			return fmt.Errorf("zip shape contains a leaf without an iterator")
		}
		*leaves = append(*leaves, n)
		return nil
	case *List:
		for i, child := range n.Nodes {
			if err := validate(child, visited, leaves); err != nil {
				return fmt.Errorf("list element %d: %w", i, err)
			}
		}
		return nil
	case *Dict:
		for _, key := range n.Keys {
			child, ok := n.Nodes[key]
			if !ok {
				return fmt.Errorf("dict key %q has no node", key)
			}
			if err := validate(child, visited, leaves); err != nil {
				return fmt.Errorf("dict key %q: %w", key, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("zip shape contains an unknown node type %T", node)
	}
}

type zipIterator struct {
	shape  Node
	leaves []*Leaf // distinct leaves, pulled once per step each
	occ    []int   // occurrence index in traversal order -> leaves index

	// finished marks distinct leaves already seen exhausted. Only
	// MismatchLongest keeps stepping after an entry turns true.
	finished []bool
	mode     MismatchMode
	count    int // elements emitted so far
	done     bool
	failed   error
}

// leafPull is one leaf's outcome for the current step.
type leafPull struct {
	value any
	done  bool
	err   error
}

func (z *zipIterator) Next(ctx context.Context) (core.Result[any], error) {
	if z.failed != nil {
		return core.Done[any](), z.failed
	}
	if z.done {
		return core.Done[any](), nil
	}

	pulls := make([]leafPull, len(z.leaves))

	// Pull every live distinct leaf concurrently; already-exhausted leaves
	// (only possible under MismatchLongest) are not pulled again.
	var wg sync.WaitGroup
	for i, leaf := range z.leaves {
		if z.finished[i] {
			pulls[i] = leafPull{done: true}
			continue
		}
		wg.Add(1)
		go func(i int, it core.Iterator[any]) {
			defer wg.Done()
			res, err := it.Next(ctx)
			pulls[i] = leafPull{value: res.Value(), done: res.IsDone(), err: err}
		}(i, leaf.It)
	}
	wg.Wait()

	doneCount := 0
	for i := range pulls {
		if pulls[i].err != nil {
			z.failed = core.TagError(pulls[i].err)
			return core.Done[any](), z.failed
		}
		if pulls[i].done {
			z.finished[i] = true
			doneCount++
		}
	}

	switch {
	case doneCount == len(z.leaves):
		z.done = true
		return core.Done[any](), nil
	case doneCount > 0:
		switch z.mode {
		case MismatchFail:
			z.failed = core.TagError(fmt.Errorf(
				"zipped streams should have the same length; mismatched at element %d", z.count))
			return core.Done[any](), z.failed
		case MismatchShortest:
			z.done = true
			return core.Done[any](), nil
		case MismatchLongest:
			// Exhausted leaves contribute nil below.
		}
	}

	i := 0
	value := z.rebuild(z.shape, pulls, &i)
	z.count++
	return core.Ok(value), nil
}

// rebuild mirrors the shape with this step's leaf values substituted for
// iterators. The occurrence cursor i advances in the same traversal order
// used by validate; a leaf shared between positions contributes the same
// pulled element to each.
func (z *zipIterator) rebuild(node Node, pulls []leafPull, i *int) any {
	switch n := node.(type) {
	case *Leaf:
		pull := pulls[z.occ[*i]]
		*i++
		if pull.done {
			return nil
		}
		return pull.value
	case *List:
		out := make([]any, len(n.Nodes))
		for j, child := range n.Nodes {
			out[j] = z.rebuild(child, pulls, i)
		}
		return out
	case *Dict:
		out := make(map[string]any, len(n.Keys))
		for _, key := range n.Keys {
			out[key] = z.rebuild(n.Nodes[key], pulls, i)
		}
		return out
	default:
		return nil
	}
}

// ZipSlice merges same-typed iterators positionally into an iterator of
// slices. It is a typed convenience over Zip with a flat List shape.
func ZipSlice[T any](its []core.Iterator[T], opts ...ZipOption) (core.Iterator[[]T], error) {
	nodes := make([]Node, len(its))
	for i, it := range its {
		nodes[i] = NewLeaf(it)
	}
	zipped, err := Zip(&List{Nodes: nodes}, opts...)
	if err != nil {
		return nil, err
	}

	return core.Func[[]T](func(ctx context.Context) (core.Result[[]T], error) {
		res, err := zipped.Next(ctx)
		if err != nil {
			return core.Done[[]T](), err
		}
		if res.IsDone() {
			return core.Done[[]T](), nil
		}
		raw := res.Value().([]any)
		out := make([]T, len(raw))
		for i, v := range raw {
			if v != nil {
				out[i] = v.(T)
			}
		}
		return core.Ok(out), nil
	}), nil
}

// Pair holds one element from each of two zipped iterators.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip2 merges two iterators pairwise. Under MismatchLongest, an exhausted
// side contributes its zero value.
func Zip2[A, B any](a core.Iterator[A], b core.Iterator[B], opts ...ZipOption) (core.Iterator[Pair[A, B]], error) {
	zipped, err := Zip(&List{Nodes: []Node{NewLeaf(a), NewLeaf(b)}}, opts...)
	if err != nil {
		return nil, err
	}

	return core.Func[Pair[A, B]](func(ctx context.Context) (core.Result[Pair[A, B]], error) {
		res, err := zipped.Next(ctx)
		if err != nil {
			return core.Done[Pair[A, B]](), err
		}
		if res.IsDone() {
			return core.Done[Pair[A, B]](), nil
		}
		raw := res.Value().([]any)
		var pair Pair[A, B]
		if raw[0] != nil {
			pair.First = raw[0].(A)
		}
		if raw[1] != nil {
			pair.Second = raw[1].(B)
		}
		return core.Ok(pair), nil
	}), nil
}
