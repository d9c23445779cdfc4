package graph

import (
	"reflect"
	"slices"

	"github.com/syssam/coredata"
	"github.com/syssam/coredata/internal/identity"
	"github.com/syssam/coredata/schema"
)

// Node is one object discovered by a walk.
type Node struct {
	// Object is a pointer to the discovered value.
	Object any
	// Type is the type Object points to.
	Type reflect.Type
	// Parent is the nearest enclosing node the object was first reached
	// from, or nil for the root.
	Parent any

	handle identity.Handle
}

// Graph walks an object graph. The exported fields configure the next
// walk and may be changed between walks. A Graph is not safe for
// concurrent use.
type Graph struct {
	// IgnoredTypes are skipped during traversal, together with everything
	// reachable only through them. Pointer types are normalized, so
	// ignoring Worker also ignores *Worker.
	IgnoredTypes []reflect.Type

	// IgnoredNames are matched against reflect.Type.Name and behave like
	// IgnoredTypes.
	IgnoredNames []string

	// IncludeValueTypes walks and emits struct values and basic scalars
	// held by value. Each such value becomes a node boxed behind a pointer.
	IncludeValueTypes bool

	// IncludeStrings traverses text as a sequence of runes. Runes are
	// value types, so they only become nodes with IncludeValueTypes.
	IncludeStrings bool

	// IgnoreRoot walks the root but leaves it out of the node set.
	IgnoreRoot bool

	root reflect.Value
	last *walk
}

// New returns a Graph for root. A struct root held by value is copied once
// behind a pointer, so it has a stable identity across walks.
func New(root any) (*Graph, error) {
	v := identity.Unwrap(reflect.ValueOf(root))
	if !v.IsValid() {
		return nil, coredata.NewInvalidArgumentError("root")
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil, coredata.NewInvalidArgumentError("root")
		}
	case reflect.Struct:
		v = identity.Box(v)
	}
	return &Graph{root: v}, nil
}

// Root returns the object the graph was created for.
func (g *Graph) Root() any {
	return g.root.Interface()
}

// Collapse walks the graph and returns every node object, each a pointer.
// Every call walks again, so changes made to the objects since the last
// walk are picked up. The order is stable for an unchanged graph but
// callers should rely only on membership and count.
func (g *Graph) Collapse() ([]any, error) {
	w, err := g.rewalk()
	if err != nil {
		return nil, err
	}
	objects := make([]any, len(w.nodes))
	for i, n := range w.nodes {
		objects[i] = n.Object
	}
	return objects, nil
}

// Nodes is like Collapse but returns the nodes with their type and parent.
func (g *Graph) Nodes() ([]*Node, error) {
	w, err := g.rewalk()
	if err != nil {
		return nil, err
	}
	return slices.Clone(w.nodes), nil
}

// ContainsNode reports whether candidate is a node of the graph, by
// identity. Queries reuse the last walk unless the configuration changed,
// so objects mutated since then are only seen after Collapse or Nodes
// walks again.
func (g *Graph) ContainsNode(candidate any) (bool, error) {
	w, err := g.walk()
	if err != nil {
		return false, err
	}
	h, ok := identity.Of(reflect.ValueOf(candidate))
	if !ok {
		return false, nil
	}
	_, ok = w.index[h]
	return ok, nil
}

// ResolveBackReference returns the direct parent of candidate: the nearest
// enclosing non-iterable object it was reached from. The root resolves to
// nil. It fails with a not-found error if candidate was never visited, and
// with an ambiguous error if it was reached from more than one distinct
// parent. Like ContainsNode it answers from the last walk.
func (g *Graph) ResolveBackReference(candidate any) (any, error) {
	if candidate == nil {
		return nil, coredata.NewInvalidArgumentError("candidate")
	}
	w, err := g.walk()
	if err != nil {
		return nil, err
	}
	v := reflect.ValueOf(candidate)
	h, ok := identity.Of(v)
	if !ok {
		return nil, coredata.NewNotFoundError(coredata.NotFoundNode, label(v.Type()))
	}
	parents, ok := w.parents[h]
	switch {
	case !ok:
		return nil, coredata.NewNotFoundError(coredata.NotFoundNode, label(h.Type))
	case len(parents) > 1:
		return nil, coredata.NewAmbiguousError(label(h.Type), len(parents))
	}
	if parents[0].Ptr == nil {
		return nil, nil
	}
	return w.objects[parents[0]], nil
}

// config is the part of Graph that determines a walk's result.
type config struct {
	ignoredTypes      []reflect.Type
	ignoredNames      []string
	includeValueTypes bool
	includeStrings    bool
	ignoreRoot        bool
}

func (g *Graph) config() config {
	types := make([]reflect.Type, 0, len(g.IgnoredTypes))
	for _, t := range g.IgnoredTypes {
		if t != nil {
			types = append(types, schema.Indirect(t))
		}
	}
	return config{
		ignoredTypes:      types,
		ignoredNames:      slices.Clone(g.IgnoredNames),
		includeValueTypes: g.IncludeValueTypes,
		includeStrings:    g.IncludeStrings,
		ignoreRoot:        g.IgnoreRoot,
	}
}

func (c config) equal(o config) bool {
	return slices.Equal(c.ignoredTypes, o.ignoredTypes) &&
		slices.Equal(c.ignoredNames, o.ignoredNames) &&
		c.includeValueTypes == o.includeValueTypes &&
		c.includeStrings == o.includeStrings &&
		c.ignoreRoot == o.ignoreRoot
}

func (c config) ignored(t reflect.Type) bool {
	t = schema.Indirect(t)
	return slices.Contains(c.ignoredTypes, t) || (t.Name() != "" && slices.Contains(c.ignoredNames, t.Name()))
}

// walk returns the result of the last walk, walking again if the
// configuration changed since.
func (g *Graph) walk() (*walk, error) {
	if g.last != nil && g.last.cfg.equal(g.config()) {
		return g.last, nil
	}
	return g.rewalk()
}

func (g *Graph) rewalk() (*walk, error) {
	cfg := g.config()
	w := &walk{
		cfg:     cfg,
		index:   make(map[identity.Handle]*Node),
		visited: make(map[identity.Handle]struct{}),
		parents: make(map[identity.Handle][]identity.Handle),
		objects: make(map[identity.Handle]any),
		path:    make(map[identity.Handle]struct{}),
	}
	if err := w.visit(g.root, nil, true, false); err != nil {
		return nil, err
	}
	g.last = w
	return w, nil
}

func label(t reflect.Type) string {
	t = schema.Indirect(t)
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
