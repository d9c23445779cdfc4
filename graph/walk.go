package graph

import (
	"reflect"
	"slices"

	"github.com/syssam/coredata/internal/identity"
	"github.com/syssam/coredata/schema"
)

// category classifies a value for traversal.
type category int

const (
	skip     category = iota // absent, or nothing to traverse (functions, channels)
	object                   // non-nil pointer to a struct
	value                    // struct or basic scalar held by value
	iterable                 // slice, array or map
	text                     // string
)

// classify strips interfaces and pointers to non-struct values from v and
// returns its category together with the value to traverse.
func classify(v reflect.Value) (category, reflect.Value) {
	v = identity.Unwrap(v)
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return skip, v
		}
		if v.Elem().Kind() == reflect.Struct {
			return object, v
		}
		v = identity.Unwrap(v.Elem())
	}
	if !v.IsValid() {
		return skip, v
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		if v.IsNil() {
			return skip, v
		}
		return iterable, v
	case reflect.Array:
		return iterable, v
	case reflect.String:
		return text, v
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return skip, v
	default:
		return value, v
	}
}

// walk holds the result of one traversal.
type walk struct {
	cfg   config
	nodes []*Node
	// index holds the emitted nodes.
	index map[identity.Handle]*Node
	// visited also holds an ignored root.
	visited map[identity.Handle]struct{}
	// parents lists the distinct parents each object was reached from.
	// The zero handle stands for "no parent".
	parents map[identity.Handle][]identity.Handle
	objects map[identity.Handle]any
	// path holds the objects whose fields are being traversed.
	path map[identity.Handle]struct{}
}

// visit traverses v with parent as the nearest enclosing node. The root is
// never filtered by the ignore rules. back marks values held by a
// back-reference field.
func (w *walk) visit(v reflect.Value, parent *Node, root, back bool) error {
	cat, v := classify(v)
	if cat == skip {
		return nil
	}
	if !root && w.cfg.ignored(v.Type()) {
		return nil
	}
	switch cat {
	case iterable:
		return w.elements(v, parent, back)
	case text:
		if !w.cfg.includeStrings {
			return nil
		}
		for _, r := range v.String() {
			if err := w.visit(reflect.ValueOf(r), parent, false, back); err != nil {
				return err
			}
		}
		return nil
	case value:
		if !w.cfg.includeValueTypes {
			return nil
		}
		v = identity.Box(v)
	}
	return w.node(v, parent, root, back)
}

// elements traverses the elements of an iterable. The iterable itself is
// never a node, and its elements get the enclosing node as their parent.
func (w *walk) elements(v reflect.Value, parent *Node, back bool) error {
	switch v.Kind() {
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := w.visit(iter.Key(), parent, false, back); err != nil {
				return err
			}
			if err := w.visit(iter.Value(), parent, false, back); err != nil {
				return err
			}
		}
	default:
		for i := range v.Len() {
			if err := w.visit(v.Index(i), parent, false, back); err != nil {
				return err
			}
		}
	}
	return nil
}

// node registers the object p points to and traverses its fields. The
// visited check comes before any field is read, which bounds the walk on
// cyclic graphs.
//
// Meeting a visited object again adds a parent only for a cross edge from
// another branch. Edges back to the object itself or to an object still on
// the path, and values held by back-reference fields, point up the tree
// and leave its parents unchanged.
func (w *walk) node(p reflect.Value, parent *Node, root, back bool) error {
	h, _ := identity.Of(p)
	if _, ok := w.visited[h]; ok {
		if _, up := w.path[h]; !up && !back {
			w.reached(h, parent)
		}
		return nil
	}
	w.reached(h, parent)
	w.visited[h] = struct{}{}
	n := &Node{
		Object: p.Interface(),
		Type:   p.Type().Elem(),
		handle: h,
	}
	if parent != nil {
		n.Parent = parent.Object
	}
	w.objects[h] = n.Object
	if !root || !w.cfg.ignoreRoot {
		w.nodes = append(w.nodes, n)
		w.index[h] = n
	}
	if n.Type.Kind() != reflect.Struct {
		return nil
	}
	st, err := schema.Inspect(n.Type)
	if err != nil {
		return err
	}
	w.path[h] = struct{}{}
	defer delete(w.path, h)
	elem := p.Elem()
	for _, f := range st.Fields {
		fv, ok := f.Value(elem)
		if !ok {
			continue
		}
		if err := w.visit(fv, n, false, f.BackReference); err != nil {
			return err
		}
	}
	return nil
}

// reached records parent as a parent of h.
func (w *walk) reached(h identity.Handle, parent *Node) {
	var ph identity.Handle
	if parent != nil {
		ph = parent.handle
	}
	if !slices.Contains(w.parents[h], ph) {
		w.parents[h] = append(w.parents[h], ph)
	}
}
