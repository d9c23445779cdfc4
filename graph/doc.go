// Package graph walks arbitrary Go object graphs and collapses them into the
// set of distinct objects they reference.
//
// # Nodes
//
// A node is an object with reference identity: the value a non-nil pointer
// to a struct points to. Identity is the pair of type and address, so two
// structs with equal fields are distinct nodes and an Equal method on the type
// is never consulted:
//
//	g, err := graph.New(factory)
//	if err != nil {
//	    return err
//	}
//	objects, err := g.Collapse() // *Factory, *Worker, *Department, ...
//
// # Traversal
//
// Exported fields are read in declaration order, including fields promoted
// from embedded structs. Methods are never called.
//
//   - Slices, arrays and maps are traversed element by element (map keys
//     and values both), but are never nodes themselves. Their elements get
//     the nearest enclosing node as parent.
//   - Pointers to non-struct values are dereferenced.
//   - Interfaces are unwrapped to their dynamic value.
//   - Strings are opaque unless IncludeStrings is set.
//   - Structs and basic scalars held by value are skipped unless
//     IncludeValueTypes is set, in which case each becomes a node boxed
//     behind a pointer.
//   - Funcs, channels and unsafe pointers are skipped.
//
// An object reached a second time is not walked again, which bounds the
// walk on cyclic graphs.
//
// # Back-references
//
// The walk records the parent an object was first reached from, plus any
// other parent that reaches it from a separate branch. Edges pointing back
// up the path, such as a back-reference holding its real parent or an
// object listing itself, add nothing. ResolveBackReference returns the
// single parent, or an ambiguous error when the object is shared:
//
//	parent, err := g.ResolveBackReference(product)
//	switch {
//	case coredata.IsAmbiguous(err):
//	    // shared by two owners
//	case err != nil:
//	    return err
//	}
package graph
