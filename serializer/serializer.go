package serializer

import (
	"iter"
	"log/slog"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/syssam/coredata"
	"github.com/syssam/coredata/dialect"
	"github.com/syssam/coredata/graph"
	"github.com/syssam/coredata/internal/identity"
	"github.com/syssam/coredata/keyspace"
	"github.com/syssam/coredata/schema"
)

// DefaultIgnoredTypes are never nodes. Pointers to them are scalars.
var DefaultIgnoredTypes = []reflect.Type{
	reflect.TypeFor[string](),
	reflect.TypeFor[time.Time](),
}

// Serializer turns the object graph of a root value into insert commands.
//
// The exported fields take effect on the next Refresh. A Serializer is not
// safe for concurrent use.
type Serializer struct {
	// IgnoredTypes are skipped during the walk. It starts as a copy of
	// DefaultIgnoredTypes.
	IgnoredTypes []reflect.Type
	// IgnoredNames are skipped like IgnoredTypes, matched by type name.
	IgnoredNames []string
	// IgnoreRoot leaves the root out of the commands.
	IgnoreRoot bool
	// ValueConverters starts as a copy of DefaultValueConverters.
	ValueConverters Converters

	root    any
	graph   *graph.Graph
	keys    *keyspace.Keyspace
	nodes   []*graph.Node
	types   []reflect.Type
	dialect dialect.Dialect
	logger  *slog.Logger
}

// New returns a Serializer for root, walked once with the given options.
func New(root any, opts ...Option) (*Serializer, error) {
	if root == nil {
		return nil, coredata.NewInvalidArgumentError("root")
	}
	g, err := graph.New(root)
	if err != nil {
		return nil, err
	}
	s := &Serializer{
		IgnoredTypes:    slices.Clone(DefaultIgnoredTypes),
		ValueConverters: DefaultValueConverters.Clone(),
		root:            root,
		graph:           g,
		keys:            keyspace.New(),
		dialect:         dialect.CoreData,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh walks the graph again with the current settings and reassigns
// every key. Changes made to the objects since the last walk are picked up.
func (s *Serializer) Refresh() error {
	s.graph.IgnoredTypes = slices.Clone(s.IgnoredTypes)
	s.graph.IgnoredNames = slices.Clone(s.IgnoredNames)
	s.graph.IgnoreRoot = s.IgnoreRoot
	s.graph.IncludeStrings = false
	s.graph.IncludeValueTypes = false

	nodes, err := s.graph.Nodes()
	if err != nil {
		return err
	}
	s.keys.Clear()
	s.types = s.types[:0]
	for _, n := range nodes {
		if _, err := s.keys.Add(n.Object); err != nil {
			return err
		}
		if !slices.Contains(s.types, n.Type) {
			s.types = append(s.types, n.Type)
		}
	}
	s.nodes = nodes
	s.logger.Debug("coredata: graph refreshed",
		slog.Int("nodes", len(nodes)),
		slog.Int("types", len(s.types)),
		slog.Bool("ignore_root", s.IgnoreRoot),
	)
	return nil
}

// Root returns the value the Serializer was created for.
func (s *Serializer) Root() any { return s.root }

// Graph returns the walker. Its configuration is overwritten by Refresh.
func (s *Serializer) Graph() *graph.Graph { return s.graph }

// Nodes returns the objects of the last walk, each a pointer.
func (s *Serializer) Nodes() []any {
	objects := make([]any, len(s.nodes))
	for i, n := range s.nodes {
		objects[i] = n.Object
	}
	return objects
}

// Types returns the distinct struct types of the last walk.
func (s *Serializer) Types() []reflect.Type {
	return slices.Clone(s.types)
}

// Key returns the key assigned to obj by the last walk.
func (s *Serializer) Key(obj any) (int64, error) {
	return s.keys.GetKeyFor(obj)
}

// Commands yields one command per node, in walk order. Iteration stops at
// the first error.
func (s *Serializer) Commands() iter.Seq2[coredata.Command, error] {
	return func(yield func(coredata.Command, error) bool) {
		for _, n := range s.nodes {
			cmd, err := s.command(n)
			if !yield(cmd, err) || err != nil {
				return
			}
		}
	}
}

// CommandList returns all commands.
func (s *Serializer) CommandList() ([]coredata.Command, error) {
	cmds := make([]coredata.Command, 0, len(s.nodes))
	for cmd, err := range s.Commands() {
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// SQL renders all commands as a script in the configured dialect.
func (s *Serializer) SQL() (string, error) {
	cmds, err := s.CommandList()
	if err != nil {
		return "", err
	}
	return dialect.Script(s.dialect, cmds, s.typeNames()), nil
}

// Dialect returns the dialect SQL renders with.
func (s *Serializer) Dialect() dialect.Dialect { return s.dialect }

func (s *Serializer) typeNames() []string {
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.Name()
	}
	return names
}

// Fields returns the fields of the struct type t that commands carry as
// parameters, in declaration order. Excluded fields are dropped, as are
// iterable fields without a converter.
func (s *Serializer) Fields(t reflect.Type) ([]*schema.Field, error) {
	st, err := schema.Inspect(t)
	if err != nil {
		return nil, err
	}
	fields := make([]*schema.Field, 0, len(st.Fields))
	for _, f := range st.Fields {
		if f.Excluded || (f.Iterable() && !s.scalar(f.Type)) {
			continue
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (s *Serializer) command(n *graph.Node) (coredata.Command, error) {
	st, err := schema.Inspect(n.Type)
	if err != nil {
		return coredata.Command{}, err
	}
	fields, err := s.Fields(n.Type)
	if err != nil {
		return coredata.Command{}, err
	}
	elem := reflect.ValueOf(n.Object).Elem()
	params := make([]coredata.Param, 0, len(fields))
	for _, f := range fields {
		value, err := s.param(n, f, elem)
		if err != nil {
			return coredata.Command{}, err
		}
		params = append(params, coredata.Param{Name: f.Param, Value: value})
	}
	return coredata.NewCommand(st.Name, params...), nil
}

// param encodes one field of the node's struct value elem.
func (s *Serializer) param(n *graph.Node, f *schema.Field, elem reflect.Value) (string, error) {
	if f.BackReference {
		// The walk parent wins over whatever the field holds.
		parent, err := s.graph.ResolveBackReference(n.Object)
		if err != nil {
			return "", err
		}
		return s.foreignKey(parent), nil
	}
	v, ok := f.Value(elem)
	if !ok {
		return "", nil
	}
	v = identity.Unwrap(v)
	if !v.IsValid() {
		return "", nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return "", nil
		}
	}
	if identity.IsReference(v) && s.keys.Contains(v.Interface()) {
		return s.foreignKey(v.Interface()), nil
	}
	if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct && !s.scalar(v.Elem().Type()) {
		// A reference to the ignored root or an ignored type has no key.
		return "", nil
	}
	return s.convert(v), nil
}

// foreignKey returns the key of obj, or "" if obj has none.
func (s *Serializer) foreignKey(obj any) string {
	if obj == nil {
		return ""
	}
	key, err := s.keys.GetKeyFor(obj)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(key, 10)
}

// scalar reports whether values of t are encoded by a converter even though
// t is iterable.
func (s *Serializer) scalar(t reflect.Type) bool {
	_, ok := s.ValueConverters[t]
	return ok
}
