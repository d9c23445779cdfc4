package schema

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/syssam/coredata"
)

// Type describes the readable instance properties of a struct type.
type Type struct {
	// Type is the struct type. Never a pointer.
	Type reflect.Type
	// Name is the entity name used for commands and tables.
	Name string
	// Fields are listed in declaration order, with the fields of embedded
	// structs promoted in place.
	Fields []*Field
}

// Field describes one readable property.
type Field struct {
	// Name is the Go field name.
	Name string
	// Param is the parameter name used in commands.
	Param string
	// Index is the index sequence for reflect.Value.FieldByIndex.
	Index []int
	// Type is the declared field type.
	Type reflect.Type
	// BackReference marks a structural back-reference to the owning object.
	BackReference bool
	// Excluded fields are walked but never serialized.
	Excluded bool
}

// Iterable reports whether the declared type is a slice, array or map.
func (f *Field) Iterable() bool {
	return IsIterable(f.Type)
}

// Value returns the field value of the struct v. The boolean is false when
// the field is promoted through a nil embedded pointer.
func (f *Field) Value(v reflect.Value) (reflect.Value, bool) {
	fv, err := v.FieldByIndexErr(f.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return fv, true
}

// Field returns the field with the given Go name, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

var cache sync.Map // reflect.Type -> *Type

// Inspect returns the description of the struct type t. Pointer types are
// dereferenced. Descriptions are cached per type.
func Inspect(t reflect.Type) (*Type, error) {
	if t == nil {
		return nil, coredata.NewInvalidArgumentError("type")
	}
	t = Indirect(t)
	if t.Kind() != reflect.Struct {
		return nil, coredata.NewInvalidArgumentErrorf("type", "%s is not a struct", t)
	}
	if st, ok := cache.Load(t); ok {
		return st.(*Type), nil
	}
	st, err := inspect(t)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(t, st)
	return actual.(*Type), nil
}

// MustInspect is like Inspect but panics on error. It is intended for
// package-level variables of known struct types.
func MustInspect(t reflect.Type) *Type {
	st, err := Inspect(t)
	if err != nil {
		panic(err)
	}
	return st
}

func inspect(t reflect.Type) (*Type, error) {
	st := &Type{Type: t, Name: t.Name()}
	var annotations map[string]Annotation
	if a, ok := reflect.New(t).Interface().(Annotator); ok {
		annotations = make(map[string]Annotation)
		for _, ant := range a.Annotations() {
			if ant.Field == "" {
				return nil, coredata.NewConfigError("Annotation", t.Name(), "field name is required")
			}
			if prev, ok := annotations[ant.Field]; ok {
				ant = prev.Merge(ant)
			}
			annotations[ant.Field] = ant
		}
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !readable(t, sf) {
			continue
		}
		f := &Field{
			Name:  sf.Name,
			Param: sf.Name,
			Index: sf.Index,
			Type:  sf.Type,
		}
		if err := parseTag(f, sf.Tag.Get(TagName)); err != nil {
			return nil, fmt.Errorf("coredata: %s.%s: %w", t.Name(), sf.Name, err)
		}
		if ant, ok := annotations[sf.Name]; ok {
			ant.apply(f)
			delete(annotations, sf.Name)
		}
		st.Fields = append(st.Fields, f)
	}
	for name := range annotations {
		return nil, coredata.NewConfigError("Annotation", name, fmt.Sprintf("%s has no readable field with this name", t.Name()))
	}
	return st, nil
}

// readable reports whether the struct field is an exported instance
// property. Embedded structs are skipped in favor of their promoted fields.
func readable(t reflect.Type, sf reflect.StructField) bool {
	if sf.Anonymous && Indirect(sf.Type).Kind() == reflect.Struct {
		return false
	}
	if !sf.IsExported() {
		return false
	}
	switch sf.Type.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}
	// Fields promoted through an unexported embedded pointer are read-only
	// to reflection and can not be read.
	cur := t
	for _, i := range sf.Index[:len(sf.Index)-1] {
		ef := cur.Field(i)
		if !ef.IsExported() && ef.Type.Kind() == reflect.Pointer {
			return false
		}
		cur = Indirect(ef.Type)
	}
	return true
}

// Indirect strips all pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// IsIterable reports whether values of t are traversed element by element.
func IsIterable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}
