// Package keyspace assigns per-type integer primary keys to object
// instances by reference identity.
//
// Each runtime type owns an independent counter starting at 1, so two
// unrelated objects of different types may both hold key 1:
//
//	ks := keyspace.New()
//	ks.Add(arthur)   // 1
//	ks.Add(marvin)   // 2
//	ks.Add(sales)    // 1
//	ks.Add(arthur)   // 1 again
//
// Keys are never derived from an object's contents. Two structs with equal
// fields at different addresses receive different keys.
package keyspace

import (
	"reflect"
	"unsafe"

	"github.com/syssam/coredata"
	"github.com/syssam/coredata/internal/identity"
)

// partition holds the keys of one runtime type.
type partition struct {
	keys map[unsafe.Pointer]int64
	max  int64
}

// Keyspace maps object identities to keys. The zero value is not usable;
// call New. A Keyspace is not safe for concurrent use.
type Keyspace struct {
	parts map[reflect.Type]*partition
	order []reflect.Type
	size  int
}

// New returns an empty Keyspace.
func New() *Keyspace {
	return &Keyspace{parts: make(map[reflect.Type]*partition)}
}

// Add registers item under its runtime type and returns its key. Adding an
// already registered item returns the existing key.
func (k *Keyspace) Add(item any) (int64, error) {
	h, err := handleOf(item)
	if err != nil {
		return 0, err
	}
	p, ok := k.parts[h.Type]
	if !ok {
		p = &partition{keys: make(map[unsafe.Pointer]int64)}
		k.parts[h.Type] = p
		k.order = append(k.order, h.Type)
	}
	if key, ok := p.keys[h.Ptr]; ok {
		return key, nil
	}
	p.max++
	p.keys[h.Ptr] = p.max
	k.size++
	return p.max, nil
}

// GetKeyFor returns the key previously assigned to item. It fails with a
// *coredata.NotFoundError of kind NotFoundType if no instance of the type
// was added, and of kind NotFoundInstance if this instance was not.
func (k *Keyspace) GetKeyFor(item any) (int64, error) {
	h, err := handleOf(item)
	if err != nil {
		return 0, err
	}
	label := typeLabel(h.Type)
	p, ok := k.parts[h.Type]
	if !ok {
		return 0, coredata.NewNotFoundError(coredata.NotFoundType, label)
	}
	key, ok := p.keys[h.Ptr]
	if !ok {
		return 0, coredata.NewNotFoundError(coredata.NotFoundInstance, label)
	}
	return key, nil
}

// Contains reports whether item was added. A nil or non-reference item is
// never contained.
func (k *Keyspace) Contains(item any) bool {
	h, err := handleOf(item)
	if err != nil {
		return false
	}
	p, ok := k.parts[h.Type]
	if !ok {
		return false
	}
	_, ok = p.keys[h.Ptr]
	return ok
}

// Clear discards all keys. Subsequent adds restart at 1 for every type.
func (k *Keyspace) Clear() {
	k.parts = make(map[reflect.Type]*partition)
	k.order = nil
	k.size = 0
}

// Max returns the highest key assigned to items of runtime type t, or 0.
func (k *Keyspace) Max(t reflect.Type) int64 {
	if p, ok := k.parts[t]; ok {
		return p.max
	}
	return 0
}

// Types returns the runtime types with at least one key, in the order
// their first instance was added.
func (k *Keyspace) Types() []reflect.Type {
	return append([]reflect.Type(nil), k.order...)
}

// Len returns the number of distinct identities across all types.
func (k *Keyspace) Len() int {
	return k.size
}

func handleOf(item any) (identity.Handle, error) {
	if item == nil {
		return identity.Handle{}, coredata.NewInvalidArgumentError("item")
	}
	v := reflect.ValueOf(item)
	h, ok := identity.Of(v)
	if ok {
		return h, nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return identity.Handle{}, coredata.NewInvalidArgumentError("item")
	default:
		return identity.Handle{}, coredata.NewInvalidArgumentErrorf("item", "%s has no reference identity", v.Type())
	}
}

// typeLabel names t for error messages, looking through pointers.
func typeLabel(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
