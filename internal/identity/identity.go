// Package identity derives reference-identity handles from reflect values.
//
// A handle is the pair of a type and an address. It never depends on the
// value's contents or on any Equal method the type may define.
package identity

import (
	"reflect"
	"unsafe"
)

// Handle identifies one object instance.
type Handle struct {
	Type reflect.Type
	Ptr  unsafe.Pointer
}

// Of returns the handle of v, which must be a non-nil pointer, map or
// channel. The Type of the handle is v's own type.
//
// Distinct zero-sized variables may share an address in Go, so pointers to
// zero-sized types are not guaranteed distinct handles.
func Of(v reflect.Value) (Handle, bool) {
	if !IsReference(v) {
		return Handle{}, false
	}
	return Handle{Type: v.Type(), Ptr: v.UnsafePointer()}, true
}

// IsReference reports whether v carries reference identity.
func IsReference(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return !v.IsNil()
	default:
		return false
	}
}

// Unwrap strips interfaces from v. An interface holding nil yields the
// zero Value.
func Unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// Box returns a pointer to v. An addressable v yields its own address, so
// the same storage location always boxes to the same handle. Any other v is
// copied into a new allocation, which is a fresh identity.
func Box(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}
