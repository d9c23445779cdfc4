package serializer

import (
	"encoding"
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Epoch is the reference date of Core Data timestamps.
var Epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Converter encodes a scalar value as text. The value has exactly the type
// the converter is registered for.
type Converter func(value any) string

// Converters maps scalar types to their converter.
type Converters map[reflect.Type]Converter

// Clone returns a copy of c.
func (c Converters) Clone() Converters {
	return maps.Clone(c)
}

// DefaultValueConverters is the template every Serializer copies at
// construction. Changes to a Serializer's ValueConverters never reach it.
var DefaultValueConverters = Converters{
	reflect.TypeFor[time.Time](): func(v any) string {
		return ConvertTime(v.(time.Time))
	},
	reflect.TypeFor[bool](): func(v any) string {
		return ConvertBool(v.(bool))
	},
	reflect.TypeFor[uuid.UUID](): func(v any) string {
		return v.(uuid.UUID).String()
	},
}

// ConvertTime returns the whole seconds between Epoch and t.
func ConvertTime(t time.Time) string {
	return strconv.FormatInt(t.Unix()-Epoch.Unix(), 10)
}

// ConvertBool returns "1" for true and "0" for false.
func ConvertBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// convert encodes v as text. Registered converters take precedence over the
// default text form.
func (s *Serializer) convert(v reflect.Value) string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return ""
	}
	if c, ok := s.ValueConverters[v.Type()]; ok {
		return c(v.Interface())
	}
	return format(v)
}

// format returns the default text form of v. Named integer types are
// enumerations and encode as their ordinal, even if they implement
// fmt.Stringer. Structs without a text form encode as "".
func format(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return ConvertBool(v.Bool())
	case reflect.String:
		return v.String()
	}
	if !v.CanInterface() {
		return ""
	}
	x := v.Interface()
	if v.CanAddr() {
		// Pick up methods declared on the pointer receiver.
		x = v.Addr().Interface()
	}
	switch x := x.(type) {
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b)
		}
	case fmt.Stringer:
		return x.String()
	}
	if v.Kind() == reflect.Struct {
		return ""
	}
	return fmt.Sprint(v.Interface())
}
