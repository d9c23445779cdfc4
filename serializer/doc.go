// Package serializer exports an object graph as the rows of a Core Data
// SQLite store.
//
// A Serializer walks its root once at construction, assigns every object a
// per-type key and yields one command per object:
//
//	s, err := serializer.New(factory, serializer.WithIgnoreRoot())
//	if err != nil {
//	    return err
//	}
//	for cmd, err := range s.Commands() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(cmd.ObjectName, cmd.Params)
//	}
//
// # Parameters
//
// Every exported field that is not a slice, array or map becomes one
// parameter, in declaration order:
//
//   - Fields tagged `coredata:"-"` are left out.
//   - Fields tagged `coredata:"backref"` hold the key of the object the walk
//     reached this one from, whatever the field itself points to.
//   - Nil values are empty.
//   - Objects of the walk are replaced by their key.
//   - Everything else is converted to text: by the converter registered for
//     its type, as the ordinal of a named integer type, or in its default
//     text form.
//
// Iterable types with a registered converter, such as uuid.UUID, are
// converted like any other scalar.
//
// # Converters
//
// DefaultValueConverters encode time.Time as whole seconds since Epoch
// (2001-01-01 UTC), bool as "1" or "0" and uuid.UUID in its canonical form.
// Each Serializer holds its own copy:
//
//	s.ValueConverters[reflect.TypeFor[Money]()] = func(v any) string {
//	    return fmt.Sprintf("%.2f", v.(Money).Amount)
//	}
//	err := s.Refresh()
//
// # Output
//
// SQL renders the commands as an SQLite script in a dialect.Dialect.
// EncodePayload writes the same rows as msgpack.
package serializer
