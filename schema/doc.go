// Package schema describes the readable properties of Go struct types for
// the exporter.
//
// The exporter never calls methods on user objects. Everything it reads is
// an exported struct field, listed by Inspect in declaration order:
//
//	type Worker struct {
//		Name              string
//		Salary            float32
//		CurrentDepartment *Department
//		Friends           []*Worker
//		Password          string `coredata:"-"`
//	}
//
//	st, err := schema.Inspect(reflect.TypeFor[Worker]())
//	for _, f := range st.Fields {
//		fmt.Println(f.Name, f.Type, f.Iterable())
//	}
//
// # Annotations
//
// Two annotations change how a field is serialized:
//
//   - BackReference: the field points at the structural parent of the
//     object. Its value is resolved from the walk, not read from the field.
//   - Exclude: the field never appears in a command.
//
// They are set with the coredata struct tag:
//
//	Shop     *Shop  `coredata:"backref"`
//	Password string `coredata:"-"`
//	Title    string `coredata:"ProductTitle,backref"`
//
// or in code, by implementing Annotator:
//
//	func (Owner) Annotations() []schema.Annotation {
//		return []schema.Annotation{schema.BackReference("Shop")}
//	}
//
// # Embedding
//
// Fields of embedded structs are promoted into the outer type, the same way
// encoding/json flattens them. Fields promoted through a nil embedded
// pointer read as absent.
package schema
