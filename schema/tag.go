package schema

import (
	"fmt"
	"strings"
)

// TagName is the struct tag key read by Inspect.
//
//	type Product struct {
//		Name     string
//		Shop     *Shop  `coredata:"backref"`
//		Password string `coredata:"-"`
//		Title    string `coredata:"ProductTitle"`
//	}
const TagName = "coredata"

// Tag options.
const (
	optBackRef = "backref"
	optExclude = "-"
)

// parseTag applies a `coredata:"name,opts..."` tag to f.
func parseTag(f *Field, tag string) error {
	if tag == "" {
		return nil
	}
	if tag == optExclude {
		f.Excluded = true
		return nil
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name != "" {
		if name == optBackRef && opts == "" {
			f.BackReference = true
			return nil
		}
		f.Param = name
	}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		switch strings.TrimSpace(opt) {
		case optBackRef:
			f.BackReference = true
		case "":
		default:
			return fmt.Errorf("unknown tag option %q", opt)
		}
	}
	return nil
}

// Annotation configures a field in code. It is the programmatic
// equivalent of the struct tag.
type Annotation struct {
	// Field is the Go field name.
	Field string
	// Param overrides the parameter name.
	Param string
	// BackReference marks the field as a back-reference.
	BackReference bool
	// Exclude removes the field from commands.
	Exclude bool
}

// Annotator is implemented by struct types (with a pointer receiver or a
// value receiver) that annotate their fields without struct tags.
//
//	func (*Owner) Annotations() []schema.Annotation {
//		return []schema.Annotation{
//			schema.BackReference("Shop"),
//		}
//	}
type Annotator interface {
	Annotations() []Annotation
}

// BackReference returns an annotation marking the named field as a
// back-reference.
func BackReference(field string) Annotation {
	return Annotation{Field: field, BackReference: true}
}

// Exclude returns an annotation removing the named field from commands.
func Exclude(field string) Annotation {
	return Annotation{Field: field, Exclude: true}
}

// Rename returns an annotation overriding the parameter name of a field.
func Rename(field, param string) Annotation {
	return Annotation{Field: field, Param: param}
}

// Merge combines two annotations of the same field. Flags are or-ed and a
// non-empty Param of other wins.
func (a Annotation) Merge(other Annotation) Annotation {
	if other.Param != "" {
		a.Param = other.Param
	}
	a.BackReference = a.BackReference || other.BackReference
	a.Exclude = a.Exclude || other.Exclude
	return a
}

func (a Annotation) apply(f *Field) {
	if a.Param != "" {
		f.Param = a.Param
	}
	if a.BackReference {
		f.BackReference = true
	}
	if a.Exclude {
		f.Excluded = true
	}
}
