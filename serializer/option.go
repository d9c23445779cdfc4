package serializer

import (
	"log/slog"
	"reflect"

	"github.com/syssam/coredata"
	"github.com/syssam/coredata/dialect"
)

// Option configures a Serializer.
type Option func(*Serializer) error

// WithIgnoreRoot leaves the root object out of the commands. The root is
// still walked to discover its children.
func WithIgnoreRoot() Option {
	return func(s *Serializer) error {
		s.IgnoreRoot = true
		return nil
	}
}

// WithIgnoredTypes adds types to skip during the walk, together with
// everything reachable only through them.
func WithIgnoredTypes(types ...reflect.Type) Option {
	return func(s *Serializer) error {
		for _, t := range types {
			if t == nil {
				return coredata.NewConfigError("IgnoredTypes", nil, "type cannot be nil")
			}
		}
		s.IgnoredTypes = append(s.IgnoredTypes, types...)
		return nil
	}
}

// WithConverter registers a converter for values of type t, replacing the
// default one if any.
func WithConverter(t reflect.Type, c Converter) Option {
	return func(s *Serializer) error {
		if t == nil {
			return coredata.NewConfigError("ValueConverters", nil, "type cannot be nil")
		}
		if c == nil {
			return coredata.NewConfigError("ValueConverters", t, "converter cannot be nil")
		}
		s.ValueConverters[t] = c
		return nil
	}
}

// WithDialect sets the dialect SQL renders with. The default is
// dialect.CoreData.
func WithDialect(d dialect.Dialect) Option {
	return func(s *Serializer) error {
		if d == nil {
			return coredata.NewConfigError("Dialect", nil, "dialect cannot be nil")
		}
		s.dialect = d
		return nil
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Serializer) error {
		if l == nil {
			return coredata.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		s.logger = l
		return nil
	}
}

// WithConfig applies a loaded configuration file.
func WithConfig(cfg *Config) Option {
	return func(s *Serializer) error {
		if cfg == nil {
			return coredata.NewConfigError("Config", nil, "config cannot be nil")
		}
		d, err := dialect.ByName(cfg.Dialect)
		if err != nil {
			return err
		}
		s.dialect = d
		s.IgnoreRoot = s.IgnoreRoot || cfg.IgnoreRoot
		s.IgnoredNames = append(s.IgnoredNames, cfg.IgnoredTypes...)
		return nil
	}
}
