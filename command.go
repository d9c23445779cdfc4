package coredata

// Param is a single named value of a Command.
type Param struct {
	Name  string `msgpack:"name"`
	Value string `msgpack:"value"`
}

// Command is one row to insert: the entity type name and its parameters
// in property declaration order. Params is exported for encoding only and
// must be treated as read-only. Every command a Serializer yields owns its
// slice, so changes never reach other commands or later iterations.
type Command struct {
	ObjectName string  `msgpack:"object"`
	Params     []Param `msgpack:"params"`
}

// NewCommand returns a Command for the given entity type name.
func NewCommand(objectName string, params ...Param) Command {
	return Command{ObjectName: objectName, Params: params}
}

// Get returns the value of the named parameter.
func (c Command) Get(name string) (string, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether the named parameter is present.
func (c Command) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns the parameter names in order.
func (c Command) Names() []string {
	names := make([]string, len(c.Params))
	for i, p := range c.Params {
		names[i] = p.Name
	}
	return names
}

// Values returns the parameter values in order.
func (c Command) Values() []string {
	values := make([]string, len(c.Params))
	for i, p := range c.Params {
		values[i] = p.Value
	}
	return values
}

// Map returns the parameters as a map. Ordering is lost.
func (c Command) Map() map[string]string {
	m := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		m[p.Name] = p.Value
	}
	return m
}
