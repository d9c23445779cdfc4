package serializer

import (
	"fmt"
	"io"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/coredata"
)

// Payload is the SQL-free form of a serialization, for consumers that apply
// rows through their own store API.
type Payload struct {
	// Types are the entity names in walk order.
	Types []string `msgpack:"types"`
	// Max holds the highest key per entity name.
	Max map[string]int64 `msgpack:"max"`
	// Commands are the rows in walk order. The key of a row is its position
	// among the rows of the same entity, starting at 1.
	Commands []coredata.Command `msgpack:"commands"`
}

// Payload collects the commands and the key bookkeeping of the last walk.
func (s *Serializer) Payload() (*Payload, error) {
	cmds, err := s.CommandList()
	if err != nil {
		return nil, err
	}
	p := &Payload{
		Types:    s.typeNames(),
		Max:      make(map[string]int64, len(s.types)),
		Commands: cmds,
	}
	for _, t := range s.types {
		p.Max[t.Name()] = s.keys.Max(reflect.PointerTo(t))
	}
	return p, nil
}

// EncodePayload writes the payload as msgpack to w.
func (s *Serializer) EncodePayload(w io.Writer) error {
	p, err := s.Payload()
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("coredata: encode payload: %w", err)
	}
	return nil
}

// DecodePayload reads a payload written by EncodePayload.
func DecodePayload(r io.Reader) (*Payload, error) {
	var p Payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("coredata: decode payload: %w", err)
	}
	return &p, nil
}
