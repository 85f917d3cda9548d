package schema

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMsgpack encodes the cardinality by its wire form so snapshots
// stay readable across re-ordered Rel constants.
func (r Rel) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(r.String())
}

// DecodeMsgpack decodes a cardinality from its wire form.
func (r *Rel) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return r.UnmarshalText([]byte(s))
}

var (
	_ msgpack.CustomEncoder = Rel(0)
	_ msgpack.CustomDecoder = (*Rel)(nil)
)

// Snapshot encodes the schema into a compact binary form suitable for
// persistence by orchestrators that carry business vocabulary across
// sessions. The encoding round-trips through RestoreSnapshot.
func Snapshot(s *Schema) ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("schema: snapshot of entity %q: %w", s.Name, err)
	}
	return b, nil
}

// RestoreSnapshot decodes a schema previously encoded with Snapshot
// and verifies its invariants.
func RestoreSnapshot(b []byte) (*Schema, error) {
	s := &Schema{}
	if err := msgpack.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("schema: restore snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
