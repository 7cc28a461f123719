package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// ID is an opaque entity identifier.
// Servers send ids either as JSON strings or as numbers; ID keeps the form it
// arrived in so that echoing it back (consumedCellId) compares equal on the
// server side. The zero ID means "not assigned".
type ID struct {
	text    string
	numeric bool
}

var (
	_ msgpack.CustomEncoder = ID{}
	_ msgpack.CustomDecoder = (*ID)(nil)
)

// StringID returns an ID carried as a JSON string
func StringID(s string) ID {
	return ID{text: s}
}

// NumericID returns an ID carried as a JSON number
func NumericID(n int64) ID {
	return ID{text: strconv.FormatInt(n, 10), numeric: true}
}

// IsZero reports whether the id is unassigned. Numeric 0 is a valid id.
func (id ID) IsZero() bool {
	return id.text == "" && !id.numeric
}

// Numeric reports whether the id travels as a JSON number
func (id ID) Numeric() bool {
	return id.numeric
}

func (id ID) String() string {
	return id.text
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("protocol: empty id")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("protocol: id: %w", err)
		}
		*id = ID{text: s}
	case 'n':
		*id = ID{}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("protocol: id %s: %w", b, err)
		}
		*id = ID{text: n.String(), numeric: true}
	}
	return nil
}

// EncodeMsgpack writes numeric ids as msgpack ints (or floats) and the rest as strings
func (id ID) EncodeMsgpack(enc *msgpack.Encoder) error {
	if id.numeric {
		if n, err := strconv.ParseInt(id.text, 10, 64); err == nil {
			return enc.EncodeInt(n)
		}
		if f, err := strconv.ParseFloat(id.text, 64); err == nil {
			return enc.EncodeFloat64(f)
		}
	}
	return enc.EncodeString(id.text)
}

func (id *ID) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return fmt.Errorf("protocol: id: %w", err)
	}
	switch t := v.(type) {
	case nil:
		*id = ID{}
	case string:
		*id = ID{text: t}
	case int64:
		*id = NumericID(t)
	case uint64:
		*id = ID{text: strconv.FormatUint(t, 10), numeric: true}
	case float64:
		*id = ID{text: strconv.FormatFloat(t, 'g', -1, 64), numeric: true}
	default:
		return fmt.Errorf("protocol: unsupported id type %T", v)
	}
	return nil
}
