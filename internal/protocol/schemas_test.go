package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"agar-client/internal/protocol"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	p := filepath.Join("..", "..", "schemas", name)
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

func decodeAny(t *testing.T, b []byte) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	return v
}

func TestSchemas_OutboundIntents(t *testing.T) {
	cases := []struct {
		schema  string
		payload any
	}{
		{"position.schema.json", protocol.PositionReport{X: 5000, Y: 4999.5}},
		{"fire.schema.json", protocol.NewFireBlob(-1.25)},
		{"consume.schema.json", protocol.ConsumeCell{ConsumedCellID: protocol.NumericID(12)}},
		{"consume.schema.json", protocol.ConsumeCell{ConsumedCellID: protocol.StringID("c12")}},
	}
	for _, c := range cases {
		b, err := protocol.Encode(c.payload)
		if err != nil {
			t.Fatalf("encode %T: %v", c.payload, err)
		}
		if err := compileSchema(t, c.schema).Validate(decodeAny(t, b)); err != nil {
			t.Fatalf("%s rejected %s: %v", c.schema, b, err)
		}
	}
}

func TestSchemas_InboundSamples(t *testing.T) {
	s := compileSchema(t, "inbound.schema.json")

	id, err := protocol.EncodeIdentity(protocol.FrameText, protocol.NumericID(140211234))
	if err != nil {
		t.Fatalf("encode identity: %v", err)
	}
	if err := s.Validate(decodeAny(t, id)); err != nil {
		t.Fatalf("identity rejected: %v", err)
	}

	snap, err := protocol.EncodeSnapshot(protocol.FrameText,
		[]protocol.PlayerState{{ID: protocol.StringID("p1"), X: 100, Y: 100, Mass: 20}},
		[]protocol.CellState{{ID: protocol.NumericID(1), X: 10, Y: 10, Mass: 1, Color: "#a0b0c0"}},
		[]protocol.BlobState{})
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	if err := s.Validate(decodeAny(t, snap)); err != nil {
		t.Fatalf("snapshot rejected: %v", err)
	}

	if err := s.Validate(decodeAny(t, []byte(`{"cells":[]}`))); err == nil {
		t.Fatal("payload without playerId or players should not validate")
	}
}
