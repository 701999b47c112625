package server

import (
	"encoding/json"
	"testing"
)

func TestEncodeEnvelope(t *testing.T) {
	frame, err := Encode(EvtTagUpdate, TagUpdate{TaggerID: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != EvtTagUpdate {
		t.Errorf("type = %q, want %q", env.Type, EvtTagUpdate)
	}
	var tu TagUpdate
	if err := json.Unmarshal(env.Data, &tu); err != nil {
		t.Fatal(err)
	}
	if tu.TaggerID != "p1" {
		t.Errorf("taggerId = %q, want p1", tu.TaggerID)
	}
}

// ping 载荷必须原样回传，服务端不解释其内容
func TestEncodeRawPayloadPassthrough(t *testing.T) {
	raw := json.RawMessage(`1712345678901`)
	frame, err := Encode(EvtNetPong, raw)
	if err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatal(err)
	}
	if string(env.Data) != "1712345678901" {
		t.Errorf("pong payload = %s, want unmodified echo", env.Data)
	}
}

func TestStateReportOptionalFields(t *testing.T) {
	var rep StateReport
	if err := json.Unmarshal([]byte(`{"x":1.5,"rotY":3.14}`), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.X == nil || *rep.X != 1.5 {
		t.Error("x not decoded")
	}
	if rep.Y != nil || rep.Z != nil {
		t.Error("absent fields should stay nil")
	}
	if rep.RotY == nil || *rep.RotY != 3.14 {
		t.Error("rotY not decoded")
	}
}
