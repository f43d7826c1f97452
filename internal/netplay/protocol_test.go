package netplay

import (
	"encoding/json"
	"testing"

	"github.com/vovakirdan/quadpong/internal/game"
)

func TestParseKindAcceptsBothTagForms(t *testing.T) {
	for kind, name := range kindNames {
		got, ok := ParseKind(name)
		if !ok || got != kind {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", name, got, ok, kind)
		}
		ab := kind.Abbrev()
		got, ok = ParseKind(ab)
		if !ok || got != kind {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", ab, got, ok, kind)
		}
	}

	if _, ok := ParseKind("bogus"); ok {
		t.Error("ParseKind accepted an unknown tag")
	}
	if _, ok := ParseKind(""); ok {
		t.Error("ParseKind accepted an empty tag")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(KindJoinRoom, "sess-1", "room-7", JoinRoomPayload{
		SessionID: "sess-1",
		RoomID:    "room-7",
		Spectator: true,
	})
	if err != nil {
		t.Fatalf("NewEnvelope() failed: %v", err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Envelope
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	kind, ok := ParseKind(back.Kind)
	if !ok || kind != KindJoinRoom {
		t.Errorf("kind = %q, want join-room", back.Kind)
	}

	var p JoinRoomPayload
	if err := json.Unmarshal(back.Payload, &p); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if p.RoomID != "room-7" || !p.Spectator {
		t.Errorf("payload = %+v", p)
	}
}

func TestStatePayloadDeltaOmitsAbsentFields(t *testing.T) {
	// A paddle-only delta must not serialize ball, scores, or effects, so a
	// receiver can distinguish "absent" from "zero".
	pos := StatePayload{
		Paddles: map[game.Side]*PaddleState{
			game.SideLeft: {Pos: 42, Seq: 9},
		},
	}
	data, err := json.Marshal(pos)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, field := range []string{"ball", "scores", "effects", "coins", "tick", "ended", "winner"} {
		if _, present := raw[field]; present {
			t.Errorf("absent field %q was serialized", field)
		}
	}
	if _, present := raw["paddles"]; !present {
		t.Error("present paddles field missing from wire form")
	}
}

func TestSideAsJSONMapKey(t *testing.T) {
	in := map[game.Side]int{game.SideLeft: 3, game.SideTop: 1}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out map[game.Side]int
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out[game.SideLeft] != 3 || out[game.SideTop] != 1 {
		t.Errorf("round trip lost scores: %v", out)
	}
}
