package broker

import (
	"encoding/json"
	"testing"
)

func TestNewEventWrapsPayload(t *testing.T) {
	payload := map[string]interface{}{"sale_number": 42, "business": "lusqtoff"}

	ev, err := NewEvent("sale.completed", payload)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if ev.EventID == "" || ev.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", ev)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(ev.Payload, &decoded); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if decoded["business"] != "lusqtoff" {
		t.Fatalf("unexpected payload %v", decoded)
	}
}
