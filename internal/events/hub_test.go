package events

import (
	"encoding/json"
	"testing"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish(Make("batch-1", TypeBatchStarted, nil))

	for name, ch := range map[string]chan Event{"a": a, "b": b} {
		select {
		case e := <-ch:
			if e.Type != TypeBatchStarted || e.BatchID != "batch-1" {
				t.Errorf("%s got %+v", name, e)
			}
		default:
			t.Errorf("subscriber %s received nothing", name)
		}
	}

	h.Unsubscribe(a)
	h.Publish(Make("batch-1", TypeBatchCompleted, nil))
	if e, ok := <-a; ok {
		t.Errorf("unsubscribed channel still delivered %+v", e)
	}
	if e := <-b; e.Type != TypeBatchCompleted {
		t.Errorf("remaining subscriber got %+v", e)
	}
}

func TestHubNeverBlocks(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()

	// overfill the subscriber buffer; extra events are dropped
	for i := 0; i < 100; i++ {
		h.Publish(Make("", TypePostingCreated, map[string]int{"i": i}))
	}
	if got := len(ch); got != cap(ch) {
		t.Errorf("buffered = %d, want full buffer %d", got, cap(ch))
	}
}

func TestEventJSON(t *testing.T) {
	e := Make("batch-9", TypeEntryRejected, map[string]string{"reason": "missing title"})

	var decoded Event
	if err := json.Unmarshal([]byte(e.JSON()), &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded.Type != TypeEntryRejected || decoded.BatchID != "batch-9" || decoded.Version != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	var data map[string]string
	if err := json.Unmarshal(decoded.Data, &data); err != nil || data["reason"] != "missing title" {
		t.Errorf("payload = %s (%v)", decoded.Data, err)
	}
}
