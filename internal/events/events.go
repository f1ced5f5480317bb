// Package events carries the pipeline's lifecycle notifications: an
// in-process hub for subscribers plus an optional AMQP bridge.
package events

import (
	"encoding/json"
	"time"
)

const (
	TypeBatchStarted    = "batch_started"
	TypeBatchCompleted  = "batch_completed"
	TypePostingCreated  = "posting_created"
	TypePostingUpdated  = "posting_updated"
	TypeEntryRejected   = "entry_rejected"
	TypeAnalysisCreated = "analysis_created"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	BatchID string          `json:"batch_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func Make(batchID, typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:    typ,
		Version: 1,
		At:      time.Now().UTC(),
		BatchID: batchID,
		Data:    raw,
	}
}

func (e Event) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}
