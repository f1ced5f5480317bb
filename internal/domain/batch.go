package domain

import "time"

// BatchStage identifies where in the pipeline a batch failure happened.
type BatchStage string

const (
	StageFetch     BatchStage = "fetch"
	StageNormalize BatchStage = "normalize"
	StageStore     BatchStage = "store"
)

type BatchFailure struct {
	Source string     `json:"source"`
	Entry  string     `json:"entry,omitempty"` // best identifier we have: url or title
	Stage  BatchStage `json:"stage"`
	Reason string     `json:"reason"`
}

// SourceTally is the per-source slice of a batch report.
type SourceTally struct {
	Source   string `json:"source"`
	Fetched  int    `json:"fetched"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Rejected int    `json:"rejected"`
	Denied   bool   `json:"denied,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"` // unchanged upstream (304)
}

// BatchReport summarizes one ingestion run. A batch degrades per item:
// failures are recorded here and never abort the run.
type BatchReport struct {
	BatchID    string         `json:"batch_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Processed  int            `json:"processed"`
	Created    int            `json:"created"`
	Updated    int            `json:"updated"`
	Rejected   int            `json:"rejected"`
	Failures   []BatchFailure `json:"failures,omitempty"`
	Sources    []SourceTally  `json:"sources,omitempty"`
}

// SourceState is the persisted fetch bookkeeping for one source.
type SourceState struct {
	Source              string    `json:"source" bson:"_id"`
	ETag                string    `json:"etag,omitempty" bson:"etag,omitempty"`
	LastModified        string    `json:"last_modified,omitempty" bson:"last_modified,omitempty"`
	LastFetchedAt       time.Time `json:"last_fetched_at" bson:"last_fetched_at"`
	LastStatus          string    `json:"last_status" bson:"last_status"` // ok/failed/denied
	LastError           string    `json:"last_error,omitempty" bson:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures" bson:"consecutive_failures"`
}
