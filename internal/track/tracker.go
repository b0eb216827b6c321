// Package track owns the pipeline's only persistent state: a single
// high-water-mark timestamp on disk, plus the run-scoped processed set.
package track

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// record is the on-disk checkpoint shape.
type record struct {
	LastProcessedTS int64 `json:"last_processed_ts"`
}

// Tracker filters already-seen messages and persists progress. The
// checkpoint never decreases and is only flushed after a batch has been
// fully attempted, so a crash mid-batch re-processes at most the
// current batch.
type Tracker struct {
	path    string
	enabled bool

	checkpoint    int64
	hasCheckpoint bool
	maxSeen       int64

	processed map[string]struct{}
}

// New loads the checkpoint from path. A missing file, or enabled=false,
// means no checkpoint: every fetched message is eligible.
func New(path string, enabled bool) (*Tracker, error) {
	t := &Tracker{
		path:      path,
		enabled:   enabled,
		processed: make(map[string]struct{}),
	}
	if !enabled || path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	t.checkpoint = rec.LastProcessedTS
	t.hasCheckpoint = true
	return t, nil
}

// DefaultPath places the checkpoint in the user cache directory.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".draftpilot-checkpoint.json"
	}
	return filepath.Join(dir, "draftpilot", "checkpoint.json")
}

// Checkpoint returns the stored high-water mark, if any.
func (t *Tracker) Checkpoint() (int64, bool) {
	return t.checkpoint, t.hasCheckpoint
}

// Eligible reports whether a message timestamp is past the checkpoint.
func (t *Tracker) Eligible(ts int64) bool {
	if !t.hasCheckpoint {
		return true
	}
	return ts > t.checkpoint
}

// MarkProcessed records a message as handled within this run.
func (t *Tracker) MarkProcessed(id string) {
	t.processed[id] = struct{}{}
}

// Processed reports whether the message was already handled this run.
func (t *Tracker) Processed(id string) bool {
	_, ok := t.processed[id]
	return ok
}

// Advance tracks the maximum successfully processed timestamp of the
// current batch. It does not persist anything.
func (t *Tracker) Advance(ts int64) {
	if ts > t.maxSeen {
		t.maxSeen = ts
	}
}

// Flush persists the batch maximum if it moved the checkpoint forward.
// Call it once per run, after the batch completes.
func (t *Tracker) Flush() error {
	if !t.enabled || t.path == "" {
		return nil
	}
	if t.hasCheckpoint && t.maxSeen <= t.checkpoint {
		return nil
	}
	if t.maxSeen == 0 && !t.hasCheckpoint {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	raw, err := json.Marshal(record{LastProcessedTS: t.maxSeen})
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := os.WriteFile(t.path, raw, 0o600); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}

	t.checkpoint = t.maxSeen
	t.hasCheckpoint = true
	return nil
}

// ResetRun discards the run-scoped state: the processed set and the
// unflushed batch maximum.
func (t *Tracker) ResetRun() {
	t.processed = make(map[string]struct{})
	t.maxSeen = 0
}
