// Package activity keeps the system audit trail: who downloaded,
// uploaded, or deleted which file, and when. The log is persisted to the
// blob store and survives restarts; admins can read and clear it.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/blob"
)

// blobKey is where the log entries are persisted.
const blobKey = "activity"

// Action identifies what a log entry records.
type Action string

const (
	ActionDownload Action = "DOWNLOAD"
	ActionUpload   Action = "UPLOAD"
	ActionDelete   Action = "DELETE"
)

// Entry is one audit record. Timestamp is RFC 3339 in the server's
// local zone so entries sort lexically in recording order.
type Entry struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName"`
	Path      string `json:"path"`
	UserID    string `json:"userId"`
	Action    Action `json:"action"`
	Timestamp string `json:"timestamp"`
}

// Log is the persisted audit trail.
//
// Thread safety: all operations are guarded by a read-write mutex.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	blobs   blob.Store
	now     func() time.Time
}

// Load creates a Log from persisted state. Missing or corrupt state
// starts the log empty; the audit trail must never block startup.
func Load(ctx context.Context, blobs blob.Store) *Log {
	l := &Log{blobs: blobs, now: time.Now}

	data, err := blobs.Load(ctx, blobKey)
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			logger.Warn("Failed to load activity log, starting empty: %v", err)
		}
		return l
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		logger.Warn("Corrupt activity log, starting empty: %v", err)
		l.entries = nil
	}
	return l
}

// Record appends one entry and writes the log through to the blob
// store. The entry id and timestamp are assigned here.
func (l *Log) Record(ctx context.Context, userID, fileName, path string, action Action) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Path:      path,
		UserID:    userID,
		Action:    action,
		Timestamp: l.now().Format(time.RFC3339),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	snapshot := make([]Entry, len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()

	l.persist(ctx, snapshot)
	return entry
}

// Entries returns the full log, newest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Clear empties the log and persists the empty state.
func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	l.persist(ctx, []Entry{})
}

func (l *Log) persist(ctx context.Context, entries []Entry) {
	data, err := json.Marshal(entries)
	if err != nil {
		logger.Error("Failed to encode activity log: %v", err)
		return
	}
	if err := l.blobs.Save(ctx, blobKey, data); err != nil {
		logger.Warn("Failed to persist activity log: %v", err)
	}
}
