// Package statestore persists the sync position across restarts.
//
// The snapshot holds the process-wide last-sync timestamp plus each
// conversation's continuation token and self watermark, enough for a
// fresh process to resume catch-up without refetching full history.
// Snapshots are msgpack on disk, written atomically via temp file and
// rename.
package statestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/parley-im/parley/types"
)

// ErrNoSnapshot indicates no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot on disk")

// ConversationCursor is the persisted per-conversation resume point.
type ConversationCursor struct {
	ConversationID string `msgpack:"conversation_id"`
	// Token is the serialized continuation token, empty when none was
	// known at save time.
	Token []byte `msgpack:"token,omitempty"`
	// SelfReadTimestamp is the account's own watermark.
	SelfReadTimestamp int64 `msgpack:"self_read_timestamp,omitempty"`
}

// Snapshot is the persisted sync position.
type Snapshot struct {
	// SchemaVersion guards against reading snapshots written by an
	// incompatible build.
	SchemaVersion int `msgpack:"schema_version"`
	// LastSyncTimestamp seeds the sync coordinator on restart.
	LastSyncTimestamp int64 `msgpack:"last_sync_timestamp"`
	// Cursors are per-conversation resume points.
	Cursors []ConversationCursor `msgpack:"cursors,omitempty"`
}

// SchemaVersion is the current snapshot schema version.
const SchemaVersion = 1

// Store reads and writes snapshots at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store persisting to path. The parent directory is
// created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. Returns ErrNoSnapshot when none exists and
// an error for unreadable or incompatible snapshots; callers treat both
// the same way, by starting from scratch.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("snapshot schema version %d, want %d", snap.SchemaVersion, SchemaVersion)
	}
	return &snap, nil
}

// Save writes the snapshot atomically. A crash mid-save leaves the
// previous snapshot intact.
func (s *Store) Save(snap *Snapshot) error {
	snap.SchemaVersion = SchemaVersion
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// CursorFor returns the cursor for a conversation, nil when absent.
func (s *Snapshot) CursorFor(id types.ConversationID) *ConversationCursor {
	for i := range s.Cursors {
		if s.Cursors[i].ConversationID == string(id) {
			return &s.Cursors[i]
		}
	}
	return nil
}
