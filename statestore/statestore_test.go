package statestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snapshot.bin")
	store := NewStore(path)

	snap := &Snapshot{
		LastSyncTimestamp: 123456,
		Cursors: []ConversationCursor{
			{ConversationID: "conv-1", Token: []byte{0x01, 0x02}, SelfReadTimestamp: 1000},
			{ConversationID: "conv-2"},
		},
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastSyncTimestamp != 123456 {
		t.Errorf("LastSyncTimestamp = %d, want 123456", loaded.LastSyncTimestamp)
	}
	cursor := loaded.CursorFor("conv-1")
	if cursor == nil || cursor.SelfReadTimestamp != 1000 {
		t.Errorf("CursorFor(conv-1) = %+v, want timestamp 1000", cursor)
	}
	if loaded.CursorFor("conv-9") != nil {
		t.Error("CursorFor(conv-9) != nil for unknown conversation")
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.bin"))
	_, err := store.Load()
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load error = %v, want ErrNoSnapshot", err)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.bin")
	if err := os.WriteFile(path, []byte("not msgpack at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Error("Load of corrupt snapshot = nil, want error")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.bin")
	store := NewStore(path)

	if err := store.Save(&Snapshot{LastSyncTimestamp: 100}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save(&Snapshot{LastSyncTimestamp: 200}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastSyncTimestamp != 200 {
		t.Errorf("LastSyncTimestamp = %d, want 200", loaded.LastSyncTimestamp)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after Save")
	}
}
