package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/parley-im/parley/journal"
	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/types"
)

// SchemaVersion guards exported records against incompatible readers.
const SchemaVersion = 1

// Record is the storage format for one exported event. Records are
// written as a msgpack stream, one value after another, so exports can
// be read back incrementally.
type Record struct {
	SchemaVersion  int    `msgpack:"schema_version"`
	ConversationID string `msgpack:"conversation_id"`
	EventID        string `msgpack:"event_id"`
	SenderGaiaID   string `msgpack:"sender_gaia_id,omitempty"`
	SenderChatID   string `msgpack:"sender_chat_id,omitempty"`
	SenderName     string `msgpack:"sender_name,omitempty"`
	// Timestamp is microseconds since epoch, matching the event order
	// key.
	Timestamp int64  `msgpack:"timestamp"`
	EventType int32  `msgpack:"event_type"`
	Text      string `msgpack:"text,omitempty"`
	// NewName is set for rename events.
	NewName string `msgpack:"new_name,omitempty"`
}

// Sink is the storage backend an exporter writes through.
type Sink interface {
	// Put writes one object at key. Implementations must be safe to
	// call sequentially with distinct keys.
	Put(ctx context.Context, key string, data []byte) error

	// Close releases sink resources.
	Close() error
}

// Exporter serializes conversation journals through a Sink, one object
// per conversation.
type Exporter struct {
	table  *journal.Table
	sink   Sink
	logger *log.Logger

	// now is overridable for deterministic keys in tests.
	now func() time.Time
}

// NewExporter creates an exporter over the given table and sink.
func NewExporter(table *journal.Table, sink Sink, logger *log.Logger) *Exporter {
	return &Exporter{
		table:  table,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// toRecord converts one event, pulling display names from the
// conversation metadata when available.
func toRecord(e *types.Event, meta *types.Conversation) Record {
	r := Record{
		SchemaVersion:  SchemaVersion,
		ConversationID: string(e.ConversationID),
		EventID:        string(e.EventID),
		SenderGaiaID:   e.SenderID.GaiaID,
		SenderChatID:   e.SenderID.ChatID,
		Timestamp:      e.Timestamp,
		EventType:      int32(e.EventType),
		Text:           e.Text(),
	}
	if meta != nil {
		r.SenderName = meta.ParticipantName(e.SenderID)
	}
	if e.ConversationRename != nil {
		r.NewName = e.ConversationRename.NewName
	}
	return r
}

// exportKey computes the object key for one conversation export.
// Format: conversation_id=<id>/day=<YYYY-MM-DD>/events.msgpack
func (x *Exporter) exportKey(id types.ConversationID) string {
	return fmt.Sprintf("conversation_id=%s/day=%s/events.msgpack",
		string(id), x.now().UTC().Format("2006-01-02"))
}

// ExportConversation writes one conversation's journal to the sink.
// Conversations with empty journals are skipped.
func (x *Exporter) ExportConversation(ctx context.Context, id types.ConversationID) error {
	conv, ok := x.table.Get(id)
	if !ok {
		return fmt.Errorf("export %s: %w", string(id), ErrNotFound)
	}
	events := conv.Journal().Events()
	if len(events) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	meta := conv.Meta()
	for _, e := range events {
		rec := toRecord(e, meta)
		if err := enc.Encode(&rec); err != nil {
			return fmt.Errorf("export %s: encode event %s: %w", string(id), string(e.EventID), err)
		}
	}

	key := x.exportKey(id)
	if err := x.sink.Put(ctx, key, buf.Bytes()); err != nil {
		return WrapWriteError(err, key)
	}
	x.logger.Info("exported conversation", map[string]any{
		"conversation_id": string(id),
		"events":          len(events),
		"bytes":           buf.Len(),
		"key":             key,
	})
	return nil
}

// ExportAll writes every known conversation, stopping on the first
// failure.
func (x *Exporter) ExportAll(ctx context.Context) error {
	for _, conv := range x.table.List() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.ExportConversation(ctx, conv.ID()); err != nil {
			return err
		}
	}
	return nil
}

// ReadRecords decodes an exported msgpack stream back into records.
func ReadRecords(r io.Reader) ([]Record, error) {
	dec := msgpack.NewDecoder(r)
	var out []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, fmt.Errorf("decode record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}
