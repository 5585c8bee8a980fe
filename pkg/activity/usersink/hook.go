// Package usersink records store activity through a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-configkit/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook turns each store event into one ActivityRecord. The record object is
// the slot, or the store for store-level events, and the record data holds
// the store id, kind and literals.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify logs event to the sink. Invalid events are skipped.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if !event.Valid() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, usertypes.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.Object(),
		ObjectID:   event.Target(),
		Channel:    event.Channel,
		Data:       recordData(event),
		OccurredAt: event.OccurredAt,
	})
}

func recordData(event activity.Event) map[string]any {
	data := map[string]any{"store_id": event.StoreID}
	if event.Slot != "" {
		data["slot"] = event.Slot
	}
	if event.Kind != "" {
		data["kind"] = event.Kind
	}
	switch event.Verb {
	case activity.VerbSlotWritten:
		data["literal"] = event.NewLiteral
	case activity.VerbSlotResolved:
		data["before"] = event.OldLiteral
		data["after"] = event.NewLiteral
	case activity.VerbStoreSourced:
		data["script_bytes"] = event.ScriptSize
	}
	return data
}

// parseUUID maps ids that are not UUIDs to uuid.Nil.
func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
