package activity

import (
	"strings"
	"time"
)

const (
	VerbSlotWritten    = "configkit.slot.written"
	VerbDefaultEvicted = "configkit.default.evicted"
	VerbSlotResolved   = "configkit.slot.resolved"
	VerbStoreSourced   = "configkit.store.sourced"

	ObjectSlot    = "configkit.slot"
	ObjectDefault = "configkit.default"
	ObjectStore   = "configkit.store"
)

// Event describes one change to a store. Slot is a name or name(index)
// reference; the literals are the raw store values before and after the
// change.
type Event struct {
	Verb       string
	StoreID    string
	Slot       string
	Kind       string
	OldLiteral string
	NewLiteral string
	ScriptSize int
	ActorID    string
	TenantID   string
	Channel    string
	OccurredAt time.Time
}

// Object returns the object type the verb acts on, the verb minus its last
// segment.
func (e Event) Object() string {
	if i := strings.LastIndexByte(e.Verb, '.'); i > 0 {
		return e.Verb[:i]
	}
	return e.Verb
}

// Target is the slot for slot and default events and the store id for store
// events.
func (e Event) Target() string {
	if e.Slot != "" {
		return e.Slot
	}
	return e.StoreID
}

// Valid reports whether the event names a verb, a store and, unless it is a
// store event, a slot.
func (e Event) Valid() bool {
	if e.Verb == "" || e.StoreID == "" {
		return false
	}
	return e.Slot != "" || e.Object() == ObjectStore
}

// SlotWritten describes a slot written by Load with its declared kind.
func SlotWritten(storeID, slot, kind, literal string) Event {
	return Event{Verb: VerbSlotWritten, StoreID: storeID, Slot: slot, Kind: kind, NewLiteral: literal}
}

// DefaultEvicted describes a default slot removed so user data can replace it.
func DefaultEvicted(storeID, name string) Event {
	return Event{Verb: VerbDefaultEvicted, StoreID: storeID, Slot: name}
}

// SlotResolved describes a slot rewritten by the resolution pass.
func SlotResolved(storeID, slot, before, after string) Event {
	return Event{Verb: VerbSlotResolved, StoreID: storeID, Slot: slot, OldLiteral: before, NewLiteral: after}
}

// StoreSourced describes a script of size bytes evaluated into the store.
func StoreSourced(storeID string, size int) Event {
	return Event{Verb: VerbStoreSourced, StoreID: storeID, ScriptSize: size}
}

// NormalizeEvent trims identifiers and stamps OccurredAt when missing.
// Literals are kept byte for byte.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Verb = strings.TrimSpace(event.Verb)
	normalized.StoreID = strings.TrimSpace(event.StoreID)
	normalized.Slot = strings.TrimSpace(event.Slot)
	normalized.Kind = strings.TrimSpace(event.Kind)
	normalized.ActorID = strings.TrimSpace(event.ActorID)
	normalized.TenantID = strings.TrimSpace(event.TenantID)
	normalized.Channel = strings.TrimSpace(event.Channel)
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}
