package domain

import (
	"time"

	"github.com/google/uuid"
)

type ItemEventType string

const (
	ItemCreated ItemEventType = "created"
	ItemUpdated ItemEventType = "updated"
	ItemDeleted ItemEventType = "deleted"
)

// Subject returns the NATS subject the event is published on.
func (t ItemEventType) Subject() string {
	return "phonebook.item." + string(t)
}

// ItemEvent describes a change to a phonebook item.
type ItemEvent struct {
	EventID    uuid.UUID      `json:"event_id"`
	Type       ItemEventType  `json:"type"`
	ItemID     int64          `json:"item_id"`
	Item       *PhonebookItem `json:"item,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewItemEvent(eventType ItemEventType, itemID int64, item *PhonebookItem, now time.Time) ItemEvent {
	return ItemEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		ItemID:     itemID,
		Item:       item,
		OccurredAt: now.UTC(),
	}
}
