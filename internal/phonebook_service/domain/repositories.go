package domain

import (
	"context"
)

// PhonebookItemRepository defines the interface for managing PhonebookItem data.
type PhonebookItemRepository interface {
	Create(ctx context.Context, item *PhonebookItem) error // sets item.ID
	GetByID(ctx context.Context, id int64) (*PhonebookItem, error)
	Update(ctx context.Context, item *PhonebookItem) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter, page PageRequest) (*Page, error)
	// PhoneNumberTaken reports whether another row (id != excludeID) uses phoneNumber.
	PhoneNumberTaken(ctx context.Context, phoneNumber string, excludeID int64) (bool, error)
}

// EventPublisher publishes serialized events on a subject.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
