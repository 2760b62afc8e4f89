package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
)

// ItemValidator checks an item before it is persisted.
type ItemValidator interface {
	ValidateItem(ctx context.Context, item *domain.PhonebookItem, excludeID int64) error
}

// CreateItemInput carries client-settable fields of a new item.
type CreateItemInput struct {
	FirstName    string
	LastName     *string
	PhoneNumber  string
	CountryCode  string
	TimezoneName string
}

// UpdateItemInput carries the fields to change; nil means "leave as is".
type UpdateItemInput struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	CountryCode  *string
	TimezoneName *string
}

// Application orchestrates phonebook item use cases.
type Application struct {
	repo        domain.PhonebookItemRepository
	validator   ItemValidator
	publisher   domain.EventPublisher
	logger      *slog.Logger
	now         func() time.Time
	maxPageSize int
}

type Option func(*Application)

// WithClock overrides the time source used for inserted_on/updated_on.
func WithClock(now func() time.Time) Option {
	return func(a *Application) { a.now = now }
}

func WithMaxPageSize(n int) Option {
	return func(a *Application) {
		if n > 0 {
			a.maxPageSize = n
		}
	}
}

// NewApplication creates a new Application instance. publisher may be nil.
func NewApplication(
	repo domain.PhonebookItemRepository,
	validator ItemValidator,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	opts ...Option,
) *Application {
	a := &Application{
		repo:        repo,
		validator:   validator,
		publisher:   publisher,
		logger:      logger.With("component", "phonebook_app"),
		now:         time.Now,
		maxPageSize: domain.MaxPageSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListItems returns one page of items matching filter.
func (a *Application) ListItems(ctx context.Context, filter domain.ListFilter, page domain.PageRequest) (*domain.Page, error) {
	page = page.Normalize(a.maxPageSize)
	result, err := a.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateItem validates and stores a new item. inserted_on is always set here.
func (a *Application) CreateItem(ctx context.Context, in CreateItemInput) (*domain.PhonebookItem, error) {
	item := domain.NewPhonebookItem(in.FirstName, in.LastName, in.PhoneNumber, in.CountryCode, in.TimezoneName, a.now())

	if err := a.validator.ValidateItem(ctx, item, 0); err != nil {
		a.recordFailure(ctx, "create", err)
		return nil, err
	}
	if err := a.repo.Create(ctx, item); err != nil {
		a.recordFailure(ctx, "create", err)
		return nil, err
	}

	itemMutationsCounter.WithLabelValues("create", "success").Inc()
	a.logger.InfoContext(ctx, "Phonebook item created", "item_id", item.ID)
	a.publish(ctx, domain.NewItemEvent(domain.ItemCreated, item.ID, item, a.now()))
	return item, nil
}

// UpdateItem applies the supplied fields to an existing item.
func (a *Application) UpdateItem(ctx context.Context, id int64, in UpdateItemInput) (*domain.PhonebookItem, error) {
	existing, err := a.repo.GetByID(ctx, id)
	if err != nil {
		a.recordFailure(ctx, "update", err)
		return nil, err
	}

	item := existing.Clone()
	applyUpdate(item, in)

	if err := a.validator.ValidateItem(ctx, item, id); err != nil {
		a.recordFailure(ctx, "update", err)
		return nil, err
	}
	item.Touch(a.now())

	if err := a.repo.Update(ctx, item); err != nil {
		a.recordFailure(ctx, "update", err)
		return nil, err
	}

	itemMutationsCounter.WithLabelValues("update", "success").Inc()
	a.logger.InfoContext(ctx, "Phonebook item updated", "item_id", id)
	a.publish(ctx, domain.NewItemEvent(domain.ItemUpdated, id, item, a.now()))
	return item, nil
}

// DeleteItem removes an item; domain.ErrNotFound when it does not exist.
func (a *Application) DeleteItem(ctx context.Context, id int64) error {
	existing, err := a.repo.GetByID(ctx, id)
	if err != nil {
		a.recordFailure(ctx, "delete", err)
		return err
	}
	if err := a.repo.Delete(ctx, id); err != nil {
		a.recordFailure(ctx, "delete", err)
		return err
	}

	itemMutationsCounter.WithLabelValues("delete", "success").Inc()
	a.logger.InfoContext(ctx, "Phonebook item deleted", "item_id", id)
	a.publish(ctx, domain.NewItemEvent(domain.ItemDeleted, id, existing, a.now()))
	return nil
}

func applyUpdate(item *domain.PhonebookItem, in UpdateItemInput) {
	if in.FirstName != nil {
		item.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		ln := *in.LastName
		item.LastName = &ln
	}
	if in.PhoneNumber != nil {
		item.PhoneNumber = *in.PhoneNumber
	}
	if in.CountryCode != nil {
		item.CountryCode = *in.CountryCode
	}
	if in.TimezoneName != nil {
		item.TimezoneName = *in.TimezoneName
	}
}

func (a *Application) recordFailure(ctx context.Context, operation string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		validationFailuresCounter.WithLabelValues(operation).Inc()
		itemMutationsCounter.WithLabelValues(operation, "invalid").Inc()
		a.logger.DebugContext(ctx, "Phonebook item rejected", "operation", operation, "fields", verr.Fields)
	case errors.Is(err, domain.ErrDuplicatePhoneNumber):
		validationFailuresCounter.WithLabelValues(operation).Inc()
		itemMutationsCounter.WithLabelValues(operation, "invalid").Inc()
	case errors.Is(err, domain.ErrNotFound):
		itemMutationsCounter.WithLabelValues(operation, "not_found").Inc()
	default:
		itemMutationsCounter.WithLabelValues(operation, "error").Inc()
		a.logger.ErrorContext(ctx, "Phonebook item operation failed", "operation", operation, "error", err)
	}
}

// publish is best effort; failures are logged and never surface to the caller.
func (a *Application) publish(ctx context.Context, event domain.ItemEvent) {
	if a.publisher == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to marshal item event", "error", err, "event_type", event.Type)
		return
	}
	if err := a.publisher.Publish(ctx, event.Type.Subject(), data); err != nil {
		eventPublishFailuresCounter.WithLabelValues(string(event.Type)).Inc()
		a.logger.WarnContext(ctx, "Failed to publish item event", "error", err, "event_type", event.Type, "item_id", event.ItemID)
	}
}
