package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
)

// Schema is the DDL for the phonebook_item table.
//
//go:embed schema.sql
var Schema string

const uniqueViolationCode = "23505"

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgPhonebookItemRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewPgPhonebookItemRepository(db DBTX, logger *slog.Logger) *PgPhonebookItemRepository {
	return &PgPhonebookItemRepository{db: db, logger: logger.With("component", "phonebook_item_repository_pg")}
}

var _ domain.PhonebookItemRepository = (*PgPhonebookItemRepository)(nil)

func (r *PgPhonebookItemRepository) Create(ctx context.Context, item *domain.PhonebookItem) error {
	query := `
		INSERT INTO phonebook_item (first_name, last_name, phone_number, country_code, timezone_name, inserted_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		item.FirstName, item.LastName, item.PhoneNumber, item.CountryCode, item.TimezoneName,
		item.InsertedOn, item.UpdatedOn,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate phone number on create", "phone_number", item.PhoneNumber)
			return domain.ErrDuplicatePhoneNumber
		}
		r.logger.ErrorContext(ctx, "Error creating phonebook item", "error", err)
		return fmt.Errorf("create phonebook item: %w", err)
	}
	r.logger.InfoContext(ctx, "Phonebook item created", "item_id", item.ID)
	return nil
}

func (r *PgPhonebookItemRepository) GetByID(ctx context.Context, id int64) (*domain.PhonebookItem, error) {
	query := `SELECT ` + itemColumns + ` FROM phonebook_item WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting phonebook item by ID", "error", err, "item_id", id)
		return nil, fmt.Errorf("get phonebook item %d: %w", id, err)
	}
	return item, nil
}

func (r *PgPhonebookItemRepository) Update(ctx context.Context, item *domain.PhonebookItem) error {
	query := `
		UPDATE phonebook_item
		SET first_name = $2, last_name = $3, phone_number = $4, country_code = $5, timezone_name = $6, updated_on = $7
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		item.ID, item.FirstName, item.LastName, item.PhoneNumber, item.CountryCode, item.TimezoneName, item.UpdatedOn,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate phone number on update", "item_id", item.ID, "phone_number", item.PhoneNumber)
			return domain.ErrDuplicatePhoneNumber
		}
		r.logger.ErrorContext(ctx, "Error updating phonebook item", "error", err, "item_id", item.ID)
		return fmt.Errorf("update phonebook item %d: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Phonebook item updated", "item_id", item.ID)
	return nil
}

func (r *PgPhonebookItemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM phonebook_item WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting phonebook item", "error", err, "item_id", id)
		return fmt.Errorf("delete phonebook item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Phonebook item deleted", "item_id", id)
	return nil
}

func (r *PgPhonebookItemRepository) List(ctx context.Context, filter domain.ListFilter, page domain.PageRequest) (*domain.Page, error) {
	q := BuildListQuery(filter, page)

	var total int64
	if err := r.db.QueryRow(ctx, q.Count, q.CountArgs...).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Error counting phonebook items", "error", err)
		return nil, fmt.Errorf("count phonebook items: %w", err)
	}

	result := &domain.Page{Items: []*domain.PhonebookItem{}, CurrentPage: page.Page, TotalItems: total}
	if total == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, q.Select, q.SelectArgs...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing phonebook items", "error", err)
		return nil, fmt.Errorf("list phonebook items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning phonebook item row", "error", err)
			return nil, fmt.Errorf("scan phonebook item: %w", err)
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating phonebook item rows", "error", err)
		return nil, fmt.Errorf("iterate phonebook items: %w", err)
	}
	return result, nil
}

func (r *PgPhonebookItemRepository) PhoneNumberTaken(ctx context.Context, phoneNumber string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM phonebook_item WHERE phone_number = $1 AND id <> $2)`

	var taken bool
	if err := r.db.QueryRow(ctx, query, phoneNumber, excludeID).Scan(&taken); err != nil {
		r.logger.ErrorContext(ctx, "Error checking phone number usage", "error", err)
		return false, fmt.Errorf("check phone number: %w", err)
	}
	return taken, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.PhonebookItem, error) {
	item := &domain.PhonebookItem{}
	if err := row.Scan(
		&item.ID, &item.FirstName, &item.LastName, &item.PhoneNumber,
		&item.CountryCode, &item.TimezoneName, &item.InsertedOn, &item.UpdatedOn,
	); err != nil {
		return nil, err
	}
	item.InsertedOn = item.InsertedOn.UTC()
	if item.UpdatedOn != nil {
		u := item.UpdatedOn.UTC()
		item.UpdatedOn = &u
	}
	return item, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
