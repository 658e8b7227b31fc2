package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bingo-sales-platform/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, owner_id, name, range_start, range_end, card_count, price_cents, event_date, active, created_at, updated_at`

// Create inserts a new event and sets its ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (owner_id, name, range_start, range_end, card_count, price_cents, event_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		event.OwnerID,
		event.Name,
		event.RangeStart,
		event.RangeEnd,
		event.CardCount,
		event.PriceCents,
		event.EventDate,
		event.Active,
		event.CreatedAt,
		event.UpdatedAt,
	).Scan(&event.ID)
	if err != nil {
		if isCheckViolation(err) {
			return eventCheckError(err)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", models.ErrEventNotFound, id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// List retrieves events ordered by date
func (r *EventRepository) List(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY event_date, id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Update persists every mutable field of the event
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $2, range_start = $3, range_end = $4, card_count = $5, price_cents = $6,
		    event_date = $7, active = $8, updated_at = $9
		WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		event.ID,
		event.Name,
		event.RangeStart,
		event.RangeEnd,
		event.CardCount,
		event.PriceCents,
		event.EventDate,
		event.Active,
		event.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return eventCheckError(err)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}

	return expectOneRow(res, models.ErrEventNotFound, event.ID)
}

// eventCheckError maps a violated events CHECK constraint to a domain error
func eventCheckError(err error) error {
	constraint := violatedConstraint(err)
	switch constraint {
	case "events_price":
		return fmt.Errorf("%w: price rejected by database constraint %s", models.ErrInvalidInput, constraint)
	default:
		return fmt.Errorf("%w: rejected by database constraint %s", models.ErrEventRangeInvalid, constraint)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.OwnerID,
		&event.Name,
		&event.RangeStart,
		&event.RangeEnd,
		&event.CardCount,
		&event.PriceCents,
		&event.EventDate,
		&event.Active,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func expectOneRow(res sql.Result, notFound error, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", notFound, id)
	}
	return nil
}
