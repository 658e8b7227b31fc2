package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bingo-sales-platform/internal/models"

	"github.com/lib/pq"
)

// OrderRepository handles order data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, event_id, seller_id, quantity_requested, withdrawn, pending, sold, returned, status, created_at, updated_at`

// WithEventLock runs fn while holding the row lock of the event.
// Every withdrawal for the event serializes on this lock.
func (r *OrderRepository) WithEventLock(ctx context.Context, eventID int64, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, nil, func(txCtx context.Context) error {
		var id int64
		err := conn(txCtx, r.db).QueryRowContext(txCtx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", models.ErrEventNotFound, eventID)
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}
		return fn(txCtx)
	})
}

// WithOrderLock runs fn while holding the row lock of the order
func (r *OrderRepository) WithOrderLock(ctx context.Context, orderID int64, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, nil, func(txCtx context.Context) error {
		var id int64
		err := conn(txCtx, r.db).QueryRowContext(txCtx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", models.ErrOrderNotFound, orderID)
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}
		return fn(txCtx)
	})
}

// ReadSnapshot runs fn inside a read-only repeatable-read transaction so that
// every read made through ctx observes the same database state
func (r *OrderRepository) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// Create inserts a new order and sets its ID
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (event_id, seller_id, quantity_requested, withdrawn, pending, sold, returned, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		order.EventID,
		order.SellerID,
		order.QuantityRequested,
		toInt64Array(order.Withdrawn),
		toInt64Array(order.Pending),
		toInt64Array(order.Sold),
		toInt64Array(order.Returned),
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown event or seller", models.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", models.ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// ListByEvent retrieves every order of an event
func (r *OrderRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Order, error) {
	return r.List(ctx, models.OrderFilter{EventID: eventID})
}

// List retrieves orders matching the filter ordered by ID
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.EventID != 0 {
		args = append(args, filter.EventID)
		conditions = append(conditions, fmt.Sprintf("event_id = $%d", len(args)))
	}
	if filter.SellerID != 0 {
		args = append(args, filter.SellerID)
		conditions = append(conditions, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// Save persists the card collections, status and update time of the order
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET withdrawn = $2, pending = $3, sold = $4, returned = $5, status = $6, updated_at = $7
		WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		order.ID,
		toInt64Array(order.Withdrawn),
		toInt64Array(order.Pending),
		toInt64Array(order.Sold),
		toInt64Array(order.Returned),
		order.Status,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return expectOneRow(res, models.ErrOrderNotFound, order.ID)
}

// Delete removes an order
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return expectOneRow(res, models.ErrOrderNotFound, id)
}

// CountOpenBySeller counts the open orders of a seller across all events
func (r *OrderRepository) CountOpenBySeller(ctx context.Context, sellerID int64) (int, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE seller_id = $1 AND status = $2`,
		sellerID, models.OrderOpen,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open orders: %w", err)
	}
	return count, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var withdrawn, pending, sold, returned pq.Int64Array

	err := row.Scan(
		&order.ID,
		&order.EventID,
		&order.SellerID,
		&order.QuantityRequested,
		&withdrawn,
		&pending,
		&sold,
		&returned,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Withdrawn = fromInt64Array(withdrawn)
	order.Pending = fromInt64Array(pending)
	order.Sold = fromInt64Array(sold)
	order.Returned = fromInt64Array(returned)
	return order, nil
}

func toInt64Array(cards models.CardSet) pq.Int64Array {
	out := make(pq.Int64Array, len(cards))
	for i, c := range cards {
		out[i] = int64(c)
	}
	return out
}

func fromInt64Array(values pq.Int64Array) models.CardSet {
	cards := make([]int, len(values))
	for i, v := range values {
		cards[i] = int(v)
	}
	return models.NewCardSet(cards...)
}
