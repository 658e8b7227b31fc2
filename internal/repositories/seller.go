package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bingo-sales-platform/internal/models"
)

// SellerRepository handles seller data operations
type SellerRepository struct {
	db *sql.DB
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(db *sql.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

const sellerColumns = `id, owner_id, name, email, phone, active, created_at, updated_at`

// Create inserts a new seller and sets its ID
func (r *SellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	query := `
		INSERT INTO sellers (owner_id, name, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		seller.OwnerID,
		seller.Name,
		seller.Email,
		seller.Phone,
		seller.Active,
		seller.CreatedAt,
		seller.UpdatedAt,
	).Scan(&seller.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: seller email %s", models.ErrDuplicateEntry, seller.Email)
		}
		return fmt.Errorf("failed to create seller: %w", err)
	}

	return nil
}

// GetByID retrieves a seller by ID
func (r *SellerRepository) GetByID(ctx context.Context, id int64) (*models.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers WHERE id = $1`

	seller, err := scanSeller(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", models.ErrSellerNotFound, id)
		}
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}

	return seller, nil
}

// List retrieves sellers ordered by ID
func (r *SellerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sellers: %w", err)
	}
	defer rows.Close()

	var sellers []*models.Seller
	for rows.Next() {
		seller, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seller: %w", err)
		}
		sellers = append(sellers, seller)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sellers: %w", err)
	}

	return sellers, nil
}

// Update persists every mutable field of the seller
func (r *SellerRepository) Update(ctx context.Context, seller *models.Seller) error {
	query := `
		UPDATE sellers
		SET name = $2, email = $3, phone = $4, active = $5, updated_at = $6
		WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		seller.ID,
		seller.Name,
		seller.Email,
		seller.Phone,
		seller.Active,
		seller.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: seller email %s", models.ErrDuplicateEntry, seller.Email)
		}
		return fmt.Errorf("failed to update seller: %w", err)
	}

	return expectOneRow(res, models.ErrSellerNotFound, seller.ID)
}

// WithSellerLock serializes status changes and order creation for one seller
func (r *SellerRepository) WithSellerLock(ctx context.Context, sellerID int64, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, nil, func(txCtx context.Context) error {
		var id int64
		err := conn(txCtx, r.db).QueryRowContext(txCtx, `SELECT id FROM sellers WHERE id = $1 FOR UPDATE`, sellerID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", models.ErrSellerNotFound, sellerID)
			}
			return fmt.Errorf("failed to lock seller: %w", err)
		}
		return fn(txCtx)
	})
}

func scanSeller(row rowScanner) (*models.Seller, error) {
	seller := &models.Seller{}
	err := row.Scan(
		&seller.ID,
		&seller.OwnerID,
		&seller.Name,
		&seller.Email,
		&seller.Phone,
		&seller.Active,
		&seller.CreatedAt,
		&seller.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return seller, nil
}
