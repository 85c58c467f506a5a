// internal/repository/postgres/ledger_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/repository"
)

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *DB) repository.LedgerRepository {
	return &ledgerRepository{db: db.DB}
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `
        SELECT id, location_id, item_id, date, opening_stock, received, issued,
               closing_stock, notes, entered_by, created_at
        FROM inventory_transactions
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.LocationID > 0 {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", argCounter))
		args = append(args, filter.LocationID)
		argCounter++
	}

	if filter.ItemID > 0 {
		conditions = append(conditions, fmt.Sprintf("item_id = $%d", argCounter))
		args = append(args, filter.ItemID)
		argCounter++
	}

	if !filter.DateFrom.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argCounter))
		args = append(args, filter.DateFrom)
		argCounter++
	}

	if !filter.DateTo.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argCounter))
		args = append(args, filter.DateTo)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY date ASC, id ASC"

	var txs []domain.Transaction
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) MaxTransactionDate(ctx context.Context) (*time.Time, error) {
	var date sql.NullTime
	err := r.db.GetContext(ctx, &date, `SELECT MAX(date) FROM inventory_transactions`)
	if err != nil {
		return nil, fmt.Errorf("error getting max transaction date: %w", err)
	}
	if !date.Valid {
		return nil, nil
	}
	return &date.Time, nil
}

func (r *ledgerRepository) LatestBefore(ctx context.Context, locationID, itemID int64, date time.Time) (*domain.Transaction, error) {
	query := `
        SELECT id, location_id, item_id, date, opening_stock, received, issued,
               closing_stock, notes, entered_by, created_at
        FROM inventory_transactions
        WHERE location_id = $1 AND item_id = $2 AND date < $3
        ORDER BY date DESC, id DESC
        LIMIT 1
    `

	var tx domain.Transaction
	err := r.db.GetContext(ctx, &tx, query, locationID, itemID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting prior transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) LatestForPair(ctx context.Context, locationID, itemID int64) (*domain.Transaction, error) {
	query := `
        SELECT id, location_id, item_id, date, opening_stock, received, issued,
               closing_stock, notes, entered_by, created_at
        FROM inventory_transactions
        WHERE location_id = $1 AND item_id = $2
        ORDER BY date DESC, id DESC
        LIMIT 1
    `

	var tx domain.Transaction
	err := r.db.GetContext(ctx, &tx, query, locationID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting latest transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) Insert(ctx context.Context, tx *domain.Transaction) (int64, error) {
	query := `
        INSERT INTO inventory_transactions
            (location_id, item_id, date, opening_stock, received, issued,
             closing_stock, notes, entered_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		tx.LocationID, tx.ItemID, tx.Date, tx.OpeningStock, tx.Received,
		tx.Issued, tx.ClosingStock, tx.Notes, tx.EnteredBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error inserting transaction: %w", err)
	}
	return id, nil
}

func (r *ledgerRepository) CountTransactions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM inventory_transactions`); err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return count, nil
}

func (r *ledgerRepository) DateRange(ctx context.Context) (*time.Time, *time.Time, error) {
	var row struct {
		Min sql.NullTime `db:"min_date"`
		Max sql.NullTime `db:"max_date"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT MIN(date) AS min_date, MAX(date) AS max_date FROM inventory_transactions`)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting transaction date range: %w", err)
	}
	if !row.Min.Valid || !row.Max.Valid {
		return nil, nil, nil
	}
	return &row.Min.Time, &row.Max.Time, nil
}

func (r *ledgerRepository) DailyIssued(ctx context.Context, from, to time.Time, itemFilter, locationFilter string) ([]domain.TrendPoint, error) {
	query := `
        SELECT t.date AS date, COALESCE(SUM(t.issued), 0) AS issued
        FROM inventory_transactions t
        JOIN locations l ON t.location_id = l.id
        JOIN items i ON t.item_id = i.id
        WHERE t.date >= $1 AND t.date <= $2
    `

	args := []interface{}{from, to}
	argCounter := 3

	if needle := strings.TrimSpace(itemFilter); needle != "" {
		query += fmt.Sprintf(" AND i.name ILIKE $%d", argCounter)
		args = append(args, "%"+needle+"%")
		argCounter++
	}

	if needle := strings.TrimSpace(locationFilter); needle != "" {
		query += fmt.Sprintf(" AND l.name ILIKE $%d", argCounter)
		args = append(args, "%"+needle+"%")
		argCounter++
	}

	query += " GROUP BY t.date ORDER BY t.date ASC"

	var points []domain.TrendPoint
	if err := r.db.SelectContext(ctx, &points, query, args...); err != nil {
		return nil, fmt.Errorf("error querying daily issued series: %w", err)
	}
	return points, nil
}

func (r *ledgerRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_transactions`)
	if err != nil {
		return 0, fmt.Errorf("error wiping transactions: %w", err)
	}
	return res.RowsAffected()
}
