// internal/repository/postgres/catalog_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/repository"
)

type catalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *DB) repository.CatalogRepository {
	return &catalogRepository{db: db.DB}
}

func (r *catalogRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	query := `SELECT id, name, type, region, address, created_at FROM locations ORDER BY name`
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("error listing locations: %w", err)
	}
	return locations, nil
}

func (r *catalogRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	query := `SELECT id, name, category, unit, lead_time_days, min_stock, created_at FROM items ORDER BY name`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	return items, nil
}

func (r *catalogRepository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	var loc domain.Location
	query := `SELECT id, name, type, region, address, created_at FROM locations WHERE id = $1`
	err := r.db.GetContext(ctx, &loc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting location %d: %w", id, err)
	}
	return &loc, nil
}

func (r *catalogRepository) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	query := `SELECT id, name, category, unit, lead_time_days, min_stock, created_at FROM items WHERE id = $1`
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting item %d: %w", id, err)
	}
	return &item, nil
}

func (r *catalogRepository) GetLocationByName(ctx context.Context, name string) (*domain.Location, error) {
	var loc domain.Location
	query := `SELECT id, name, type, region, address, created_at FROM locations WHERE name = $1`
	err := r.db.GetContext(ctx, &loc, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting location by name: %w", err)
	}
	return &loc, nil
}

func (r *catalogRepository) GetItemByName(ctx context.Context, name string) (*domain.Item, error) {
	var item domain.Item
	query := `SELECT id, name, category, unit, lead_time_days, min_stock, created_at FROM items WHERE name = $1`
	err := r.db.GetContext(ctx, &item, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting item by name: %w", err)
	}
	return &item, nil
}

func (r *catalogRepository) CreateLocation(ctx context.Context, loc *domain.Location) (int64, error) {
	query := `
        INSERT INTO locations (name, type, region, address)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `

	var id int64
	err := r.db.QueryRowxContext(ctx, query, loc.Name, loc.Type, loc.Region, loc.Address).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating location: %w", err)
	}
	return id, nil
}

func (r *catalogRepository) CreateItem(ctx context.Context, item *domain.Item) (int64, error) {
	query := `
        INSERT INTO items (name, category, unit, lead_time_days, min_stock)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		item.Name, item.Category, item.Unit, item.LeadTimeDays, item.MinStock,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating item: %w", err)
	}
	return id, nil
}

func (r *catalogRepository) CountLocations(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM locations`); err != nil {
		return 0, fmt.Errorf("error counting locations: %w", err)
	}
	return count, nil
}

func (r *catalogRepository) CountItems(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM items`); err != nil {
		return 0, fmt.Errorf("error counting items: %w", err)
	}
	return count, nil
}

func (r *catalogRepository) DeleteAllLocations(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations`)
	if err != nil {
		return 0, fmt.Errorf("error wiping locations: %w", err)
	}
	return res.RowsAffected()
}

func (r *catalogRepository) DeleteAllItems(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items`)
	if err != nil {
		return 0, fmt.Errorf("error wiping items: %w", err)
	}
	return res.RowsAffected()
}
