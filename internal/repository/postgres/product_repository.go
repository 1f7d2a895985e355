package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/domain"
)

type productRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewProductRepository(db *dbpg.DB, strategy retry.Strategy) domain.ProductRepository {
	return &productRepository{
		db:       db,
		strategy: strategy,
	}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, price, category_id, image, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.Master.QueryRowContext(ctx, query,
		product.Name,
		product.Price,
		nullInt64(product.CategoryID),
		nullString(product.Image),
		product.CreatedAt,
	).Scan(&product.ID)

	if err != nil {
		zlog.Logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return fmt.Errorf("create product: %w", err)
	}

	zlog.Logger.Info().Int64("product_id", product.ID).Msg("product created")
	return nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.price, p.category_id, c.name, p.image, p.created_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.id
	`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		var categoryID sql.NullInt64
		var categoryName, image sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &categoryID, &categoryName, &image, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		if categoryID.Valid {
			p.CategoryID = categoryID.Int64
		}
		if categoryName.Valid {
			p.CategoryName = categoryName.String
		}
		if image.Valid {
			p.Image = image.String
		}

		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return products, nil
}

// Helper functions
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}
