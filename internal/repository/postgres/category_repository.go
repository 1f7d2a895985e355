package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/domain"
)

type categoryRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewCategoryRepository(db *dbpg.DB, strategy retry.Strategy) domain.CategoryRepository {
	return &categoryRepository{
		db:       db,
		strategy: strategy,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Master.QueryRowContext(ctx, query,
		category.Name,
		category.Image,
		category.CreatedAt,
		category.UpdatedAt,
	).Scan(&category.ID)

	if err != nil {
		zlog.Logger.Error().Err(err).Str("name", category.Name).Msg("failed to create category")
		return fmt.Errorf("create category: %w", err)
	}

	zlog.Logger.Info().Int64("category_id", category.ID).Msg("category created")
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, image, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	var c domain.Category
	row := r.db.Master.QueryRowContext(ctx, query, id)
	err := row.Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		zlog.Logger.Error().Err(err).Int64("category_id", id).Msg("failed to find category")
		return nil, fmt.Errorf("find category: %w", err)
	}

	return &c, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, image, created_at, updated_at
		FROM categories
		ORDER BY id
	`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, image = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecWithRetry(ctx, r.strategy, query,
		category.ID,
		category.Name,
		category.Image,
		category.UpdatedAt,
	)
	if err != nil {
		zlog.Logger.Error().Err(err).Int64("category_id", category.ID).Msg("failed to update category")
		return fmt.Errorf("update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}

	zlog.Logger.Info().Int64("category_id", category.ID).Msg("category updated")
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		zlog.Logger.Error().Err(err).Int64("category_id", id).Msg("failed to delete category")
		return fmt.Errorf("delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}

	zlog.Logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
