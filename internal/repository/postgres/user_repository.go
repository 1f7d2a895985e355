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

type userRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewUserRepository(db *dbpg.DB, strategy retry.Strategy) domain.UserRepository {
	return &userRepository{
		db:       db,
		strategy: strategy,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (name, last_name, email, phone, image, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.Master.QueryRowContext(ctx, query,
		user.Name,
		user.LastName,
		user.Email,
		user.Phone,
		user.Image,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		zlog.Logger.Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return fmt.Errorf("create user: %w", err)
	}

	zlog.Logger.Info().Int64("user_id", user.ID).Msg("user created")
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, last_name, email, phone, image, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var u domain.User
	row := r.db.Master.QueryRowContext(ctx, query, email)
	err := row.Scan(&u.ID, &u.Name, &u.LastName, &u.Email, &u.Phone, &u.Image, &u.PasswordHash, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		zlog.Logger.Error().Err(err).Str("email", email).Msg("failed to find user")
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &u, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, name, last_name, email, phone, image, password_hash, created_at
		FROM users
		ORDER BY id
	`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.LastName, &u.Email, &u.Phone, &u.Image, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return users, nil
}
