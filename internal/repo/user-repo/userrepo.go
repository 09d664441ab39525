package userrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const userColumns = "id, login, password_hash, role, created_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

// FindByLogin returns nil, nil when no account has that login.
func (repo *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return repo.findOne(ctx, "login", login)
}

func (repo *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return repo.findOne(ctx, "id", id)
}

func (repo *Repository) findOne(ctx context.Context, column string, value any) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)
	var u domain.User
	err := repo.db.QueryRow(ctx, query, value).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		zap.L().Error("can't load user", zap.String("by", column), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := repo.db.QueryRow(ctx,
		"INSERT INTO users (id, login, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING created_at",
		user.ID, user.Login, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt)
	if pg.IsUniqueViolation(err, "users_login_key") {
		return nil, fmt.Errorf("login %q: %w", user.Login, domain.ErrAlreadyExists)
	}
	if err != nil {
		zap.L().Error("can't save user", zap.String("login", user.Login), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// UpdateRole changes the stored role; tokens already issued keep the old one
// until they expire.
func (repo *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	tag, err := repo.db.Exec(ctx, "UPDATE users SET role = $1 WHERE id = $2", role, id)
	if err != nil {
		zap.L().Error("can't update user role", zap.Stringer("user_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
