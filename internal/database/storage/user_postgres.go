package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserStorage реализует ports.UserStorage поверх sqlx.
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя. Нарушение уникальности email
// возвращается как ports.ErrUniqueViolation.
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	_, err := s.db.NamedExecContext(ctx, `
        INSERT INTO users (id, email, name, password_hash, is_staff, is_superuser, created_at, updated_at)
        VALUES (:id, :email, :name, :password_hash, :is_staff, :is_superuser, :created_at, :updated_at)
    `, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			s.logger.Warn("duplicate email on user insert", "email", user.Email)
			return ports.ErrUniqueViolation
		}
		s.logger.Error("failed to insert user", "error", err)
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByEmail ищет пользователя по email. Отсутствие записи — nil, nil.
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get user by email", "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}
	return &user, nil
}

// GetUserByID ищет пользователя по id. Отсутствие записи — nil, nil.
func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID: %w", err)
	}
	return &user, nil
}

// UpdateUser сохраняет изменяемые поля профиля (имя, хеш пароля).
// Email и флаги доступа этим путем не меняются.
func (s *UserStorage) UpdateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	user.UpdatedAt = time.Now()
	_, err := s.db.NamedExecContext(ctx, `
        UPDATE users
        SET name = :name, password_hash = :password_hash, updated_at = :updated_at
        WHERE id = :id
    `, user)
	if err != nil {
		s.logger.Error("failed to update user", "user_id", user.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	s.logger.Info("user updated",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
