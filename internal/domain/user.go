package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyEmail возвращается фабрикой NewUser, если email не задан.
var ErrEmptyEmail = errors.New("email пользователя не может быть пустым")

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser создает пользователя с нормализованным email.
// Пустой email — ошибка; хеш пароля вычисляется на уровне usecase.
func NewUser(email, name, passwordHash string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}

	now := time.Now()
	return &User{
		ID:           NewID(),
		Email:        NormalizeEmail(email),
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail приводит к нижнему регистру только доменную часть адреса,
// локальная часть сохраняется как есть.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// NewID генерирует UUIDv7: идентификаторы упорядочены по времени создания,
// поэтому сортировка по id совпадает с порядком вставки.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
