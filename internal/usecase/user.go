package usecase

import (
	"context"
	"errors"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

// Ошибки бизнес-логики; обработчики переводят их в HTTP-статусы.
var (
	// ErrNotFound: запись не существует или принадлежит другому пользователю.
	// Чужие данные намеренно неотличимы от несуществующих.
	ErrNotFound = errors.New("запись не найдена")

	// ErrEmailTaken: email уже зарегистрирован.
	ErrEmailTaken = errors.New("email уже зарегистрирован")

	// ErrInvalidCredentials: неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("неверный email или пароль")

	// ErrNameTaken: имя тега/ингредиента уже занято пользователем.
	ErrNameTaken = errors.New("имя уже занято пользователем")

	// ErrInvalidImage: файл отсутствует или не является поддерживаемым изображением.
	ErrInvalidImage = errors.New("недопустимое изображение")
)

// UserProfilePatch описывает частичное обновление профиля.
// Email изменению не подлежит.
type UserProfilePatch struct {
	Name     *string
	Password *string
}

// UserUseCase определяет бизнес-логику работы с пользователями.
type UserUseCase interface {
	// Register регистрирует пользователя: нормализует email,
	// хеширует пароль, отклоняет дубликаты email.
	Register(ctx context.Context, email, name, password string) (*domain.User, error)

	// Authenticate проверяет пару email/пароль и возвращает пользователя.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetProfile возвращает собственный профиль пользователя.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile обновляет имя и/или пароль (с перехешированием).
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch UserProfilePatch) (*domain.User, error)
}
