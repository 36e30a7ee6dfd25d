package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage ports.UserStorage
	logger      *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase.
func NewUserUseCase(userStorage ports.UserStorage, logger *slog.Logger) UserUseCase {
	return &userUseCase{
		userStorage: userStorage,
		logger:      logger,
	}
}

// Register регистрирует пользователя. Email нормализуется (доменная часть
// в нижний регистр), пароль хешируется bcrypt.
func (uc *userUseCase) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	normalized := domain.NormalizeEmail(email)

	existing, err := uc.userStorage.GetUserByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при проверке email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка хеширования пароля: %w", err)
	}

	user, err := domain.NewUser(normalized, name, string(hash))
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		// гонка двух регистраций закрывается уникальным индексом по email
		if errors.Is(err, ports.ErrUniqueViolation) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("usecase: ошибка при создании пользователя: %w", err)
	}

	uc.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate проверяет email/пароль. Несуществующий email и неверный
// пароль дают один и тот же результат.
func (uc *userUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userStorage.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении пользователя: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.logger.Warn("authentication failed", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile возвращает профиль пользователя по id из токена.
func (uc *userUseCase) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := uc.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении профиля: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile применяет частичное обновление профиля.
func (uc *userUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, patch UserProfilePatch) (*domain.User, error) {
	user, err := uc.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении профиля: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка хеширования пароля: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := uc.userStorage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении профиля: %w", err)
	}

	uc.logger.Info("profile updated", "user_id", user.ID)
	return user, nil
}
