package ports

import (
	"context"
	"errors"
	"io"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

// ErrUniqueViolation возвращается хранилищами при нарушении естественной
// уникальности: email пользователя либо (user_id, name) тега/ингредиента.
var ErrUniqueViolation = errors.New("нарушение уникальности")

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Отсутствующая запись возвращается как (nil, nil).
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// RecipeStorage определяет методы для взаимодействия с хранилищем рецептов.
// Каждый метод чтения/записи принимает id владельца: чужие рецепты
// неотличимы от несуществующих.
//
// tagNames/ingredientNames: nil — связи не трогаем, иначе набор связей
// приводится ровно к перечисленным именам (upsert недостающих, удаление
// лишних) в одной транзакции со скалярными полями.
type RecipeStorage interface {
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error
	GetRecipeByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error
	DeleteRecipe(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// TagStorage определяет методы для работы с тегами пользователя.
type TagStorage interface {
	ListTags(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Tag, error)
	UpdateTag(ctx context.Context, userID, id uuid.UUID, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// IngredientStorage определяет методы для работы с ингредиентами пользователя.
type IngredientStorage interface {
	ListIngredients(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, userID, id uuid.UUID, name string) (*domain.Ingredient, error)
	DeleteIngredient(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
// порт для хранения бинарных данных (самих изображений).
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	// `key` - это уникальное имя файла в хранилище.
	// `contentType` - MIME-тип файла (например, "image/jpeg").
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет файл из хранилища по его ключу.
	DeleteFile(ctx context.Context, key string) error
}
