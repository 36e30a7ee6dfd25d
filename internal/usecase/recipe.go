package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeInput — данные создания рецепта. Tags/Ingredients — это списки имен:
// nil означает «без связей», иначе набор связей приводится ровно к списку.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	Tags        *[]string
	Ingredients *[]string
}

// RecipeUseCase определяет бизнес-логику работы с рецептами и их атрибутами
// (тегами и ингредиентами). Каждая операция принимает id запрашивающего
// пользователя: доступ к чужим записям выглядит как ErrNotFound.
type RecipeUseCase interface {
	// CreateRecipe создает рецепт, принадлежащий пользователю, и
	// согласует связи с переданными именами тегов/ингредиентов.
	CreateRecipe(ctx context.Context, userID uuid.UUID, input RecipeInput) (*domain.Recipe, error)

	// GetRecipe возвращает рецепт пользователя со связями.
	GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error)

	// ListRecipes возвращает рецепты пользователя, новые первыми,
	// с необязательными фильтрами по тегам и ингредиентам.
	ListRecipes(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]domain.Recipe, error)

	// UpdateRecipe применяет частичное обновление. Поле-владелец
	// изменению не подлежит; присутствующий список имен полностью
	// заменяет набор связей, отсутствующий оставляет его нетронутым.
	UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, patch domain.RecipePatch) (*domain.Recipe, error)

	// DeleteRecipe удаляет рецепт и строки связей; сами теги и
	// ингредиенты остаются.
	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error

	// UploadRecipeImage загружает изображение рецепта в файловое
	// хранилище и сохраняет его URL на рецепте.
	UploadRecipeImage(ctx context.Context, userID, recipeID uuid.UUID, file io.Reader, contentType string) (*domain.Recipe, error)

	// ListTags возвращает теги пользователя; assignedOnly — только
	// привязанные хотя бы к одному рецепту.
	ListTags(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Tag, error)

	// UpdateTag переименовывает тег пользователя.
	UpdateTag(ctx context.Context, userID, tagID uuid.UUID, name string) (*domain.Tag, error)

	// DeleteTag удаляет тег пользователя и его связи с рецептами.
	DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error

	// ListIngredients — аналогично ListTags.
	ListIngredients(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Ingredient, error)

	// UpdateIngredient переименовывает ингредиент пользователя.
	UpdateIngredient(ctx context.Context, userID, ingredientID uuid.UUID, name string) (*domain.Ingredient, error)

	// DeleteIngredient удаляет ингредиент пользователя и его связи.
	DeleteIngredient(ctx context.Context, userID, ingredientID uuid.UUID) error
}
