package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

// imageExtensions — поддерживаемые MIME-типы изображений и расширения
// ключей в файловом хранилище.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// recipeUseCase implements RecipeUseCase
type recipeUseCase struct {
	recipeStorage     ports.RecipeStorage
	tagStorage        ports.TagStorage
	ingredientStorage ports.IngredientStorage
	fileStorage       ports.FileStorage
	logger            *slog.Logger
}

// NewRecipeUseCase создает новый экземпляр RecipeUseCase.
// Принимает реализации портов хранилищ и файлового хранилища.
func NewRecipeUseCase(
	recipeStorage ports.RecipeStorage,
	tagStorage ports.TagStorage,
	ingredientStorage ports.IngredientStorage,
	fileStorage ports.FileStorage,
	logger *slog.Logger,
) RecipeUseCase {
	return &recipeUseCase{
		recipeStorage:     recipeStorage,
		tagStorage:        tagStorage,
		ingredientStorage: ingredientStorage,
		fileStorage:       fileStorage,
		logger:            logger,
	}
}

// CreateRecipe создает рецепт от имени пользователя. Владелец берется
// из аутентифицированного запроса и не принимается из данных клиента.
func (uc *recipeUseCase) CreateRecipe(ctx context.Context, userID uuid.UUID, input RecipeInput) (*domain.Recipe, error) {
	now := time.Now()
	recipe := &domain.Recipe{
		ID:          domain.NewID(),
		UserID:      userID,
		Title:       input.Title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Description: input.Description,
		Link:        input.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.recipeStorage.CreateRecipe(ctx, recipe, input.Tags, input.Ingredients); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании рецепта: %w", err)
	}

	uc.logger.Info("recipe created", "recipe_id", recipe.ID, "user_id", userID)
	return recipe, nil
}

// GetRecipe возвращает рецепт пользователя; чужой рецепт — ErrNotFound.
func (uc *recipeUseCase) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error) {
	recipe, err := uc.recipeStorage.GetRecipeByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении рецепта: %w", err)
	}
	if recipe == nil {
		return nil, ErrNotFound
	}
	return recipe, nil
}

// ListRecipes возвращает рецепты пользователя с учетом фильтров.
func (uc *recipeUseCase) ListRecipes(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	recipes, err := uc.recipeStorage.ListRecipes(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка рецептов: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe применяет патч к рецепту пользователя. Скалярные поля и оба
// прохода согласования связей выполняются хранилищем в одной транзакции.
func (uc *recipeUseCase) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, patch domain.RecipePatch) (*domain.Recipe, error) {
	recipe, err := uc.recipeStorage.GetRecipeByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении рецепта: %w", err)
	}
	if recipe == nil {
		return nil, ErrNotFound
	}

	if patch.Title != nil {
		recipe.Title = *patch.Title
	}
	if patch.TimeMinutes != nil {
		recipe.TimeMinutes = *patch.TimeMinutes
	}
	if patch.Price != nil {
		recipe.Price = *patch.Price
	}
	if patch.Description != nil {
		recipe.Description = *patch.Description
	}
	if patch.Link != nil {
		recipe.Link = *patch.Link
	}

	if err := uc.recipeStorage.UpdateRecipe(ctx, recipe, patch.Tags, patch.Ingredients); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении рецепта: %w", err)
	}

	uc.logger.Info("recipe updated", "recipe_id", recipe.ID, "user_id", userID)
	return recipe, nil
}

// DeleteRecipe удаляет рецепт пользователя.
func (uc *recipeUseCase) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	deleted, err := uc.recipeStorage.DeleteRecipe(ctx, userID, recipeID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка при удалении рецепта: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	uc.logger.Info("recipe deleted", "recipe_id", recipeID, "user_id", userID)
	return nil
}

// UploadRecipeImage загружает изображение в файловое хранилище и сохраняет
// его URL на рецепте пользователя.
func (uc *recipeUseCase) UploadRecipeImage(ctx context.Context, userID, recipeID uuid.UUID, file io.Reader, contentType string) (*domain.Recipe, error) {
	if file == nil {
		return nil, ErrInvalidImage
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		uc.logger.Warn("unsupported image content type", "content_type", contentType)
		return nil, ErrInvalidImage
	}

	recipe, err := uc.recipeStorage.GetRecipeByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении рецепта: %w", err)
	}
	if recipe == nil {
		return nil, ErrNotFound
	}

	key := fmt.Sprintf("recipe-images/%s%s", recipe.ID, ext)
	url, err := uc.fileStorage.UploadFile(ctx, key, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка загрузки изображения %s: %w", key, err)
	}

	recipe.ImageURL = url
	if err := uc.recipeStorage.UpdateRecipe(ctx, recipe, nil, nil); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при сохранении URL изображения: %w", err)
	}

	uc.logger.Info("recipe image uploaded", "recipe_id", recipe.ID, "key", key)
	return recipe, nil
}

// ListTags возвращает теги пользователя.
func (uc *recipeUseCase) ListTags(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Tag, error) {
	tags, err := uc.tagStorage.ListTags(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении тегов: %w", err)
	}
	return tags, nil
}

// UpdateTag переименовывает тег пользователя.
func (uc *recipeUseCase) UpdateTag(ctx context.Context, userID, tagID uuid.UUID, name string) (*domain.Tag, error) {
	tag, err := uc.tagStorage.UpdateTag(ctx, userID, tagID, name)
	if err != nil {
		if errors.Is(err, ports.ErrUniqueViolation) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("usecase: ошибка при обновлении тега: %w", err)
	}
	if tag == nil {
		return nil, ErrNotFound
	}
	return tag, nil
}

// DeleteTag удаляет тег пользователя.
func (uc *recipeUseCase) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	deleted, err := uc.tagStorage.DeleteTag(ctx, userID, tagID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка при удалении тега: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// ListIngredients возвращает ингредиенты пользователя.
func (uc *recipeUseCase) ListIngredients(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Ingredient, error) {
	ingredients, err := uc.ingredientStorage.ListIngredients(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении ингредиентов: %w", err)
	}
	return ingredients, nil
}

// UpdateIngredient переименовывает ингредиент пользователя.
func (uc *recipeUseCase) UpdateIngredient(ctx context.Context, userID, ingredientID uuid.UUID, name string) (*domain.Ingredient, error) {
	ingredient, err := uc.ingredientStorage.UpdateIngredient(ctx, userID, ingredientID, name)
	if err != nil {
		if errors.Is(err, ports.ErrUniqueViolation) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("usecase: ошибка при обновлении ингредиента: %w", err)
	}
	if ingredient == nil {
		return nil, ErrNotFound
	}
	return ingredient, nil
}

// DeleteIngredient удаляет ингредиент пользователя.
func (uc *recipeUseCase) DeleteIngredient(ctx context.Context, userID, ingredientID uuid.UUID) error {
	deleted, err := uc.ingredientStorage.DeleteIngredient(ctx, userID, ingredientID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка при удалении ингредиента: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
