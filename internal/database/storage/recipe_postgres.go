package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeStorage реализует ports.RecipeStorage с использованием GORM.
type RecipeStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecipeStorage(db *gorm.DB, logger *slog.Logger) *RecipeStorage {
	return &RecipeStorage{db: db, logger: logger}
}

// CreateRecipe сохраняет рецепт и приводит его связи к переданным спискам
// имен в одной транзакции: либо записывается все, либо ничего.
func (s *RecipeStorage) CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error {
	start := time.Now()

	if recipe.ID == uuid.Nil {
		recipe.ID = domain.NewID()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("ошибка при сохранении рецепта: %w", err)
		}
		if err := s.applyAttributes(ctx, tx, recipe, tagNames, ingredientNames); err != nil {
			return err
		}
		return s.reload(ctx, tx, recipe)
	})
	if err != nil {
		s.logger.Error("failed to create recipe", "recipe_id", recipe.ID, "error", err)
		return err
	}

	s.logger.Info("recipe created",
		"recipe_id", recipe.ID,
		"user_id", recipe.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetRecipeByID получает рецепт владельца со связями.
// Чужой или несуществующий рецепт — nil, nil.
func (s *RecipeStorage) GetRecipeByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("id = ? AND user_id = ?", id, userID).
		Take(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("recipe not found", "recipe_id", id, "user_id", userID)
			return nil, nil
		}
		s.logger.Error("failed to get recipe", "recipe_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении рецепта: %w", err)
	}
	return &recipe, nil
}

// ListRecipes получает рецепты пользователя, новые первыми (id — UUIDv7).
// Фильтры по тегам и ингредиентам: совпадение по любому id внутри категории,
// пересечение между категориями; выдача без дубликатов.
func (s *RecipeStorage) ListRecipes(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).Model(&domain.Recipe{}).Where("recipes.user_id = ?", userID)

	if len(filter.TagIDs) > 0 {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filter.TagIDs)
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
	}
	if len(filter.TagIDs) > 0 || len(filter.IngredientIDs) > 0 {
		q = q.Distinct()
	}

	var recipes []domain.Recipe
	err := q.Preload("Tags").Preload("Ingredients").Order("recipes.id DESC").Find(&recipes).Error
	if err != nil {
		s.logger.Error("failed to list recipes", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка рецептов: %w", err)
	}

	s.logger.Info("recipes listed",
		"user_id", userID,
		"count", len(recipes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return recipes, nil
}

// UpdateRecipe сохраняет скалярные поля рецепта и, если списки имен заданы,
// приводит связи к ним. Все изменения — в одной транзакции.
// Владелец рецепта не меняется: поле user_id не входит в обновление.
func (s *RecipeStorage) UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Recipe{}).
			Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
			Updates(map[string]interface{}{
				"title":        recipe.Title,
				"time_minutes": recipe.TimeMinutes,
				"price":        recipe.Price,
				"description":  recipe.Description,
				"link":         recipe.Link,
				"image_url":    recipe.ImageURL,
				"updated_at":   time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("ошибка при обновлении рецепта: %w", res.Error)
		}
		if err := s.applyAttributes(ctx, tx, recipe, tagNames, ingredientNames); err != nil {
			return err
		}
		return s.reload(ctx, tx, recipe)
	})
	if err != nil {
		s.logger.Error("failed to update recipe", "recipe_id", recipe.ID, "error", err)
		return err
	}

	s.logger.Info("recipe updated",
		"recipe_id", recipe.ID,
		"user_id", recipe.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteRecipe удаляет рецепт владельца вместе со строками связей.
// Сами теги и ингредиенты не удаляются — они могут быть общими
// для других рецептов.
func (s *RecipeStorage) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Recipe{})
		if res.Error != nil {
			return fmt.Errorf("ошибка при удалении рецепта: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete recipe", "recipe_id", id, "error", err)
		return false, err
	}
	if deleted {
		s.logger.Info("recipe deleted", "recipe_id", id, "user_id", userID)
	}
	return deleted, nil
}

// applyAttributes выполняет оба прохода согласования в рамках транзакции.
// nil-список оставляет связи нетронутыми; непустой указатель означает
// полную замену набора (пустой список очищает связи).
func (s *RecipeStorage) applyAttributes(ctx context.Context, tx *gorm.DB, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error {
	if tagNames != nil {
		target, err := resolveAttributeSet(ctx, &tagResolver{tx: tx}, recipe.UserID, *tagNames)
		if err != nil {
			return err
		}

		var current []uuid.UUID
		if err := tx.WithContext(ctx).Model(&domain.RecipeTag{}).
			Where("recipe_id = ?", recipe.ID).
			Pluck("tag_id", &current).Error; err != nil {
			return fmt.Errorf("ошибка при чтении связей тегов: %w", err)
		}

		toAdd, toRemove := reconcileAssociations(target, current, reconcileFull)
		for _, tagID := range toAdd {
			if err := tx.WithContext(ctx).Create(&domain.RecipeTag{RecipeID: recipe.ID, TagID: tagID}).Error; err != nil {
				return fmt.Errorf("ошибка при добавлении связи с тегом: %w", err)
			}
		}
		if len(toRemove) > 0 {
			if err := tx.WithContext(ctx).
				Where("recipe_id = ? AND tag_id IN ?", recipe.ID, toRemove).
				Delete(&domain.RecipeTag{}).Error; err != nil {
				return fmt.Errorf("ошибка при удалении связей с тегами: %w", err)
			}
		}
	}

	if ingredientNames != nil {
		target, err := resolveAttributeSet(ctx, &ingredientResolver{tx: tx}, recipe.UserID, *ingredientNames)
		if err != nil {
			return err
		}

		var current []uuid.UUID
		if err := tx.WithContext(ctx).Model(&domain.RecipeIngredient{}).
			Where("recipe_id = ?", recipe.ID).
			Pluck("ingredient_id", &current).Error; err != nil {
			return fmt.Errorf("ошибка при чтении связей ингредиентов: %w", err)
		}

		toAdd, toRemove := reconcileAssociations(target, current, reconcileFull)
		for _, ingredientID := range toAdd {
			if err := tx.WithContext(ctx).Create(&domain.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredientID}).Error; err != nil {
				return fmt.Errorf("ошибка при добавлении связи с ингредиентом: %w", err)
			}
		}
		if len(toRemove) > 0 {
			if err := tx.WithContext(ctx).
				Where("recipe_id = ? AND ingredient_id IN ?", recipe.ID, toRemove).
				Delete(&domain.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("ошибка при удалении связей с ингредиентами: %w", err)
			}
		}
	}

	return nil
}

// reload перечитывает рецепт со связями, чтобы вернуть вызывающему
// актуальное состояние после записи.
func (s *RecipeStorage) reload(ctx context.Context, tx *gorm.DB, recipe *domain.Recipe) error {
	if err := tx.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Take(recipe, "id = ?", recipe.ID).Error; err != nil {
		return fmt.Errorf("ошибка при перечитывании рецепта: %w", err)
	}
	return nil
}
