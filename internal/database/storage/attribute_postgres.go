package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttributeStorage реализует ports.TagStorage и ports.IngredientStorage
// с использованием GORM. Все выборки и изменения ограничены владельцем.
type AttributeStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAttributeStorage(db *gorm.DB, logger *slog.Logger) *AttributeStorage {
	return &AttributeStorage{db: db, logger: logger}
}

// ListTags получает теги пользователя, отсортированные по имени по убыванию.
// assignedOnly ограничивает выдачу тегами, привязанными хотя бы к одному
// рецепту; тег с несколькими рецептами в выдаче один раз.
func (s *AttributeStorage) ListTags(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Tag, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).Model(&domain.Tag{}).Where("tags.user_id = ?", userID)
	if assignedOnly {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").Distinct()
	}

	var tags []domain.Tag
	if err := q.Order("tags.name DESC").Find(&tags).Error; err != nil {
		s.logger.Error("failed to list tags", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка тегов: %w", err)
	}

	s.logger.Info("tags listed",
		"user_id", userID,
		"assigned_only", assignedOnly,
		"count", len(tags),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tags, nil
}

// UpdateTag переименовывает тег пользователя. Возвращает nil, nil,
// если тег не существует или принадлежит другому пользователю.
func (s *AttributeStorage) UpdateTag(ctx context.Context, userID, id uuid.UUID, name string) (*domain.Tag, error) {
	res := s.db.WithContext(ctx).Model(&domain.Tag{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("name", name)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrUniqueViolation
		}
		s.logger.Error("failed to update tag", "tag_id", id, "error", res.Error)
		return nil, fmt.Errorf("ошибка при обновлении тега: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Warn("tag not found for update", "tag_id", id, "user_id", userID)
		return nil, nil
	}
	return &domain.Tag{ID: id, UserID: userID, Name: name}, nil
}

// DeleteTag удаляет тег пользователя вместе со связями с рецептами.
func (s *AttributeStorage) DeleteTag(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Tag{})
	if res.Error != nil {
		s.logger.Error("failed to delete tag", "tag_id", id, "error", res.Error)
		return false, fmt.Errorf("ошибка при удалении тега: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListIngredients получает ингредиенты пользователя, сортировка и семантика
// assignedOnly те же, что и у тегов.
func (s *AttributeStorage) ListIngredients(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]domain.Ingredient, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).Model(&domain.Ingredient{}).Where("ingredients.user_id = ?", userID)
	if assignedOnly {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").Distinct()
	}

	var ingredients []domain.Ingredient
	if err := q.Order("ingredients.name DESC").Find(&ingredients).Error; err != nil {
		s.logger.Error("failed to list ingredients", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка ингредиентов: %w", err)
	}

	s.logger.Info("ingredients listed",
		"user_id", userID,
		"assigned_only", assignedOnly,
		"count", len(ingredients),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ingredients, nil
}

// UpdateIngredient переименовывает ингредиент пользователя.
func (s *AttributeStorage) UpdateIngredient(ctx context.Context, userID, id uuid.UUID, name string) (*domain.Ingredient, error) {
	res := s.db.WithContext(ctx).Model(&domain.Ingredient{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("name", name)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrUniqueViolation
		}
		s.logger.Error("failed to update ingredient", "ingredient_id", id, "error", res.Error)
		return nil, fmt.Errorf("ошибка при обновлении ингредиента: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Warn("ingredient not found for update", "ingredient_id", id, "user_id", userID)
		return nil, nil
	}
	return &domain.Ingredient{ID: id, UserID: userID, Name: name}, nil
}

// DeleteIngredient удаляет ингредиент пользователя вместе со связями.
func (s *AttributeStorage) DeleteIngredient(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Ingredient{})
	if res.Error != nil {
		s.logger.Error("failed to delete ingredient", "ingredient_id", id, "error", res.Error)
		return false, fmt.Errorf("ошибка при удалении ингредиента: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// tagResolver — upsert тега в рамках транзакции рецепта.
// Вставка идет с ON CONFLICT DO NOTHING: при гонке конкурирующая вставка
// выигрывает, и запись перечитывается вместо создания дубликата.
type tagResolver struct {
	tx *gorm.DB
}

func (r *tagResolver) Resolve(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error) {
	var tag domain.Tag
	err := r.tx.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Take(&tag).Error
	if err == nil {
		return tag.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("ошибка при поиске тега %q: %w", name, err)
	}

	tag = domain.Tag{ID: domain.NewID(), UserID: userID, Name: name}
	res := r.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&tag)
	if res.Error != nil {
		return uuid.Nil, fmt.Errorf("ошибка при создании тега %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := r.tx.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Take(&tag).Error; err != nil {
			return uuid.Nil, fmt.Errorf("ошибка при перечитывании тега %q: %w", name, err)
		}
	}
	return tag.ID, nil
}

// ingredientResolver — upsert ингредиента, та же схема, что и у тегов.
type ingredientResolver struct {
	tx *gorm.DB
}

func (r *ingredientResolver) Resolve(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error) {
	var ingredient domain.Ingredient
	err := r.tx.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Take(&ingredient).Error
	if err == nil {
		return ingredient.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("ошибка при поиске ингредиента %q: %w", name, err)
	}

	ingredient = domain.Ingredient{ID: domain.NewID(), UserID: userID, Name: name}
	res := r.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&ingredient)
	if res.Error != nil {
		return uuid.Nil, fmt.Errorf("ошибка при создании ингредиента %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := r.tx.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Take(&ingredient).Error; err != nil {
			return uuid.Nil, fmt.Errorf("ошибка при перечитывании ингредиента %q: %w", name, err)
		}
	}
	return ingredient.ID, nil
}
