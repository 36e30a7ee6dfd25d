package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe представляет модель рецепта,
// соответствует таблице recipes в бд.
// Владелец (UserID) назначается при создании и больше не меняется.
type Recipe struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;index"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(5,2)"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Tags        []Tag           `json:"tags" gorm:"many2many:recipe_tags"`
	Ingredients []Ingredient    `json:"ingredients" gorm:"many2many:recipe_ingredients"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Tag представляет модель тега,
// соответствует таблице tags в бд.
// Уникален в пределах (user_id, name).
type Tag struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Name   string    `json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// Ingredient представляет модель ингредиента,
// та же форма и жизненный цикл, что и у тега.
type Ingredient struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Name   string    `json:"name"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// RecipeTag представляет связующую модель для отношения Many-to-Many между Recipe и Tag,
// соответствует таблице recipe_tags в бд.
type RecipeTag struct {
	RecipeID uuid.UUID `json:"recipe_id" gorm:"type:uuid;primaryKey"`
	TagID    uuid.UUID `json:"tag_id" gorm:"type:uuid;primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient — связующая модель между Recipe и Ingredient,
// соответствует таблице recipe_ingredients в бд.
type RecipeIngredient struct {
	RecipeID     uuid.UUID `json:"recipe_id" gorm:"type:uuid;primaryKey"`
	IngredientID uuid.UUID `json:"ingredient_id" gorm:"type:uuid;primaryKey"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeFilter описывает фильтры списка рецептов: внутри каждой категории
// достаточно совпадения по любому id, между категориями — пересечение.
type RecipeFilter struct {
	TagIDs        []uuid.UUID
	IngredientIDs []uuid.UUID
}

// RecipePatch описывает частичное обновление рецепта.
// nil-поле означает "не трогать"; для Tags/Ingredients непустой указатель
// означает полную замену набора связей (пустой список очищает набор).
type RecipePatch struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}
