package usecase

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecipeStorage — хранилище рецептов в памяти. Методы чтения/записи
// видят только рецепты запрошенного владельца, как и настоящее хранилище.
type fakeRecipeStorage struct {
	recipes map[uuid.UUID]*domain.Recipe

	// имена, переданные последним вызовом записи
	lastTagNames        *[]string
	lastIngredientNames *[]string
}

func newFakeRecipeStorage() *fakeRecipeStorage {
	return &fakeRecipeStorage{recipes: map[uuid.UUID]*domain.Recipe{}}
}

func (s *fakeRecipeStorage) CreateRecipe(_ context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error {
	s.lastTagNames, s.lastIngredientNames = tagNames, ingredientNames
	copied := *recipe
	s.recipes[recipe.ID] = &copied
	return nil
}

func (s *fakeRecipeStorage) GetRecipeByID(_ context.Context, userID, id uuid.UUID) (*domain.Recipe, error) {
	recipe, ok := s.recipes[id]
	if !ok || recipe.UserID != userID {
		return nil, nil
	}
	copied := *recipe
	return &copied, nil
}

func (s *fakeRecipeStorage) ListRecipes(_ context.Context, userID uuid.UUID, _ domain.RecipeFilter) ([]domain.Recipe, error) {
	var out []domain.Recipe
	for _, recipe := range s.recipes {
		if recipe.UserID == userID {
			out = append(out, *recipe)
		}
	}
	return out, nil
}

func (s *fakeRecipeStorage) UpdateRecipe(_ context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error {
	s.lastTagNames, s.lastIngredientNames = tagNames, ingredientNames
	copied := *recipe
	s.recipes[recipe.ID] = &copied
	return nil
}

func (s *fakeRecipeStorage) DeleteRecipe(_ context.Context, userID, id uuid.UUID) (bool, error) {
	recipe, ok := s.recipes[id]
	if !ok || recipe.UserID != userID {
		return false, nil
	}
	delete(s.recipes, id)
	return true, nil
}

type fakeAttributeStorage struct {
	tags        map[uuid.UUID]*domain.Tag
	ingredients map[uuid.UUID]*domain.Ingredient
	updateErr   error
}

func newFakeAttributeStorage() *fakeAttributeStorage {
	return &fakeAttributeStorage{
		tags:        map[uuid.UUID]*domain.Tag{},
		ingredients: map[uuid.UUID]*domain.Ingredient{},
	}
}

func (s *fakeAttributeStorage) ListTags(_ context.Context, userID uuid.UUID, _ bool) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, tag := range s.tags {
		if tag.UserID == userID {
			out = append(out, *tag)
		}
	}
	return out, nil
}

func (s *fakeAttributeStorage) UpdateTag(_ context.Context, userID, id uuid.UUID, name string) (*domain.Tag, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	tag, ok := s.tags[id]
	if !ok || tag.UserID != userID {
		return nil, nil
	}
	tag.Name = name
	copied := *tag
	return &copied, nil
}

func (s *fakeAttributeStorage) DeleteTag(_ context.Context, userID, id uuid.UUID) (bool, error) {
	tag, ok := s.tags[id]
	if !ok || tag.UserID != userID {
		return false, nil
	}
	delete(s.tags, id)
	return true, nil
}

func (s *fakeAttributeStorage) ListIngredients(_ context.Context, userID uuid.UUID, _ bool) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	for _, ingredient := range s.ingredients {
		if ingredient.UserID == userID {
			out = append(out, *ingredient)
		}
	}
	return out, nil
}

func (s *fakeAttributeStorage) UpdateIngredient(_ context.Context, userID, id uuid.UUID, name string) (*domain.Ingredient, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	ingredient, ok := s.ingredients[id]
	if !ok || ingredient.UserID != userID {
		return nil, nil
	}
	ingredient.Name = name
	copied := *ingredient
	return &copied, nil
}

func (s *fakeAttributeStorage) DeleteIngredient(_ context.Context, userID, id uuid.UUID) (bool, error) {
	ingredient, ok := s.ingredients[id]
	if !ok || ingredient.UserID != userID {
		return false, nil
	}
	delete(s.ingredients, id)
	return true, nil
}

type fakeFileStorage struct {
	uploads map[string]string // key -> contentType
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{uploads: map[string]string{}}
}

func (s *fakeFileStorage) UploadFile(_ context.Context, key string, _ io.Reader, contentType string) (string, error) {
	s.uploads[key] = contentType
	return "http://minio:9000/recipeapp/" + key, nil
}

func (s *fakeFileStorage) DeleteFile(_ context.Context, key string) error {
	delete(s.uploads, key)
	return nil
}

type recipeFixture struct {
	uc         RecipeUseCase
	recipes    *fakeRecipeStorage
	attributes *fakeAttributeStorage
	files      *fakeFileStorage
}

func newRecipeFixture() *recipeFixture {
	recipes := newFakeRecipeStorage()
	attributes := newFakeAttributeStorage()
	files := newFakeFileStorage()
	return &recipeFixture{
		uc:         NewRecipeUseCase(recipes, attributes, attributes, files, discardLogger()),
		recipes:    recipes,
		attributes: attributes,
		files:      files,
	}
}

func TestCreateRecipeAssignsOwner(t *testing.T) {
	f := newRecipeFixture()
	userID := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), userID, RecipeInput{
		Title:       "Борщ",
		TimeMinutes: 90,
		Price:       decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, userID, recipe.UserID)
	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, "12.5", recipe.Price.String())
	assert.False(t, recipe.CreatedAt.IsZero())
}

// Чужой рецепт неотличим от несуществующего.
func TestGetRecipeForeignOwner(t *testing.T) {
	f := newRecipeFixture()
	owner := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), owner, RecipeInput{Title: "Суп"})
	require.NoError(t, err)

	_, err = f.uc.GetRecipe(context.Background(), domain.NewID(), recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRecipeScalars(t *testing.T) {
	f := newRecipeFixture()
	userID := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), userID, RecipeInput{Title: "Старое", TimeMinutes: 10})
	require.NoError(t, err)

	title := "Новое"
	updated, err := f.uc.UpdateRecipe(context.Background(), userID, recipe.ID, domain.RecipePatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Новое", updated.Title)
	assert.Equal(t, 10, updated.TimeMinutes)
	// отсутствующие в патче наборы связей не передаются хранилищу
	assert.Nil(t, f.recipes.lastTagNames)
	assert.Nil(t, f.recipes.lastIngredientNames)
}

// Владелец не меняется обновлением: патч не содержит владельца вовсе,
// а чужой рецепт недоступен для записи.
func TestUpdateRecipeForeignOwner(t *testing.T) {
	f := newRecipeFixture()
	owner := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), owner, RecipeInput{Title: "Суп"})
	require.NoError(t, err)

	title := "Взлом"
	_, err = f.uc.UpdateRecipe(context.Background(), domain.NewID(), recipe.ID, domain.RecipePatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	kept, err := f.uc.GetRecipe(context.Background(), owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Суп", kept.Title)
}

// Пустой список в патче — это полная замена на пустой набор,
// он обязан дойти до хранилища, а не потеряться как nil.
func TestUpdateRecipeEmptyTagListReachesStorage(t *testing.T) {
	f := newRecipeFixture()
	userID := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), userID, RecipeInput{Title: "Суп"})
	require.NoError(t, err)

	empty := []string{}
	_, err = f.uc.UpdateRecipe(context.Background(), userID, recipe.ID, domain.RecipePatch{Tags: &empty})
	require.NoError(t, err)

	require.NotNil(t, f.recipes.lastTagNames)
	assert.Empty(t, *f.recipes.lastTagNames)
	assert.Nil(t, f.recipes.lastIngredientNames)
}

func TestDeleteRecipe(t *testing.T) {
	f := newRecipeFixture()
	userID := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), userID, RecipeInput{Title: "Суп"})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteRecipe(context.Background(), userID, recipe.ID))

	err = f.uc.DeleteRecipe(context.Background(), userID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecipeForeignOwner(t *testing.T) {
	f := newRecipeFixture()
	owner := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), owner, RecipeInput{Title: "Суп"})
	require.NoError(t, err)

	err = f.uc.DeleteRecipe(context.Background(), domain.NewID(), recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadRecipeImage(t *testing.T) {
	f := newRecipeFixture()
	userID := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), userID, RecipeInput{Title: "Суп"})
	require.NoError(t, err)

	updated, err := f.uc.UploadRecipeImage(context.Background(), userID, recipe.ID, strings.NewReader("img"), "image/png")
	require.NoError(t, err)

	assert.Contains(t, updated.ImageURL, recipe.ID.String()+".png")
	assert.Len(t, f.files.uploads, 1)
}

// Неподдерживаемый тип содержимого отклоняется до обращения к хранилищу.
func TestUploadRecipeImageBadContentType(t *testing.T) {
	f := newRecipeFixture()
	userID := domain.NewID()

	recipe, err := f.uc.CreateRecipe(context.Background(), userID, RecipeInput{Title: "Суп"})
	require.NoError(t, err)

	_, err = f.uc.UploadRecipeImage(context.Background(), userID, recipe.ID, strings.NewReader("bad"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Empty(t, f.files.uploads)
}

func TestUpdateTagDuplicateName(t *testing.T) {
	f := newRecipeFixture()
	f.attributes.updateErr = ports.ErrUniqueViolation

	_, err := f.uc.UpdateTag(context.Background(), domain.NewID(), domain.NewID(), "занято")
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestUpdateIngredientForeignOwner(t *testing.T) {
	f := newRecipeFixture()
	owner := domain.NewID()
	ingredient := &domain.Ingredient{ID: domain.NewID(), UserID: owner, Name: "соль"}
	f.attributes.ingredients[ingredient.ID] = ingredient

	_, err := f.uc.UpdateIngredient(context.Background(), domain.NewID(), ingredient.ID, "перец")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "соль", f.attributes.ingredients[ingredient.ID].Name)
}

func TestDeleteTagForeignOwner(t *testing.T) {
	f := newRecipeFixture()
	owner := domain.NewID()
	tag := &domain.Tag{ID: domain.NewID(), UserID: owner, Name: "ужин"}
	f.attributes.tags[tag.ID] = tag

	err := f.uc.DeleteTag(context.Background(), domain.NewID(), tag.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.uc.DeleteTag(context.Background(), owner, tag.ID))
}
