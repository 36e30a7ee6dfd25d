package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeHandler — обработчик HTTP-запросов для работы с рецептами,
// тегами и ингредиентами.
type RecipeHandler struct {
	recipeUseCase usecase.RecipeUseCase
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewRecipeHandler создаёт новый экземпляр RecipeHandler.
func NewRecipeHandler(uc usecase.RecipeUseCase, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeUseCase: uc,
		validate:      validator.New(),
		logger:        logger,
	}
}

type attributeInput struct {
	Name string `json:"name"`
}

// recipeRequest используется для POST и PUT: скалярные поля обязательны,
// nil-список тегов/ингредиентов оставляет связи нетронутыми.
type recipeRequest struct {
	Title       string            `json:"title" validate:"required"`
	TimeMinutes int               `json:"time_minutes" validate:"gte=0"`
	Price       decimal.Decimal   `json:"price"`
	Description string            `json:"description"`
	Link        string            `json:"link"`
	Tags        *[]attributeInput `json:"tags"`
	Ingredients *[]attributeInput `json:"ingredients"`
}

// recipePatchRequest — частичное обновление: nil-поле не трогаем.
type recipePatchRequest struct {
	Title       *string           `json:"title"`
	TimeMinutes *int              `json:"time_minutes"`
	Price       *decimal.Decimal  `json:"price"`
	Description *string           `json:"description"`
	Link        *string           `json:"link"`
	Tags        *[]attributeInput `json:"tags"`
	Ingredients *[]attributeInput `json:"ingredients"`
}

type attributeUpdateRequest struct {
	Name string `json:"name" validate:"required"`
}

// attributeNames переводит inline-объекты {name} в список имен.
// Пустое имя — ошибка валидации.
func attributeNames(field string, items *[]attributeInput) (*[]string, map[string]string) {
	if items == nil {
		return nil, nil
	}
	names := make([]string, 0, len(*items))
	for _, item := range *items {
		if item.Name == "" {
			return nil, map[string]string{field: "имя не может быть пустым"}
		}
		names = append(names, item.Name)
	}
	return &names, nil
}

// parseIDFilter разбирает список id через запятую из query-параметра.
func parseIDFilter(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// pathID достает id записи из URL.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func assignedOnly(r *http.Request) bool {
	v := r.URL.Query().Get("assigned_only")
	return v == "1" || v == "true"
}

// ListRecipes — получает рецепты пользователя, новые первыми.
// Фильтры: tags и ingredients — списки id через запятую.
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}

	tagIDs, err := parseIDFilter(r.URL.Query().Get("tags"))
	if err != nil {
		respondWithFieldErrors(w, map[string]string{"tags": "некорректный список id"}, h.logger)
		return
	}
	ingredientIDs, err := parseIDFilter(r.URL.Query().Get("ingredients"))
	if err != nil {
		respondWithFieldErrors(w, map[string]string{"ingredients": "некорректный список id"}, h.logger)
		return
	}

	recipes, err := h.recipeUseCase.ListRecipes(r.Context(), userID, domain.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, recipes, h.logger)
}

// CreateRecipe — создает рецепт с inline-списками тегов/ингредиентов.
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithFieldErrors(w, validationFieldMap(err), h.logger)
		return
	}

	tags, fieldErr := attributeNames("tags", req.Tags)
	if fieldErr != nil {
		respondWithFieldErrors(w, fieldErr, h.logger)
		return
	}
	ingredients, fieldErr := attributeNames("ingredients", req.Ingredients)
	if fieldErr != nil {
		respondWithFieldErrors(w, fieldErr, h.logger)
		return
	}

	recipe, err := h.recipeUseCase.CreateRecipe(r.Context(), userID, usecase.RecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        tags,
		Ingredients: ingredients,
	})
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, recipe, h.logger)
}

// GetRecipe — детали рецепта пользователя.
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	recipeID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	recipe, err := h.recipeUseCase.GetRecipe(r.Context(), userID, recipeID)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

// ReplaceRecipe — полное обновление (PUT): все скалярные поля обязательны,
// присутствующий список имен полностью заменяет набор связей.
func (h *RecipeHandler) ReplaceRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	recipeID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithFieldErrors(w, validationFieldMap(err), h.logger)
		return
	}

	tags, fieldErr := attributeNames("tags", req.Tags)
	if fieldErr != nil {
		respondWithFieldErrors(w, fieldErr, h.logger)
		return
	}
	ingredients, fieldErr := attributeNames("ingredients", req.Ingredients)
	if fieldErr != nil {
		respondWithFieldErrors(w, fieldErr, h.logger)
		return
	}

	patch := domain.RecipePatch{
		Title:       &req.Title,
		TimeMinutes: &req.TimeMinutes,
		Price:       &req.Price,
		Description: &req.Description,
		Link:        &req.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}

	recipe, err := h.recipeUseCase.UpdateRecipe(r.Context(), userID, recipeID, patch)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

// PatchRecipe — частичное обновление. Отсутствующее поле не трогается;
// присутствующий список тегов/ингредиентов (в том числе пустой)
// полностью заменяет набор связей.
func (h *RecipeHandler) PatchRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	recipeID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	var req recipePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if req.Title != nil && *req.Title == "" {
		respondWithFieldErrors(w, map[string]string{"title": "обязательное поле"}, h.logger)
		return
	}

	tags, fieldErr := attributeNames("tags", req.Tags)
	if fieldErr != nil {
		respondWithFieldErrors(w, fieldErr, h.logger)
		return
	}
	ingredients, fieldErr := attributeNames("ingredients", req.Ingredients)
	if fieldErr != nil {
		respondWithFieldErrors(w, fieldErr, h.logger)
		return
	}

	patch := domain.RecipePatch{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}

	recipe, err := h.recipeUseCase.UpdateRecipe(r.Context(), userID, recipeID, patch)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

// DeleteRecipe — удаляет рецепт пользователя.
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	recipeID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	if err := h.recipeUseCase.DeleteRecipe(r.Context(), userID, recipeID); err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage — принимает multipart-поле image и сохраняет изображение
// рецепта в файловом хранилище.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	recipeID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithFieldErrors(w, map[string]string{"image": "обязательное поле"}, h.logger)
		return
	}
	defer file.Close()

	recipe, err := h.recipeUseCase.UploadRecipeImage(r.Context(), userID, recipeID, file, header.Header.Get("Content-Type"))
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

// ListTags — теги пользователя, по имени по убыванию.
// assigned_only=1 оставляет только привязанные к рецептам.
func (h *RecipeHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}

	tags, err := h.recipeUseCase.ListTags(r.Context(), userID, assignedOnly(r))
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tags, h.logger)
}

// PatchTag — переименовывает тег.
func (h *RecipeHandler) PatchTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	tagID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	var req attributeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithFieldErrors(w, validationFieldMap(err), h.logger)
		return
	}

	tag, err := h.recipeUseCase.UpdateTag(r.Context(), userID, tagID, req.Name)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tag, h.logger)
}

// DeleteTag — удаляет тег пользователя.
func (h *RecipeHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	tagID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	if err := h.recipeUseCase.DeleteTag(r.Context(), userID, tagID); err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListIngredients — ингредиенты пользователя, семантика как у тегов.
func (h *RecipeHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}

	ingredients, err := h.recipeUseCase.ListIngredients(r.Context(), userID, assignedOnly(r))
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, ingredients, h.logger)
}

// PatchIngredient — переименовывает ингредиент.
func (h *RecipeHandler) PatchIngredient(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	ingredientID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	var req attributeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithFieldErrors(w, validationFieldMap(err), h.logger)
		return
	}

	ingredient, err := h.recipeUseCase.UpdateIngredient(r.Context(), userID, ingredientID, req.Name)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, ingredient, h.logger)
}

// DeleteIngredient — удаляет ингредиент пользователя.
func (h *RecipeHandler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}
	ingredientID, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	if err := h.recipeUseCase.DeleteIngredient(r.Context(), userID, ingredientID); err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
