package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/RecipeApp/internal/auth"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
	"github.com/go-playground/validator/v10"
)

// UserHandler — обработчик HTTP-запросов регистрации, выдачи токена
// и работы с собственным профилем.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	tokens      *auth.TokenManager
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, tokens *auth.TokenManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: uc,
		tokens:      tokens,
		validate:    validator.New(),
		logger:      logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name" validate:"required"`
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profilePatchRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

// Create — регистрация пользователя.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithFieldErrors(w, validationFieldMap(err), h.logger)
		return
	}

	user, err := h.userUseCase.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, user, h.logger)
}

// Token — выдает токен доступа по паре email/пароль.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithFieldErrors(w, validationFieldMap(err), h.logger)
		return
	}

	user, err := h.userUseCase.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("failed to issue token", "user_id", user.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": token}, h.logger)
}

// Me — собственный профиль.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}

	user, err := h.userUseCase.GetProfile(r.Context(), userID)
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// UpdateMe — частичное обновление профиля (имя, пароль).
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", h.logger)
		return
	}

	var req profilePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithFieldErrors(w, validationFieldMap(err), h.logger)
		return
	}

	user, err := h.userUseCase.UpdateProfile(r.Context(), userID, usecase.UserProfilePatch{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		mapUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}
