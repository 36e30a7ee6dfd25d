package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/RecipeApp/internal/usecase"
	"github.com/go-playground/validator/v10"
)

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithFieldErrors — 400 с картой ошибок по полям.
func respondWithFieldErrors(w http.ResponseWriter, fields map[string]string, logger *slog.Logger) {
	respondWithJSON(w, http.StatusBadRequest, fields, logger)
}

// validationFieldMap переводит ошибки валидатора в карту "поле — сообщение".
// Имена полей приводятся к snake_case, как в JSON-полезной нагрузке.
func validationFieldMap(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["detail"] = "некорректное тело запроса"
		return fields
	}

	for _, fe := range verrs {
		name := toSnakeCase(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "обязательное поле"
		case "email":
			fields[name] = "некорректный email"
		case "min":
			fields[name] = "значение короче минимальной длины " + fe.Param()
		case "gte":
			fields[name] = "значение должно быть не меньше " + fe.Param()
		default:
			fields[name] = "некорректное значение"
		}
	}
	return fields
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// mapUsecaseError переводит ошибки бизнес-логики в HTTP-статусы.
// Чужие записи отдаются как 404, а не 403: существование скрыто от не-владельца.
func mapUsecaseError(w http.ResponseWriter, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Не найдено", logger)
	case errors.Is(err, usecase.ErrEmailTaken):
		respondWithFieldErrors(w, map[string]string{"email": "email уже зарегистрирован"}, logger)
	case errors.Is(err, usecase.ErrNameTaken):
		respondWithFieldErrors(w, map[string]string{"name": "имя уже занято"}, logger)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		respondWithError(w, http.StatusBadRequest, "Неверный email или пароль", logger)
	case errors.Is(err, usecase.ErrInvalidImage):
		respondWithFieldErrors(w, map[string]string{"image": "недопустимое изображение"}, logger)
	default:
		logger.Error("unhandled usecase error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", logger)
	}
}
