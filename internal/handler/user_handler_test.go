package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/auth"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserUseCase struct {
	register      func(ctx context.Context, email, name, password string) (*domain.User, error)
	authenticate  func(ctx context.Context, email, password string) (*domain.User, error)
	getProfile    func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	updateProfile func(ctx context.Context, userID uuid.UUID, patch usecase.UserProfilePatch) (*domain.User, error)
}

func (s *stubUserUseCase) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	if s.register == nil {
		return domain.NewUser(email, name, "hash")
	}
	return s.register(ctx, email, name, password)
}

func (s *stubUserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if s.authenticate == nil {
		return nil, usecase.ErrInvalidCredentials
	}
	return s.authenticate(ctx, email, password)
}

func (s *stubUserUseCase) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.getProfile == nil {
		return nil, usecase.ErrNotFound
	}
	return s.getProfile(ctx, userID)
}

func (s *stubUserUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, patch usecase.UserProfilePatch) (*domain.User, error) {
	if s.updateProfile == nil {
		return nil, usecase.ErrNotFound
	}
	return s.updateProfile(ctx, userID, patch)
}

// userTestServer монтирует маршруты пользователя: create и token открыты,
// me — за аутентификацией.
func userTestServer(t *testing.T, uc usecase.UserUseCase) (*httptest.Server, *auth.TokenManager) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewUserHandler(uc, tokens, testLogger())

	r := chi.NewRouter()
	r.Post("/user/create", h.Create)
	r.Post("/user/token", h.Token)
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(tokens, testLogger()))
		r.Get("/user/me", h.Me)
		r.Patch("/user/me", h.UpdateMe)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func TestUserCreate(t *testing.T) {
	srv, _ := userTestServer(t, &stubUserUseCase{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/user/create", "", map[string]string{
		"email":    "new@example.com",
		"password": "testpass",
		"name":     "Имя",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "new@example.com", body["email"])
	// хеш пароля не попадает в ответ
	assert.NotContains(t, body, "password_hash")
}

func TestUserCreateShortPassword(t *testing.T) {
	srv, _ := userTestServer(t, &stubUserUseCase{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/user/create", "", map[string]string{
		"email":    "new@example.com",
		"password": "pw",
		"name":     "Имя",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fields map[string]string
	decodeBody(t, resp, &fields)
	assert.Contains(t, fields, "password")
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	uc := &stubUserUseCase{
		register: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, usecase.ErrEmailTaken
		},
	}
	srv, _ := userTestServer(t, uc)

	resp := doJSON(t, http.MethodPost, srv.URL+"/user/create", "", map[string]string{
		"email":    "taken@example.com",
		"password": "testpass",
		"name":     "Имя",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fields map[string]string
	decodeBody(t, resp, &fields)
	assert.Contains(t, fields, "email")
}

func TestUserToken(t *testing.T) {
	user, err := domain.NewUser("user@example.com", "Имя", "hash")
	require.NoError(t, err)

	uc := &stubUserUseCase{
		authenticate: func(_ context.Context, email, password string) (*domain.User, error) {
			if email == "user@example.com" && password == "testpass" {
				return user, nil
			}
			return nil, usecase.ErrInvalidCredentials
		},
	}
	srv, tokens := userTestServer(t, uc)

	resp := doJSON(t, http.MethodPost, srv.URL+"/user/token", "", map[string]string{
		"email":    "user@example.com",
		"password": "testpass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body["token"])

	claims, err := tokens.Parse(body["token"])
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestUserTokenBadCredentials(t *testing.T) {
	srv, _ := userTestServer(t, &stubUserUseCase{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/user/token", "", map[string]string{
		"email":    "user@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserMeRequiresAuth(t *testing.T) {
	srv, _ := userTestServer(t, &stubUserUseCase{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserMe(t *testing.T) {
	user, err := domain.NewUser("user@example.com", "Имя", "hash")
	require.NoError(t, err)

	uc := &stubUserUseCase{
		getProfile: func(_ context.Context, userID uuid.UUID) (*domain.User, error) {
			require.Equal(t, user.ID, userID)
			return user, nil
		},
	}
	srv, tokens := userTestServer(t, uc)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, srv.URL+"/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "user@example.com", body["email"])
}

func TestUserUpdateMeShortPassword(t *testing.T) {
	user, err := domain.NewUser("user@example.com", "Имя", "hash")
	require.NoError(t, err)

	srv, tokens := userTestServer(t, &stubUserUseCase{})
	token, err := tokens.Issue(user)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPatch, srv.URL+"/user/me", token, map[string]string{"password": "pw"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fields map[string]string
	decodeBody(t, resp, &fields)
	assert.Contains(t, fields, "password")
}
