package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/auth"
	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/GoArmGo/RecipeApp/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// newRouter собирает маршруты API. Регистрация и выдача токена открыты,
// все остальное — за Bearer-токеном.
func newRouter(
	cfg *config.Config,
	logger *slog.Logger,
	tokens *auth.TokenManager,
	userHandler *handler.UserHandler,
	recipeHandler *handler.RecipeHandler,
) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(handler.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	authenticator := handler.Authenticator(tokens, logger)

	r.Route("/user", func(r chi.Router) {
		r.Post("/create", userHandler.Create)
		r.Post("/token", userHandler.Token)
		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", userHandler.Me)
			r.Patch("/me", userHandler.UpdateMe)
		})
	})

	r.Route("/recipe", func(r chi.Router) {
		r.Use(authenticator)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipeHandler.ListRecipes)
			r.Post("/", recipeHandler.CreateRecipe)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", recipeHandler.GetRecipe)
				r.Put("/", recipeHandler.ReplaceRecipe)
				r.Patch("/", recipeHandler.PatchRecipe)
				r.Delete("/", recipeHandler.DeleteRecipe)
				r.Post("/upload-image", recipeHandler.UploadImage)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", recipeHandler.ListTags)
			r.Patch("/{id}", recipeHandler.PatchTag)
			r.Delete("/{id}", recipeHandler.DeleteTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", recipeHandler.ListIngredients)
			r.Patch("/{id}", recipeHandler.PatchIngredient)
			r.Delete("/{id}", recipeHandler.DeleteIngredient)
		})
	})

	return r
}

// runServer запускает HTTP сервер и обеспечивает graceful shutdown.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, router chi.Router) error {
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	ctxServer, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
