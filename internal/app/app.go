package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/RecipeApp/internal/auth"
	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/GoArmGo/RecipeApp/internal/database/client"
	"github.com/GoArmGo/RecipeApp/internal/handler"
)

// App собирает все зависимости приложения.
type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	dbClient      *client.Client
	tokens        *auth.TokenManager
	userHandler   *handler.UserHandler
	recipeHandler *handler.RecipeHandler
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	dbClient *client.Client,
	tokens *auth.TokenManager,
	userHandler *handler.UserHandler,
	recipeHandler *handler.RecipeHandler,
) *App {
	return &App{
		cfg:           cfg,
		logger:        logger,
		dbClient:      dbClient,
		tokens:        tokens,
		userHandler:   userHandler,
		recipeHandler: recipeHandler,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает HTTP сервер и блокируется до сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := newRouter(a.cfg, a.logger, a.tokens, a.userHandler, a.recipeHandler)

	err := runServer(ctx, a.cfg, a.logger, router)

	// аккуратно закрываем ресурсы вне зависимости от исхода
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown error", "error", closeErr)
	}

	if err != nil {
		return err
	}

	a.logger.Info("application stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения.
func (a *App) Shutdown() error {
	if a.dbClient != nil {
		if err := a.dbClient.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}
	return nil
}
