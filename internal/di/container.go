package di

import (
	"github.com/GoArmGo/RecipeApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/RecipeApp/internal/app"
	"github.com/GoArmGo/RecipeApp/internal/auth"
	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/GoArmGo/RecipeApp/internal/database/client"
	"github.com/GoArmGo/RecipeApp/internal/database/storage"
	"github.com/GoArmGo/RecipeApp/internal/handler"
	"github.com/GoArmGo/RecipeApp/internal/logger"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента (sqlx + GORM, миграции при старте)
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	recipeStorage := storage.NewRecipeStorage(dbClient.Gorm, slogger)
	attributeStorage := storage.NewAttributeStorage(dbClient.Gorm, slogger)

	// 4. Инициализация файлового хранилища (S3 / MinIO)
	fileStorage, err := minio.NewMinioClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 5. Инициализация токенов
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// 6. Инициализация бизнес-логики (usecases)
	userUseCase := usecase.NewUserUseCase(userStorage, slogger)
	recipeUseCase := usecase.NewRecipeUseCase(recipeStorage, attributeStorage, attributeStorage, fileStorage, slogger)

	// 7. Инициализация обработчиков
	userHandler := handler.NewUserHandler(userUseCase, tokens, slogger)
	recipeHandler := handler.NewRecipeHandler(recipeUseCase, slogger)

	// 8. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, dbClient, tokens, userHandler, recipeHandler)

	slogger.Info("all dependencies initialized")
	return application, nil
}
