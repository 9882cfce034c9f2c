package main

import (
	"context"

	"github.com/VictorDENSC/CaisseNoire/internal/api"
	"github.com/VictorDENSC/CaisseNoire/internal/config"
	"github.com/VictorDENSC/CaisseNoire/internal/db"
	"github.com/VictorDENSC/CaisseNoire/internal/repository"
	"github.com/VictorDENSC/CaisseNoire/internal/service"
	"github.com/VictorDENSC/CaisseNoire/pkg/logger"
	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	logger.Info("database connection established")

	transactor := db.NewPgxTransactor(pool)

	teamRepo := repository.NewPgxTeamRepository(pool)
	userRepo := repository.NewPgxUserRepository(pool)
	sanctionRepo := repository.NewPgxSanctionRepository(pool)

	teams := service.NewTeamService(transactor).WithTeamRepo(teamRepo)
	users := service.NewUserService(transactor).WithUserRepo(userRepo)
	sanctions := service.NewSanctionService(transactor).WithTeamRepo(teamRepo).WithSanctionRepo(sanctionRepo)

	healthChecker := api.MustNewHealthChecker(health.Config{
		Name: "postgres",
		Check: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	})

	e := echo.New()

	handler := api.NewHandler(logger).
		WithHealthChecker(healthChecker).
		WithTeamService(teams).
		WithUserService(users).
		WithSanctionService(sanctions)

	handler.RegisterRoutes(e)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err = e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
