package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/votecnp/election-api/internal/api"
	"github.com/votecnp/election-api/internal/cache"
	"github.com/votecnp/election-api/internal/config"
	"github.com/votecnp/election-api/internal/db"
	"github.com/votecnp/election-api/internal/event"
	"github.com/votecnp/election-api/internal/logger"
	"github.com/votecnp/election-api/internal/repository/dao"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	config.Watch()

	dbURL := os.Getenv("DATABASE_URL")
	var database *gorm.DB
	switch {
	case dbURL != "":
		database, err = db.OpenPostgresWithURL(dbURL)
	case conf.Database.Driver == config.DriverMySQL:
		database, err = db.OpenMySQL(conf.MySQL)
	default:
		database, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if conf.Database.AutoMigrate {
		if err = dao.InitTables(database); err != nil {
			return fmt.Errorf("failed to migrate database -> %w", err)
		}
	}

	statsCache, err := cache.New(conf.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize cache -> %w", err)
	}
	defer statsCache.Close()

	publisher, err := event.NewPublisher(conf.Kafka)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher -> %w", err)
	}
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := api.NewServer(ctx, conf, database, statsCache, publisher)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
