package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/config"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/handlers"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/persistence/memory"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/persistence/mongodb"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/persistence/postgres"
)

type stores struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	health   handlers.HealthCheck
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, sqlDB, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := postgres.RunMigrations(ctx, sqlDB); err != nil {
				_ = sqlDB.Close()
				pool.Close()
				return nil, err
			}
			log.Info().Msg("migrations applied")
		}
		return &stores{
			users:    postgres.NewUserRepository(sqlDB),
			projects: postgres.NewProjectRepository(sqlDB),
			health:   handlers.HealthCheck{Name: "database", Ping: sqlDB.PingContext},
			close: func() {
				_ = sqlDB.Close()
				pool.Close()
			},
		}, nil

	case config.StorageMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		mdb := client.Database(cfg.Mongo.Database)
		if err := mongodb.EnsureIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:    mongodb.NewUserRepository(mdb),
			projects: mongodb.NewProjectRepository(mdb),
			health: handlers.HealthCheck{Name: "database", Ping: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.StorageMemory:
		log.Warn().Msg("memory storage: data is lost on restart")
		users := memory.NewUserRepository()
		return &stores{
			users:    users,
			projects: memory.NewProjectRepository(),
			health:   handlers.HealthCheck{Name: "database", Ping: users.Ping},
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
