// Package initializer assembles the ledger's runtime dependencies: config,
// logger, database, repositories, and services.
package initializer

import (
	"log/slog"

	"github.com/openbank/ledger/config"
	"github.com/openbank/ledger/infra"
	infrarepo "github.com/openbank/ledger/infra/repository"
	accountmodel "github.com/openbank/ledger/infra/repository/account"
	entrymodel "github.com/openbank/ledger/infra/repository/entry"
	"github.com/openbank/ledger/pkg/locks"
	accountsvc "github.com/openbank/ledger/pkg/service/account"
	ledgersvc "github.com/openbank/ledger/pkg/service/ledger"
	"gorm.io/gorm"
)

// App bundles the initialized services and their shared infrastructure.
type App struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	DB       *gorm.DB
	Accounts *accountsvc.Service
	Ledger   *ledgersvc.Service
}

// Initialize loads configuration, sets up logging, connects to the database,
// runs schema migration, and wires the services.
func Initialize(envFilePath ...string) (*App, error) {
	cfg, err := config.LoadAppConfig(slog.Default(), envFilePath...)
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(&cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&accountmodel.Account{}, &entrymodel.Entry{}); err != nil {
		return nil, err
	}

	uow := infrarepo.NewUoW(db)
	lockManager := locks.NewManager(cfg.Ledger.LockTimeout)
	accounts := accountsvc.NewService(uow, logger)
	engine := ledgersvc.NewService(uow, accounts, lockManager, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Accounts: accounts,
		Ledger:   engine,
	}, nil
}
