package main

import (
	"context"
	"os"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/store"
	"app/internal/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func newStore(cfg config.Config, logger zerolog.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverFile:
		return store.NewFileStore(cfg.DataDir)

	case config.StoreDriverPostgres:
		gormDB, err := db.Connect()
		if err != nil {
			return nil, err
		}
		if err := gormDB.AutoMigrate(
			&model.Product{},
			&model.Transaction{},
		); err != nil {
			return nil, err
		}
		return store.NewGormStore(gormDB), nil

	default:
		logger.Info().Msg("using in-memory store, data will not survive restarts")
		return store.NewMemoryStore(), nil
	}
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// .env はあれば読む（無くても起動する）
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("no .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	st, err := newStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init store")
	}

	clock := &realClock{}

	//Usecase生成（起動時に両コレクションを読み込む）
	inventoryUC, err := usecase.NewInventoryUsecase(context.Background(), st, clock)
	if err != nil {
		logger.Fatal().Err(err).Msg("init inventory ledger")
	}

	//Handler生成
	productH := handler.NewProductHandler(inventoryUC)
	transactionH := handler.NewTransactionHandler(inventoryUC)

	//Server起動
	e := server.New(cfg, logger, productH, transactionH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("inventory api listening")
	if err := server.Start(e, addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
