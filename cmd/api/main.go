package main

import (
	"time"

	"estoque/internal/config"
	"estoque/internal/domain/model"
	"estoque/internal/handler"
	"estoque/internal/infra/db"
	infraRepo "estoque/internal/infra/repository"
	"estoque/internal/server"
	"estoque/internal/usecase"
	"estoque/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

const accessTTL = 8 * time.Hour

func main() {
	// .env é opcional; em produção tudo vem do ambiente
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New(cfg.GoEnv))
	defer log.Sync()

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Maquina{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	maquinaRepo := infraRepo.NewMaquinaGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	clock := &realClock{}

	estoqueUC := usecase.NewEstoqueUsecase(maquinaRepo, auditRepo, clock, logger.Named(log, "estoque"))
	exportUC := usecase.NewExportUsecase()
	authUC := usecase.NewAuthUsecase(cfg.OperatorUser, cfg.OperatorPasswordHash, cfg.JWTSecret, accessTTL, clock)

	h := server.Handlers{
		Auth:      handler.NewAuthHandler(authUC),
		Maquina:   handler.NewMaquinaHandler(estoqueUC),
		Dashboard: handler.NewDashboardHandler(estoqueUC),
		Export:    handler.NewExportHandler(estoqueUC, exportUC),
		Audit:     handler.NewAuditHandler(estoqueUC),
	}

	addr := ":" + cfg.Port
	if err := server.Start(addr, cfg, log, h); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
