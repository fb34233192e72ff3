package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/omnitrack-api/internal/application/auth"
	"github.com/jhoicas/omnitrack-api/internal/application/inventory"
	"github.com/jhoicas/omnitrack-api/internal/application/orders"
	"github.com/jhoicas/omnitrack-api/internal/application/query"
	infrakafka "github.com/jhoicas/omnitrack-api/internal/infrastructure/kafka"
	"github.com/jhoicas/omnitrack-api/internal/infrastructure/postgres"
	"github.com/jhoicas/omnitrack-api/internal/infrastructure/redisx"
	httpRouter "github.com/jhoicas/omnitrack-api/internal/interfaces/http"
	"github.com/jhoicas/omnitrack-api/pkg/config"
	"github.com/jhoicas/omnitrack-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.InitializeSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("schema")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Eventos de dominio: sin brokers configurados no se publica nada
	var events orders.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := infrakafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		events = producer
	}

	// Idempotencia de creación de pedidos: sin Redis el header se ignora
	var idem orders.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb := redisx.New(cfg.Redis)
		defer rdb.Close()
		idem = redisx.NewIdempotencyStore(rdb)
	}

	stockUC := inventory.NewStockUseCase(txRunner)
	orderUC := orders.NewOrderUseCase(txRunner, stockUC, events, cfg.App.Name)
	reportUC := query.NewReportUseCase(productRepo, orderRepo, txnRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:     stockUC,
		OrderUC:     orderUC,
		ReportUC:    reportUC,
		AuthUC:      authUC,
		Idempotency: idem,
		JWTSecret:   cfg.JWT.Secret,
	})

	// Apagado ordenado: esperar SIGINT/SIGTERM y cerrar el servidor
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("apagando servidor")
		_ = app.Shutdown()
	}()

	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
	if err := app.Listen(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("servidor HTTP")
	}
}
