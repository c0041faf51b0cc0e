package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	domaininv "github.com/jhoicas/Stock-api/internal/domain/inventory"
	"github.com/jhoicas/Stock-api/internal/infrastructure/export"
	"github.com/jhoicas/Stock-api/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/Stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Stock-api/internal/interfaces/http"
	"github.com/jhoicas/Stock-api/pkg/config"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	policy, err := domaininv.ParseNegativePolicy(cfg.Ledger.AllowNegative)
	if err != nil {
		log.Fatal().Err(err).Msg("LEDGER_ALLOW_NEGATIVE inválido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	checks := map[string]httpRouter.HealthCheck{"postgres": pool.Ping}

	// Eventos de movimientos: opcionales, sin broker el libro funciona igual.
	var publisher inventory.EventPublisher
	if cfg.RabbitMQ.Enabled() {
		rmq, err := messaging.Connect(cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer rmq.Close()
		pub, err := messaging.NewPublisher(rmq, cfg.RabbitMQ.Exchange, cfg.App.Name, log)
		if err != nil {
			log.Fatal().Err(err).Msg("publicador de eventos")
		}
		publisher = pub
		checks["rabbitmq"] = func(context.Context) error {
			if !rmq.Healthy() {
				return errors.New("conexión cerrada")
			}
			return nil
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	sessionRepo := postgres.NewInventorySessionRepository(pool)
	lineRepo := postgres.NewInventoryLineRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)

	deps := inventory.Deps{
		Tx:        postgres.NewTxRunner(pool, cfg.Ledger.MaxRetries, log.Component("tx")),
		Ledger:    inventory.NewLedger(policy),
		Products:  productRepo,
		Locations: locationRepo,
		Suppliers: supplierRepo,
		Users:     userRepo,
		Stock:     stockRepo,
		Movements: movementRepo,
		Purchases: purchaseRepo,
		Sales:     saleRepo,
		Transfers: transferRepo,
		Sessions:  sessionRepo,
		Lines:     lineRepo,
		Publisher: publisher,
		Log:       log.Component("inventory"),
	}

	// PDF: acta de conteo físico
	sessionPDF := infrapdf.NewSessionReportGenerator(cfg.App.Company)
	xlsx := export.NewXLSXExporter(cfg.Ledger.LowStock)

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
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Stock API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:         inventory.NewLedgerUseCase(deps),
		Transactions:   inventory.NewTransactionUseCase(deps),
		Reconciliation: inventory.NewReconciliationUseCase(deps, sessionPDF),
		ProductUC:      usecase.NewProductUseCase(productRepo, categoryRepo, tagRepo, stockRepo),
		CategoryUC:     usecase.NewCategoryUseCase(categoryRepo, productRepo),
		LocationUC:     usecase.NewLocationUseCase(locationRepo, stockRepo, sessionRepo),
		SupplierUC:     usecase.NewSupplierUseCase(supplierRepo),
		TagUC:          usecase.NewTagUseCase(tagRepo),
		RecipeUC:       usecase.NewRecipeUseCase(recipeRepo, productRepo),
		ReportUC:       usecase.NewReportUseCase(saleRepo, purchaseRepo, stockRepo, locationRepo, xlsx),
		UserUC:         usecase.NewUserUseCase(userRepo, activityRepo),
		AuthUC:         authUC,
		Checks:         checks,
		ServiceName:    cfg.App.Name,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
