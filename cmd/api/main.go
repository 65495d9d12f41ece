package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/costeo-api/internal/application/catalog"
	"github.com/jhoicas/costeo-api/internal/application/inventory"
	"github.com/jhoicas/costeo-api/internal/application/ports"
	"github.com/jhoicas/costeo-api/internal/application/purchasing"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/costeo-api/internal/infrastructure/events"
	"github.com/jhoicas/costeo-api/internal/infrastructure/metrics"
	"github.com/jhoicas/costeo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/costeo-api/internal/interfaces/http"
	"github.com/jhoicas/costeo-api/pkg/config"
	"github.com/jhoicas/costeo-api/pkg/idgen"
	"github.com/jhoicas/costeo-api/pkg/logger"
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

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString(), "up"); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ids, err := idgen.New(cfg.App.IDNode)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de IDs")
	}

	var (
		catalogRepo  repository.CatalogRepository = postgres.NewCatalogRepository(pool)
		catalogCache *cache.CatalogCache
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer func() { _ = rdb.Close() }()
		catalogCache = cache.NewCatalogCache(catalogRepo, rdb, cfg.Redis.CatalogTTL, log.Named("catalog-cache"))
		catalogRepo = catalogCache
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CatalogTTL).Msg("caché de catálogos habilitada")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("costeo")
	}

	var publisher ports.EventPublisher = ports.NoopPublisher{}
	if cfg.NATS.Enabled() {
		nc, err := events.Connect(cfg.NATS.URL, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer nc.Close()
		natsPub := events.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix)
		publisher = natsPub
		log.Info().Str("url", cfg.NATS.URL).Msg("publicación de eventos habilitada")

		if catalogCache != nil {
			subject := natsPub.Subject(events.CatalogChanged)
			sub, err := events.ListenCatalogChanges(nc, subject, catalogCache, log.Named("catalog-events"))
			if err != nil {
				log.Fatal().Err(err).Msg("suscripción a cambios de catálogo")
			}
			defer func() { _ = sub.Unsubscribe() }()
			log.Info().Str("subject", subject).Msg("invalidación de caché por eventos habilitada")
		}
	}
	if m != nil {
		publisher = m.WrapPublisher(publisher)
	}

	txRunner := postgres.NewTxRunner(pool)
	guard := catalog.NewGuard(catalogRepo)
	ledger := inventory.NewLedger(ids)
	stockUC := inventory.NewStockUseCase(
		txRunner, ledger, guard,
		postgres.NewStockBalanceRepository(pool), postgres.NewStockMovementRepository(pool),
		publisher, log.Named("inventory"),
		inventory.PageLimits{Default: cfg.Ledger.DefaultPageSize, Max: cfg.Ledger.MaxPageSize},
	)
	invoiceUC := purchasing.NewInvoiceUseCase(
		txRunner, ledger, guard, postgres.NewInvoiceRepository(pool),
		ids, publisher, log.Named("purchasing"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	if m != nil {
		app.Use(m.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Costeo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	routerDeps := httpRouter.RouterDeps{
		Stock:     stockUC,
		Invoices:  invoiceUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Named("http"),
	}
	if m != nil {
		routerDeps.Errors = m
	}
	httpRouter.Router(app, routerDeps)

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
