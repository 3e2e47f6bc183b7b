package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/stockledger-api/internal/application/analytics"
	"github.com/jhoicas/stockledger-api/internal/application/auth"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/application/usecase"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stockledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/stockledger-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/stockledger-api/internal/interfaces/http"
	"github.com/jhoicas/stockledger-api/pkg/config"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

// backend reúne los puertos de persistencia del backend elegido.
type backend struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	users      repository.UserRepository
	ledger     repository.MovementLedger
	txRunner   inventory.TxRunner
	close      func()
}

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
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir backend de persistencia")
	}
	defer be.close()

	engineOpts := []inventory.EngineOption{inventory.WithLogger(log.Named("movements"))}
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		engineOpts = append(engineOpts, inventory.WithIdempotency(infraredis.NewIdempotencyStore(client, cfg.Idempotency.TTL)))
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Idempotency.TTL).Msg("idempotencia habilitada")
	}

	engine := inventory.NewMovementEngine(be.txRunner, be.ledger, inventory.ContextActorResolver{}, engineOpts...)
	productUC := usecase.NewProductUseCase(be.products, be.ledger, be.categories, be.suppliers, engine)
	stockCardUC := inventory.NewStockCardUseCase(be.products, be.ledger, infrapdf.NewMarotoStockCardGenerator())
	replenishmentUC := inventory.NewReplenishmentUseCase(be.products, be.ledger)
	authUC := auth.NewAuthUseCase(be.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Admin.Username != "" {
		if _, err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		log.Info().Str("username", cfg.Admin.Username).Msg("administrador inicial disponible")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "StockLedger API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "backend": cfg.Store.Backend})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(be.users),
		ProductUC:     productUC,
		CategoryUC:    usecase.NewCategoryUseCase(be.categories),
		SupplierUC:    usecase.NewSupplierUseCase(be.suppliers),
		Engine:        engine,
		StockCard:     stockCardUC,
		Replenishment: replenishmentUC,
		DashboardUC:   appanalytics.NewDashboardUseCase(be.products, be.ledger),
		JWTSecret:     cfg.JWT.Secret,
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

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Store.Backend == config.BackendMemory {
		store := memory.NewStore()
		return &backend{
			products:   memory.NewProductRepository(store),
			categories: memory.NewCategoryRepository(store),
			suppliers:  memory.NewSupplierRepository(store),
			users:      memory.NewUserRepository(store),
			ledger:     memory.NewLedger(store),
			txRunner:   memory.NewTxRunner(store),
			close:      func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		users:      postgres.NewUserRepository(pool),
		ledger:     postgres.NewMovementLedger(pool),
		txRunner:   postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}
