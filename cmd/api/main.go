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

	"github.com/medicore/inventario-medico-api/internal/application/auth"
	appcart "github.com/medicore/inventario-medico-api/internal/application/cart"
	"github.com/medicore/inventario-medico-api/internal/application/catalog"
	infrapdf "github.com/medicore/inventario-medico-api/internal/infrastructure/pdf"
	"github.com/medicore/inventario-medico-api/internal/infrastructure/postgres"
	httpRouter "github.com/medicore/inventario-medico-api/internal/interfaces/http"
	"github.com/medicore/inventario-medico-api/pkg/config"
	"github.com/medicore/inventario-medico-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	guard := auth.NewAccountGuard(userRepo, log.Zerolog())
	authUC := auth.NewAuthUseCase(userRepo, guard, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Zerolog())

	catalogUC := catalog.NewCatalogUseCase(productRepo, log.Zerolog())
	cartUC := appcart.NewCartUseCase(cartRepo, productRepo, userRepo, log.Zerolog())
	dispenseUC := appcart.NewDispenseUseCase(txRunner, cartRepo, productRepo, userRepo, log.Zerolog())

	// PDF: comprobante de dispensación
	voucherGenerator := infrapdf.NewMarotoVoucherGenerator(cfg.App.Name)
	voucherUC := appcart.NewVoucherUseCase(cartRepo, productRepo, userRepo, voucherGenerator, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Médico API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CatalogUC:  catalogUC,
		CartUC:     cartUC,
		DispenseUC: dispenseUC,
		VoucherUC:  voucherUC,
		JWTSecret:  cfg.JWT.Secret,
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
