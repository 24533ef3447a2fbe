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
	"github.com/jhoicas/inventario-ledger/internal/application/alerts"
	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// stores repositorios del driver elegido.
type stores struct {
	tx         inventory.TxRunner
	products   repository.ProductRepository
	categories repository.CategoryRepository
	units      repository.UnitRepository
	movements  repository.InventoryMovementRepository
	alerts     repository.AlertRepository
	users      repository.UserRepository
	close      func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.Store.Driver == config.DriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return stores{
			tx:         memory.NewTxRunner(s),
			products:   memory.NewProductRepository(s),
			categories: memory.NewCategoryRepository(s),
			units:      memory.NewUnitRepository(s),
			movements:  memory.NewMovementRepository(s),
			alerts:     memory.NewAlertRepository(s),
			users:      memory.NewUserRepository(s),
			close:      func() {},
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return stores{
		tx:         postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		units:      postgres.NewUnitRepository(pool),
		movements:  postgres.NewInventoryMovementRepository(pool),
		alerts:     postgres.NewAlertRepository(pool),
		users:      postgres.NewUserRepository(pool),
		close:      pool.Close,
	}
}

// productLocker resuelve LOCK_POLICY. El segundo valor activa SELECT ... FOR UPDATE.
func productLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.ProductLocker, bool, func()) {
	switch cfg.EffectiveLockPolicy() {
	case config.LockPolicyRow:
		return nil, true, func() {}
	case config.LockPolicyLocal:
		return lock.NewLocalLocker(), false, func() {}
	case config.LockPolicyRedis:
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		return lock.NewRedisLocker(client, cfg.Redis.LockTTL), false, func() { _ = client.Close() }
	}
	log.Warn().Msg("LOCK_POLICY=none: escrituras concurrentes sobre un producto pueden omitir alertas")
	return nil, false, func() {}
}

// alertNotifier arma el fan-out con los canales habilitados (nil si no hay ninguno).
func alertNotifier(cfg *config.Config, log *logger.Logger) (inventory.AlertNotifier, func()) {
	var sinks []alerts.Sink
	closeFn := func() {}
	if cfg.SMTP.Enabled {
		sinks = append(sinks, alerts.Sink{Name: "email", Notifier: notify.NewEmailNotifier(notify.SMTPSettings{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		})})
	}
	if cfg.Kafka.Enabled {
		k := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		sinks = append(sinks, alerts.Sink{Name: "kafka", Notifier: k})
		closeFn = func() {
			if err := k.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar productor Kafka")
			}
		}
	}
	fan := alerts.NewFanOut(sinks...)
	if fan.Len() == 0 {
		return nil, closeFn
	}
	log.Info().Int("canales", fan.Len()).Msg("notificación de alertas activa")
	return fan, closeFn
}

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
		Str("store", cfg.Store.Driver).
		Str("lock_policy", cfg.EffectiveLockPolicy()).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	locker, rowLock, closeLocker := productLocker(ctx, cfg, log)
	defer closeLocker()
	notifier, closeNotifier := alertNotifier(cfg, log.Component("notify"))
	defer closeNotifier()

	reg := metrics.NewRegistry()
	replayer := inventory.NewBalanceReplayer(st.movements, reg)
	movementUC := inventory.NewMovementUseCase(
		st.tx, st.movements, inventory.NewThresholdMonitor(replayer),
		locker, rowLock, notifier, reg, log.Component("movements"),
	)
	queryUC := inventory.NewMovementQueryUseCase(st.movements, loc)
	replenishmentUC := inventory.NewReplenishmentUseCase(st.products, st.movements, cfg.Inventory.ConsumptionDays)
	alertUC := alerts.NewAlertUseCase(st.alerts, st.movements, st.products)

	analyticsCfg := appanalytics.Config{
		Location:        loc,
		WindowDays:      cfg.Inventory.DefaultWindowDays,
		ConsumptionDays: cfg.Inventory.ConsumptionDays,
		MaxWindowDays:   cfg.Inventory.MaxWindowDays,
		Timeout:         cfg.Inventory.AggregationTimeout,
	}
	aggregatorUC := appanalytics.NewAggregatorUseCase(st.movements, st.products, st.categories, analyticsCfg)
	dashboardUC := appanalytics.NewDashboardUseCase(aggregatorUC, st.alerts, st.movements)
	reportUC := appanalytics.NewReportUseCase(st.movements, st.products, st.categories, st.units,
		map[string]appanalytics.ReportRenderer{
			appanalytics.FormatPDF:  infrapdf.NewInventoryReportGenerator(),
			appanalytics.FormatXLSX: spreadsheet.NewInventoryReportGenerator(),
		}, analyticsCfg)

	productUC := catalog.NewProductUseCase(st.products, st.categories, st.units, st.movements, replayer)
	categoryUC := catalog.NewCategoryUseCase(st.categories, st.units)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		MovementUC:     movementUC,
		MovementQuery:  queryUC,
		Replenishment:  replenishmentUC,
		AlertUC:        alertUC,
		DashboardUC:    dashboardUC,
		AggregatorUC:   aggregatorUC,
		ReportUC:       reportUC,
		MetricsHandler: reg.Handler(),
		JWTSecret:      cfg.JWT.Secret,
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
