package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jhoicas/Cartera-api/internal/application/auth"
	"github.com/jhoicas/Cartera-api/internal/application/backup"
	"github.com/jhoicas/Cartera-api/internal/application/jobs"
	"github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/application/statement"
	"github.com/jhoicas/Cartera-api/internal/domain/billing"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Cartera-api/internal/interfaces/http"
	"github.com/jhoicas/Cartera-api/pkg/config"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		App:   cfg.App.Name,
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Ledger.Storage).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}
	policy, err := billing.ParseOverpaymentPolicy(cfg.Ledger.BillOverpayment)
	if err != nil {
		log.Fatal().Err(err).Msg("política de sobrepago")
	}

	ctx := context.Background()
	gw, closeStorage, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStorage()

	engine := ledger.NewEngine(gw, billing.NewBuilder(policy), ledger.WithLogger(log.Component("ledger")))
	// Un fallo de carga deja el libro en modo degradado; las escrituras reintentan la carga
	// y responden 503 hasta que tenga éxito.
	if err := engine.Load(ctx); err != nil {
		log.Error().Err(err).Msg("carga inicial del libro")
	}

	reports := statement.NewGenerator(engine, statement.WithLocation(loc))
	authUC := auth.NewAuthUseCase(auth.Config{
		Username:     cfg.Auth.Username,
		PasswordHash: cfg.Auth.PasswordHash,
		MaxAttempts:  cfg.Auth.MaxAttempts,
		Lockout:      time.Duration(cfg.Auth.LockoutMinutes) * time.Minute,
		SessionTTL:   time.Duration(cfg.Auth.SessionHours) * time.Hour,
		RememberTTL:  time.Duration(cfg.Auth.RememberDays) * 24 * time.Hour,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
	})
	if cfg.Auth.PasswordHash == "" {
		log.Warn().Msg("AUTH_PASSWORD_HASH vacío: el login rechazará todo intento")
	}

	if cfg.Scheduler.Enabled {
		job := jobs.NewReconcileJob(engine, cfg.Scheduler.ReconcileSpec, cfg.Scheduler.Repair, log.Component("reconcile"))
		if err := job.Start(); err != nil {
			log.Fatal().Err(err).Msg("programar conciliación")
		}
		defer job.Stop()
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		Logger:         log.Component("http"),
		SwaggerEnabled: cfg.Swagger.Enabled,
		SwaggerFile:    cfg.Swagger.FilePath,
	}, httpRouter.RouterDeps{
		Engine:       engine,
		Reports:      reports,
		Backup:       backup.NewService(engine),
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
		OverdueLimit: cfg.Ledger.OverdueListLimit,
		Location:     loc,
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
