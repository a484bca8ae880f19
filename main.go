package main

import (
	"fmt"
	"log"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/config"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/database"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/logger"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/metrics"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/router"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/security"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/store"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to the configuration file")
	pflag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg := logger.New(cfg.Log.Level, cfg.Log.Environment)
	defer func() { _ = lg.Sync() }()

	// init database
	db, err := database.Open(cfg.Database)
	if err != nil {
		lg.Fatal("open database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		lg.Fatal("migrate database", zap.Error(err))
	}

	m := metrics.New()
	kv := store.NewKV(db)

	hasher := util.NewPasswordHasher(util.Argon2Params{
		Memory:      cfg.Security.Argon2.MemoryKiB,
		Iterations:  cfg.Security.Argon2.Iterations,
		Parallelism: cfg.Security.Argon2.Parallelism,
	})
	creds, err := store.NewCredentialStore(kv, hasher)
	if err != nil {
		lg.Fatal("load credentials", zap.Error(err))
	}

	policy, err := security.New(store.NewSecurityConfigStore(kv),
		security.WithLogger(logger.WithComponent(lg, "security")),
		security.WithMetrics(m),
	)
	if err != nil {
		lg.Fatal("init security policy", zap.Error(err))
	}

	archive := store.NewArchive(cfg.Backup.Dir, cfg.Security.EncryptionKey)
	svc := auth.NewService(policy, creds, store.NewSessionSlot(kv), archive,
		auth.WithLogger(logger.WithComponent(lg, "auth")),
		auth.WithMetrics(m),
	)

	provisional, err := svc.EnsureDefaultAdmin(cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
	if err != nil {
		lg.Fatal("seed admin", zap.Error(err))
	}
	if provisional != "" {
		// printed once; only its hash is stored
		lg.Warn("default administrator created with a provisional password, valid for 24h",
			zap.String("username", "admin"),
			zap.String("provisional_password", provisional))
	}

	// sessions do not survive a restart; drop a stale persisted slot
	if _, ok, err := svc.CurrentUser(); err != nil {
		lg.Warn("resolve persisted session", zap.Error(err))
	} else if !ok {
		lg.Debug("no persisted session")
	}

	r := router.SetupRouter(cfg, router.Deps{
		Auth:    svc,
		Archive: archive,
		Metrics: m,
		Logger:  logger.WithComponent(lg, "http"),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	lg.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		lg.Fatal("run server", zap.Error(err))
	}
}
