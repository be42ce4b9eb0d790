package main

import (
	"os"
	"os/signal"
	"syscall"

	"vaultgrow/config"
	"vaultgrow/database"
	"vaultgrow/middleware"
	"vaultgrow/routers"
	"vaultgrow/services"
	"vaultgrow/utils"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run(cfg *config.Config, log *logrus.Logger) error {
	store, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	log.WithField("driver", cfg.DBDriver).Info("Connected to the database successfully")

	tokens := middleware.NewTokenService(cfg.JWTKey, cfg.TokenTTL)
	svc := services.New(store.Db, services.RulesFromConfig(cfg), tokens, log)
	notifier := utils.NewNotifier(utils.NewMailer(cfg), log.WithField("component", "email"))

	scheduler, err := utils.InitializeAccrualScheduler(cfg.AccrualSchedule, cfg.AccrualInterval, svc.Accrual, log.WithField("component", "scheduler"))
	if err != nil {
		return err
	}

	app := routers.New(routers.Deps{
		Config:     cfg,
		Store:      store,
		Services:   svc,
		Tokens:     tokens,
		Notifier:   notifier,
		Log:        log,
		AuthLimit:  20,
		RequestLog: true,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	log.Infof("Server is running on port %s", cfg.Port)
	return app.Listen(":" + cfg.Port)
}
