package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"smart-reminder/internal/analysis"
	"smart-reminder/internal/events"
	"smart-reminder/internal/genai"
	"smart-reminder/internal/handler"
	"smart-reminder/internal/media"
	"smart-reminder/internal/middleware"
	"smart-reminder/internal/state"
	"smart-reminder/internal/store"
	"smart-reminder/internal/studio"
	"smart-reminder/pkg/database"
	"smart-reminder/pkg/jwtutil"
	"smart-reminder/pkg/logger"
	"smart-reminder/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd starts the API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, err := bootstrap()
	if err != nil {
		return err
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", conf.LogConfig()...)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(&conf.DB)
	if err != nil {
		log.Error("Failed to open store", zap.Error(err))
		return err
	}
	defer database.Close()

	publisher := events.New(conf.Kafka)
	defer publisher.Close()

	uploader, err := media.New(conf.Cloudinary)
	if err != nil {
		log.Error("Failed to initialize media uploader", zap.Error(err))
		return err
	}

	ai, err := genai.NewGemini(ctx, conf.GenAI)
	if err != nil {
		log.Error("Failed to initialize generation client", zap.Error(err))
		return err
	}

	app := state.New(st, state.Options{
		MerchantID:  conf.Merchant.ID,
		TrialWindow: time.Duration(conf.Trial.DefaultHours) * time.Hour,
		Publisher:   publisher,
	})
	if err := app.Load(ctx); err != nil {
		log.Error("Failed to load application state", zap.Error(err))
		return err
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	httpMetrics := prometheus.NewHTTPMetrics(conf.ServiceName)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	handler.New(handler.Deps{
		State:    app,
		Store:    st,
		Studio:   studio.NewService(app, ai, ai, uploader, publisher),
		Analysis: analysis.NewService(app, ai, ai),
		Uploader: uploader,
		JWT:      jwt,
		Admin:    conf.Admin,
	}).Register(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting " + conf.ServiceName + " on port " + conf.Server.Port)
		if err := e.Start(":" + conf.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
