package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
	"github.com/ahmad-alkadri/lob-depot/internal/handlers"
	"github.com/ahmad-alkadri/lob-depot/internal/logger"
	"github.com/ahmad-alkadri/lob-depot/internal/services"
)

func main() {
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid log level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("backend", cfg.StorageBackend).
		Str("bucket", cfg.Bucket).
		Strs("callers", cfg.Callers).
		Str("key_policy", cfg.KeyPolicy).
		Msg("starting server")

	// Initialize storage service
	storageService, err := services.NewStorageService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if closer, ok := storageService.(io.Closer); ok {
		defer closer.Close()
	}
	log.Info().Str("location", storageService.Location()).Msg("storage service initialized")

	// Create all service dependencies
	keyGenerator := services.NewDefaultKeyGenerator(cfg.KeyPolicy, cfg.KeyUniqueSuffix, cfg.Location())
	contentTypeDetector := services.NewDefaultContentTypeDetector()
	zipService := services.NewDefaultZipService()

	uploadService := services.NewDefaultUploadService(
		storageService,
		keyGenerator,
		services.SystemClock{},
		contentTypeDetector,
		zipService,
		cfg.StorageTimeout,
		log,
	)

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpHandler := handlers.NewHTTPHandler(
		uploadService,
		handlers.NewDefaultResponseFormatter(cfg.SanitizeErrors),
		cfg.MaxBodyBytes,
		cfg.Location(),
		log,
	)
	router := handlers.NewRouter(cfg.Callers, httpHandler, log)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	// in-flight uploads finish before Shutdown returns
	return server.Shutdown(shutdownCtx)
}
