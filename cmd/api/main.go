package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sfmc-labs/ai-email-activity/internal/activity"
	"github.com/sfmc-labs/ai-email-activity/internal/auth"
	"github.com/sfmc-labs/ai-email-activity/internal/config"
	"github.com/sfmc-labs/ai-email-activity/internal/genai"
	"github.com/sfmc-labs/ai-email-activity/internal/httpserver"
	"github.com/sfmc-labs/ai-email-activity/internal/logger"
	"github.com/sfmc-labs/ai-email-activity/internal/sfmc"
	"github.com/sfmc-labs/ai-email-activity/internal/store"
)

// main boots the service: config → logger → collaborators → HTTP server.
// The token cache and every service object are constructed exactly once here
// so credential state survives across lifecycle calls.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	generator, err := buildGenerator(cfg, *lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build content generator")
	}

	dispatcher, sfmcClient, err := buildDispatcher(cfg, *lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build message dispatcher")
	}

	var sinks []activity.Sink
	if sfmcClient != nil {
		sinks = append(sinks, sfmc.NewDataExtensionSink(sfmcClient))
	}
	if cfg.DBURL != "" {
		db, err := store.NewActivityStore(cfg.DBURL)
		if err != nil {
			lg.Fatal().Err(err).Msg("failed to connect to audit database")
		}
		defer db.Close()
		if err := db.EnsureSchema(); err != nil {
			lg.Fatal().Err(err).Msg("failed to apply audit schema")
		}
		sinks = append(sinks, db)
	}

	orchestrator, err := activity.NewOrchestrator(generator, dispatcher, *lg, activity.WithSinks(sinks...))
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	router := httpserver.NewRouter(cfg, orchestrator, *lg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		lg.Info().Int("port", cfg.App.Port).Msg("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	lg.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("shutdown failed")
	}
}

// buildGenerator wires the Gemini provider, falling back to a provider that
// always errors when no API key is configured; the generator then serves its
// deterministic fallback copy for every execution.
func buildGenerator(cfg config.Config, lg zerolog.Logger) (*genai.Generator, error) {
	if cfg.Gemini.APIKey == "" {
		lg.Warn().Msg("GEMINI_API_KEY not set, all content will use fallback copy")
		return genai.NewGenerator(genai.UnavailableProvider{}, lg)
	}

	provider, err := genai.NewGeminiProvider(cfg.Gemini, lg)
	if err != nil {
		return nil, err
	}
	return genai.NewGenerator(provider, lg)
}

// buildDispatcher wires the SFMC client behind the shared token cache. With
// no credentials configured every send degrades to a simulated success,
// which keeps local development working without a Marketing Cloud account.
func buildDispatcher(cfg config.Config, lg zerolog.Logger) (activity.Dispatcher, *sfmc.Client, error) {
	if !cfg.SFMC.Configured() {
		lg.Warn().Msg("SFMC credentials not set, all sends will be simulated")
		return sfmc.SimulatedDispatcher{Logger: lg}, nil, nil
	}

	authenticator, err := sfmc.NewAuthenticator(cfg.SFMC, lg)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := auth.NewTokenCache(authenticator)
	if err != nil {
		return nil, nil, err
	}
	client, err := sfmc.NewClient(cfg.SFMC, tokens, lg)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}
