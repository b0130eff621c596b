package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/ai"
	"github.com/leadspark/upwork-radar/internal/ai/gemini"
	"github.com/leadspark/upwork-radar/internal/api"
	"github.com/leadspark/upwork-radar/internal/logger"
	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/proposal"
	"github.com/leadspark/upwork-radar/internal/secrets"
	"github.com/leadspark/upwork-radar/internal/store"
	"github.com/leadspark/upwork-radar/internal/tracker"
	"github.com/leadspark/upwork-radar/internal/upwork"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard: periodic fetching, scoring and the HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address, e.g. :8080")
	serveCmd.Flags().String("proxy-url", "", "base URL of the job-listing proxy")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("proxy-url", serveCmd.Flags().Lookup("proxy-url"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the upwork-radar", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	settings := buildStore(ctx, config, logger)
	registry := offering.NewRegistry(nil)

	client := upwork.New(logger, config.ProxyURL)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	writer := buildWriter(ctx, config.AI, logger)

	trk := tracker.New(logger, client, registry, writer, settings)
	trk.Start(ctx)

	server := &http.Server{
		Addr:    config.Listen,
		Handler: api.NewServer(logger, trk, registry).Router(),
	}

	go func() {
		logger.Info("listening", zap.String("addr", config.Listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
	trk.Stop()
}

// buildStore prefers redis and falls back to the in-memory store, so the
// dashboard still works without persistence.
func buildStore(ctx context.Context, config *Config, logger *zap.Logger) store.Store {
	if config.RedisURL == "" {
		logger.Warn("no redis-url configured, settings will not survive restarts")
		return store.NewMemory()
	}

	redisStore, err := store.NewRedis(ctx, config.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, settings will not survive restarts", zap.Error(err))
		return store.NewMemory()
	}

	logger.Info("using redis settings store")
	return redisStore
}

// buildWriter assembles the proposal writer. Without a usable generator
// the dashboard runs fine, only proposal generation is disabled.
func buildWriter(ctx context.Context, config *AIConfig, logger *zap.Logger) *proposal.Writer {
	generator, err := buildGenerator(ctx, config, logger)
	if err != nil {
		logger.Warn("proposal generation disabled",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
		return nil
	}

	maxLogLength := 0
	if config != nil && config.Gemini != nil {
		maxLogLength = config.Gemini.MaxLogLength
	}

	return proposal.NewWriter(generator, logger, maxLogLength)
}

func buildGenerator(ctx context.Context, config *AIConfig, base *zap.Logger) (ai.Generator, error) {
	if config == nil || config.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini configuration is missing")
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(base, "gemini", config.Gemini.Model)

	return gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, genLogger)
}
