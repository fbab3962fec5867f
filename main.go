package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cppla/linkpost/config"
	"github.com/cppla/linkpost/routes"
	"github.com/cppla/linkpost/services/generator"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// configFile is set by the --config flag.
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linkpost",
	Short: "LinkedIn content automation dashboard API",
	Long: `linkpost serves the dashboard API: AI generated LinkedIn posts,
trending topic research, scheduling and engagement analytics.
Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("linkpost " + version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: config/config.json)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rc, err := utils.NewRedis(ctx, cfg)
	if err != nil {
		// the cache is optional; run without it rather than refuse to start
		utils.Sugar.Warnf("redis unavailable, view cache disabled: %v", err)
	}
	if rc != nil {
		defer rc.Close()
	}

	signer, err := utils.NewSessionSigner(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("session signer: %w", err)
	}
	if cfg.SessionSecret == "" {
		utils.Sugar.Warn("app.session_secret not set, session tokens will not survive a restart")
	}

	store := storage.NewMemStore()
	cache := utils.NewViewCache(rc, "linkpost:view:", time.Duration(cfg.CacheTTLSeconds)*time.Second)

	gen := generator.New(generator.Config{
		APIKey:     cfg.XAIAPIKey,
		BaseURL:    cfg.XAIBaseURL,
		Model:      cfg.XAIModel,
		Timeout:    time.Duration(cfg.XAITimeoutSec) * time.Second,
		MaxRetries: cfg.XAIMaxRetries,
		Logger:     utils.Sugar,
	})
	if !gen.Configured() {
		utils.Sugar.Warn("xai.api_key not set, content generation serves fallback text")
	}

	r := routes.SetupRouter(routes.Deps{
		Config:     cfg,
		Store:      store,
		DemoUserID: store.DemoUserID(),
		Generator:  gen,
		Cache:      cache,
		Signer:     signer,
		States:     utils.NewStateStore(rc),
	})

	srv := utils.NewServer(":"+cfg.AppPort, r, utils.DEFAULT_READ_TIMEOUT, utils.DEFAULT_WRITE_TIMEOUT)

	if cfg.PublisherEnabled {
		pubCtx, stopPublisher := context.WithCancel(ctx)
		publisher := utils.NewScheduledPublisher(store, time.Duration(cfg.PublisherIntervalSec)*time.Second, nil)
		done := publisher.Start(pubCtx)
		srv.OnShutdown(func() {
			stopPublisher()
			<-done
		})
	}

	utils.Sugar.Infof("Starting server on port %s (env=%s, graceful)", cfg.AppPort, cfg.AppEnv)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
