package main

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/powo1/aetherpress/backend/internal/config"
	"github.com/powo1/aetherpress/backend/internal/content"
	"github.com/powo1/aetherpress/backend/internal/database"
	"github.com/powo1/aetherpress/backend/internal/documents"
	"github.com/powo1/aetherpress/backend/internal/export"
	"github.com/powo1/aetherpress/backend/internal/generation"
	"github.com/powo1/aetherpress/backend/internal/layout"
	"github.com/powo1/aetherpress/backend/internal/logging"
	"github.com/powo1/aetherpress/backend/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	pdfAuthor         = "AetherPress"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
	}

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	configViper := config.NewViper()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "aetherpress-api",
		Short:        "AetherPress document publishing backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(configViper, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), configViper)
		},
	}

	setupFlags(rootCmd, configViper, &cfgFile)
	rootCmd.AddCommand(newSeedCommand(configViper))

	return rootCmd
}

func setupFlags(cmd *cobra.Command, configViper *viper.Viper, cfgFile *string) {
	defaults := config.NewViper()
	flags := cmd.PersistentFlags()
	flags.StringVar(cfgFile, "config", "", "Path to configuration file")
	flags.String("http-address", defaults.GetString(config.KeyHTTPAddress), "HTTP listen address")
	flags.String("static-dir", defaults.GetString(config.KeyStaticDir), "Directory of frontend assets served for unknown routes")
	flags.String("database-driver", defaults.GetString(config.KeyDatabaseDriver), "Database driver (sqlite, postgres)")
	flags.String("database-path", defaults.GetString(config.KeyDatabasePath), "SQLite database path")
	flags.String("database-dsn", defaults.GetString(config.KeyDatabaseDSN), "PostgreSQL connection string")
	flags.String("log-level", defaults.GetString(config.KeyLogLevel), "Log level (debug, info, warn, error)")
	flags.String("allowed-origins", defaults.GetString(config.KeyAllowedOrigins), "Comma separated CORS origins")

	bindFlag(cmd, configViper, config.KeyHTTPAddress, "http-address")
	bindFlag(cmd, configViper, config.KeyStaticDir, "static-dir")
	bindFlag(cmd, configViper, config.KeyDatabaseDriver, "database-driver")
	bindFlag(cmd, configViper, config.KeyDatabasePath, "database-path")
	bindFlag(cmd, configViper, config.KeyDatabaseDSN, "database-dsn")
	bindFlag(cmd, configViper, config.KeyLogLevel, "log-level")
	bindFlag(cmd, configViper, config.KeyAllowedOrigins, "allowed-origins")
}

func bindFlag(cmd *cobra.Command, configViper *viper.Viper, key, flag string) {
	if err := configViper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig(configViper *viper.Viper, cfgFile string) error {
	if cfgFile == "" {
		return nil
	}
	configViper.SetConfigFile(cfgFile)
	return configViper.ReadInConfig()
}

// appRuntime bundles what every command needs from configuration.
type appRuntime struct {
	config    config.AppConfig
	logger    *zap.Logger
	db        *gorm.DB
	documents *documents.Service
}

func (r appRuntime) close() {
	if err := database.Close(r.db); err != nil {
		r.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = r.logger.Sync()
}

func openRuntime(configViper *viper.Viper) (appRuntime, error) {
	appConfig, err := config.Load(configViper)
	if err != nil {
		return appRuntime{}, err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return appRuntime{}, err
	}

	db, err := database.Open(database.Config{
		Driver: appConfig.DatabaseDriver,
		Path:   appConfig.DatabasePath,
		DSN:    appConfig.DatabaseDSN,
	}, logger)
	if err != nil {
		_ = logger.Sync()
		return appRuntime{}, err
	}

	documentService, err := documents.NewService(documents.ServiceConfig{
		Database: db,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		_ = database.Close(db)
		return appRuntime{}, err
	}

	return appRuntime{config: appConfig, logger: logger, db: db, documents: documentService}, nil
}

func runServer(ctx context.Context, configViper *viper.Viper) error {
	app, err := openRuntime(configViper)
	if err != nil {
		return err
	}
	defer app.close()

	appConfig := app.config
	logger := app.logger

	contentStore, err := content.NewStore(content.StoreConfig{
		Database: app.db,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	renderer, err := layout.NewRenderer()
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		DocumentService: app.documents,
		ContentStore:    contentStore,
		Generator:       generation.NewMockGenerator(),
		Layout:          renderer,
		Exporter:        export.NewPDFRenderer(pdfAuthor),
		Realtime:        server.NewRealtimeDispatcher(),
		Logger:          logger,
		AllowedOrigins:  appConfig.AllowedOrigins,
		StaticDir:       appConfig.StaticDir,
	})
	if err != nil {
		return err
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(signalCtx)

	httpServer := &http.Server{
		Addr:              appConfig.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return groupCtx
		},
	}

	group.Go(func() error {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server stopping")
		return httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
