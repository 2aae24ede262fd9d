package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petalworks/bloom/backend/internal/auth"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"github.com/petalworks/bloom/backend/internal/clients"
	"github.com/petalworks/bloom/backend/internal/config"
	"github.com/petalworks/bloom/backend/internal/database"
	"github.com/petalworks/bloom/backend/internal/events"
	"github.com/petalworks/bloom/backend/internal/inquiry"
	"github.com/petalworks/bloom/backend/internal/logging"
	"github.com/petalworks/bloom/backend/internal/mail"
	"github.com/petalworks/bloom/backend/internal/server"
	"github.com/petalworks/bloom/backend/internal/storage"
	"github.com/petalworks/bloom/backend/internal/vendors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "bloom-api",
		Short: "Bloom florist platform backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("public-base-url", defaults.GetString("public.base_url"), "Public base URL for client login links")
	cmd.PersistentFlags().Bool("auth-required", defaults.GetBool("auth.required"), "Require client login tokens on event mutations")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("auth.token_ttl_minutes"), "Client login token TTL in minutes")
	cmd.PersistentFlags().String("smtp-address", defaults.GetString("smtp.address"), "SMTP relay address (empty disables email)")
	cmd.PersistentFlags().String("smtp-from", defaults.GetString("smtp.from"), "Transactional email sender address")
	cmd.PersistentFlags().String("storage-root", defaults.GetString("storage.root"), "Inspiration image storage directory")
	cmd.PersistentFlags().String("storage-base-url", defaults.GetString("storage.base_url"), "Public base URL for stored images")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Client token signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "public.base_url", "public-base-url")
	bindFlag(cmd, "auth.required", "auth-required")
	bindFlag(cmd, "auth.token_ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "smtp.address", "smtp-address")
	bindFlag(cmd, "smtp.from", "smtp-from")
	bindFlag(cmd, "storage.root", "storage-root")
	bindFlag(cmd, "storage.base_url", "storage-base-url")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	imageStore, err := storage.NewDiskStore(appConfig.StorageRoot, appConfig.StorageBaseURL)
	if err != nil {
		return err
	}

	var sender mail.Sender = mail.Disabled{}
	if appConfig.SMTPAddress != "" {
		sender = mail.NewSMTPSender(appConfig.SMTPAddress, appConfig.SMTPFrom)
	}

	tokenIssuer := auth.NewClientTokenIssuer(auth.ClientTokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "bloom-api",
		Audience:      "bloom-client",
		TokenTTL:      appConfig.TokenTTL,
	})

	vendorService, err := vendors.NewService(vendors.ServiceConfig{Database: db, Logger: logger})
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(catalog.ServiceConfig{Database: db, Logger: logger})
	if err != nil {
		return err
	}
	clientService, err := clients.NewService(clients.ServiceConfig{Database: db, Logger: logger})
	if err != nil {
		return err
	}
	eventService, err := events.NewService(events.ServiceConfig{
		Database: db,
		Clock:    time.Now,
		Images:   imageStore,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	inquiryService, err := inquiry.NewService(inquiry.ServiceConfig{
		Database:      db,
		Vendors:       vendorService,
		Clients:       clientService,
		Catalog:       catalogService,
		Tokens:        tokenIssuer,
		Mail:          sender,
		Clock:         time.Now,
		Logger:        logger,
		PublicBaseURL: appConfig.PublicBaseURL,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Vendors:      vendorService,
		Catalog:      catalogService,
		Events:       eventService,
		Inquiries:    inquiryService,
		Tokens:       tokenIssuer,
		AuthRequired: appConfig.AuthRequired,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
