package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/httpapi"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/profile"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/storage"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/task"
)

const (
	commandUseName          = "server"
	commandShortDescription = "Run the law office site"
	commandLongDescription  = "Launch the public law office site and its admin panel"

	missingConfigurationMessage   = "missing required configuration"
	loggerCreationErrorMessage    = "logger"
	unexpectedArgumentsMessage    = "unexpected command arguments"
	commandInitializationFailure  = "failed to configure command"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"

	flagNameApplicationAddress   = "app-addr"
	flagNameDatabasePath         = "db-path"
	flagNameAdminPassword        = "admin-password"
	flagNameSessionSecret        = "session-secret"
	flagNameInboxSummaryInterval = "inbox-summary-interval"

	flagUsageApplicationAddress   = "address for the HTTP server to listen on"
	flagUsageDatabasePath         = "path to the SQLite database file"
	flagUsageAdminPassword        = "password required to enter the admin panel"
	flagUsageSessionSecret        = "secret used to authenticate admin session cookies"
	flagUsageInboxSummaryInterval = "how often the inbox summary is logged"

	environmentKeyApplicationAddress   = "APP_ADDR"
	environmentKeyDatabasePath         = "DB_PATH"
	environmentKeyAdminPassword        = "ADMIN_PASSWORD"
	environmentKeySessionSecret        = "SESSION_SECRET"
	environmentKeyInboxSummaryInterval = "INBOX_SUMMARY_INTERVAL"

	defaultApplicationAddress   = ":8080"
	defaultDatabasePath         = "advocacia.db"
	defaultInboxSummaryInterval = 10 * time.Minute

	logEventListening         = "listening"
	logFieldAddress           = "addr"
	loggerContextOpenDatabase = "open_db"
	loggerContextAutoMigrate  = "migrate"
	loggerContextServer       = "server"

	readHeaderTimeoutSeconds = 5
)

// ServerConfig captures configuration needed to run the server.
type ServerConfig struct {
	ApplicationAddress   string
	DatabasePath         string
	AdminPassword        string
	SessionSecret        string
	InboxSummaryInterval time.Duration
}

// DatabaseOpener opens a database connection using the provided configuration.
type DatabaseOpener func(storage.Config) (*gorm.DB, error)

// ServerApplication constructs and executes the server command.
type ServerApplication struct {
	configurationLoader *viper.Viper
	databaseOpener      DatabaseOpener
}

// NewServerApplication creates a ServerApplication with default dependencies.
func NewServerApplication() *ServerApplication {
	return &ServerApplication{
		configurationLoader: viper.New(),
		databaseOpener:      storage.OpenDatabase,
	}
}

// WithDatabaseOpener overrides the database opener dependency.
func (application *ServerApplication) WithDatabaseOpener(databaseOpener DatabaseOpener) *ServerApplication {
	application.databaseOpener = databaseOpener
	return application
}

// Command builds the Cobra command for the server.
func (application *ServerApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		RunE:  application.runCommand,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	return rootCommand, nil
}

func (application *ServerApplication) configureCommand(command *cobra.Command) error {
	application.configurationLoader.SetDefault(environmentKeyApplicationAddress, defaultApplicationAddress)
	application.configurationLoader.SetDefault(environmentKeyDatabasePath, defaultDatabasePath)
	application.configurationLoader.SetDefault(environmentKeyAdminPassword, "")
	application.configurationLoader.SetDefault(environmentKeySessionSecret, "")
	application.configurationLoader.SetDefault(environmentKeyInboxSummaryInterval, defaultInboxSummaryInterval)
	application.configurationLoader.AutomaticEnv()

	commandFlags := command.Flags()
	commandFlags.String(flagNameApplicationAddress, defaultApplicationAddress, flagUsageApplicationAddress)
	commandFlags.String(flagNameDatabasePath, defaultDatabasePath, flagUsageDatabasePath)
	commandFlags.String(flagNameAdminPassword, "", flagUsageAdminPassword)
	commandFlags.String(flagNameSessionSecret, "", flagUsageSessionSecret)
	commandFlags.Duration(flagNameInboxSummaryInterval, defaultInboxSummaryInterval, flagUsageInboxSummaryInterval)

	flagBindings := []struct {
		environmentKey string
		flagName       string
	}{
		{environmentKeyApplicationAddress, flagNameApplicationAddress},
		{environmentKeyDatabasePath, flagNameDatabasePath},
		{environmentKeyAdminPassword, flagNameAdminPassword},
		{environmentKeySessionSecret, flagNameSessionSecret},
		{environmentKeyInboxSummaryInterval, flagNameInboxSummaryInterval},
	}

	for _, binding := range flagBindings {
		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	return nil
}

func (application *ServerApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *ServerApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationError, setErr)
	}

	return nil
}

func (application *ServerApplication) runCommand(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}

	serverConfig := ServerConfig{
		ApplicationAddress:   application.configurationLoader.GetString(environmentKeyApplicationAddress),
		DatabasePath:         strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabasePath)),
		AdminPassword:        application.configurationLoader.GetString(environmentKeyAdminPassword),
		SessionSecret:        application.configurationLoader.GetString(environmentKeySessionSecret),
		InboxSummaryInterval: application.configurationLoader.GetDuration(environmentKeyInboxSummaryInterval),
	}

	if validationErr := application.ensureRequiredConfiguration(serverConfig); validationErr != nil {
		return validationErr
	}

	logger, loggerErr := zap.NewProduction()
	if loggerErr != nil {
		return fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, databaseErr := application.databaseOpener(storage.Config{
		DriverName:     storage.DriverNameSQLite,
		DataSourceName: serverConfig.DatabasePath,
	})
	if databaseErr != nil {
		logger.Fatal(loggerContextOpenDatabase, zap.Error(databaseErr))
	}

	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		logger.Fatal(loggerContextAutoMigrate, zap.Error(migrateErr))
	}

	router := buildRouter(database, logger, serverConfig)

	inboxSummaryScheduler := task.NewInboxSummaryJob(database, logger).Scheduler(serverConfig.InboxSummaryInterval)
	inboxSummaryScheduler.Start(context.Background())
	defer inboxSummaryScheduler.Stop()

	httpServer := &http.Server{
		Addr:              serverConfig.ApplicationAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}

	logger.Info(logEventListening, zap.String(logFieldAddress, serverConfig.ApplicationAddress))
	if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Fatal(loggerContextServer, zap.Error(serveErr))
	}

	return nil
}

func buildRouter(database *gorm.DB, logger *zap.Logger, serverConfig ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))

	contactBroadcaster := httpapi.NewContactEventBroadcaster()
	profileService := profile.NewService(database, logger)
	authManager := httpapi.NewAuthManager(logger, serverConfig.AdminPassword, serverConfig.SessionSecret)

	publicHandlers := httpapi.NewPublicHandlers(database, logger, contactBroadcaster)
	adminHandlers := httpapi.NewAdminHandlers(database, logger, profileService, contactBroadcaster)
	sitePageHandlers := httpapi.NewSitePageHandlers(logger, profileService)
	loginPageHandlers := httpapi.NewLoginPageHandlers(logger)
	dashboardPageHandlers := httpapi.NewDashboardPageHandlers(logger)

	registerFrontendRoutes(router, authManager, sitePageHandlers, loginPageHandlers, dashboardPageHandlers)
	registerBackendRoutes(router, authManager, publicHandlers, adminHandlers)

	return router
}

func (application *ServerApplication) ensureRequiredConfiguration(configuration ServerConfig) error {
	var missingParameters []string

	if strings.TrimSpace(configuration.AdminPassword) == "" {
		missingParameters = append(missingParameters, flagNameAdminPassword)
	}

	if strings.TrimSpace(configuration.SessionSecret) == "" {
		missingParameters = append(missingParameters, flagNameSessionSecret)
	}

	if len(missingParameters) == 0 {
		return nil
	}

	return fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
}

func main() {
	application := NewServerApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}
