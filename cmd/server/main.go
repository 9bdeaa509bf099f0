package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BoraResearchLab/dashboard_svc/internal/data"
	"github.com/BoraResearchLab/dashboard_svc/internal/httpapi"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
	"github.com/BoraResearchLab/dashboard_svc/internal/task"
	"github.com/BoraResearchLab/dashboard_svc/internal/transform"
	widgetregistry "github.com/BoraResearchLab/dashboard_svc/internal/widget/registry"
)

const (
	commandUseName          = "server"
	commandShortDescription = "Run the dashboard server"
	commandLongDescription  = "Launch the dashboard builder HTTP server"

	missingConfigurationMessage   = "missing required configuration"
	loggerCreationErrorMessage    = "logger"
	unexpectedArgumentsMessage    = "unexpected command arguments"
	commandInitializationFailure  = "failed to configure command"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"

	logEventListening         = "listening"
	logFieldAddress           = "addr"
	loggerContextOpenDatabase = "open_db"
	loggerContextAutoMigrate  = "migrate"
	loggerContextRepository   = "repository"
	loggerContextUploads      = "uploads"
	loggerContextRegistry     = "registry"
	loggerContextServer       = "server"
	logEventStubDataResolver  = "using_stub_data_resolver"
	logFieldRedisAddress      = "redis_addr"
	logEventRedisDataResolver = "using_redis_data_resolver"

	flagNameApplicationAddress     = "app-addr"
	flagNameDatabaseDriverName     = "db-driver"
	flagNameDatabaseDataSourceName = "db-dsn"
	flagNameUploadsDirectory       = "uploads-dir"
	flagNameIconsDirectory         = "icons-dir"
	flagNameRedisAddress           = "redis-addr"

	flagUsageApplicationAddress     = "address for the HTTP server to listen on"
	flagUsageDatabaseDriverName     = "database driver name"
	flagUsageDatabaseDataSourceName = "database connection string"
	flagUsageUploadsDirectory       = "directory for uploaded schematic images"
	flagUsageIconsDirectory         = "directory holding the icon catalog"
	flagUsageRedisAddress           = "redis address for widget data values; empty selects the stub resolver"

	environmentKeyApplicationAddress = "APP_ADDR"
	environmentKeyDatabaseDriverName = "DB_DRIVER"
	environmentKeyDatabaseDataSource = "DB_DSN"
	environmentKeyUploadsDirectory   = "UPLOADS_DIR"
	environmentKeyIconsDirectory     = "ICONS_DIR"
	environmentKeyRedisAddress       = "REDIS_ADDR"

	defaultApplicationAddress = ":8080"
	defaultDatabaseDriverName = storage.DriverNameSQLite
	defaultUploadsDirectory   = "uploads"
	defaultIconsDirectory     = "icons"

	readHeaderTimeoutSeconds = 5
)

// ServerConfig captures configuration needed to run the server.
type ServerConfig struct {
	ApplicationAddress     string
	DatabaseDriverName     string
	DatabaseDataSourceName string
	UploadsDirectory       string
	IconsDirectory         string
	RedisAddress           string
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
	application.configurationLoader.SetDefault(environmentKeyDatabaseDriverName, defaultDatabaseDriverName)
	application.configurationLoader.SetDefault(environmentKeyDatabaseDataSource, "")
	application.configurationLoader.SetDefault(environmentKeyUploadsDirectory, defaultUploadsDirectory)
	application.configurationLoader.SetDefault(environmentKeyIconsDirectory, defaultIconsDirectory)
	application.configurationLoader.SetDefault(environmentKeyRedisAddress, "")
	application.configurationLoader.AutomaticEnv()

	commandFlags := command.Flags()
	commandFlags.String(flagNameApplicationAddress, defaultApplicationAddress, flagUsageApplicationAddress)
	commandFlags.String(flagNameDatabaseDriverName, defaultDatabaseDriverName, flagUsageDatabaseDriverName)
	commandFlags.String(flagNameDatabaseDataSourceName, "", flagUsageDatabaseDataSourceName)
	commandFlags.String(flagNameUploadsDirectory, defaultUploadsDirectory, flagUsageUploadsDirectory)
	commandFlags.String(flagNameIconsDirectory, defaultIconsDirectory, flagUsageIconsDirectory)
	commandFlags.String(flagNameRedisAddress, "", flagUsageRedisAddress)

	flagBindings := []struct {
		environmentKey string
		flagName       string
	}{
		{environmentKeyApplicationAddress, flagNameApplicationAddress},
		{environmentKeyDatabaseDriverName, flagNameDatabaseDriverName},
		{environmentKeyDatabaseDataSource, flagNameDatabaseDataSourceName},
		{environmentKeyUploadsDirectory, flagNameUploadsDirectory},
		{environmentKeyIconsDirectory, flagNameIconsDirectory},
		{environmentKeyRedisAddress, flagNameRedisAddress},
	}
	for _, binding := range flagBindings {
		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	if markErr := command.MarkFlagRequired(flagNameDatabaseDataSourceName); markErr != nil {
		return markErr
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
		ApplicationAddress:     application.configurationLoader.GetString(environmentKeyApplicationAddress),
		DatabaseDriverName:     strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDriverName)),
		DatabaseDataSourceName: strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDataSource)),
		UploadsDirectory:       strings.TrimSpace(application.configurationLoader.GetString(environmentKeyUploadsDirectory)),
		IconsDirectory:         strings.TrimSpace(application.configurationLoader.GetString(environmentKeyIconsDirectory)),
		RedisAddress:           strings.TrimSpace(application.configurationLoader.GetString(environmentKeyRedisAddress)),
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
		DriverName:     serverConfig.DatabaseDriverName,
		DataSourceName: serverConfig.DatabaseDataSourceName,
	})
	if databaseErr != nil {
		logger.Fatal(loggerContextOpenDatabase, zap.Error(databaseErr))
	}

	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		logger.Fatal(loggerContextAutoMigrate, zap.Error(migrateErr))
	}

	repository, repositoryErr := storage.NewRepository(database)
	if repositoryErr != nil {
		logger.Fatal(loggerContextRepository, zap.Error(repositoryErr))
	}

	uploadStore, uploadsErr := httpapi.NewUploadStore(serverConfig.UploadsDirectory)
	if uploadsErr != nil {
		logger.Fatal(loggerContextUploads, zap.Error(uploadsErr))
	}

	registry, registryErr := widgetregistry.New()
	if registryErr != nil {
		logger.Fatal(loggerContextRegistry, zap.Error(registryErr))
	}

	pipeline := transform.NewPipeline(registry, logger)
	resolver := application.buildDataResolver(serverConfig, logger)

	router := buildRouter(routerDependencies{
		logger:     logger,
		repository: repository,
		registry:   registry,
		pipeline:   pipeline,
		resolver:   resolver,
		uploads:    uploadStore,
		iconsDir:   serverConfig.IconsDirectory,
	})

	sweeper := task.NewUploadSweeper(repository, serverConfig.UploadsDirectory, logger)
	scheduler := task.NewScheduler(task.DefaultSweepInterval, sweeper.Sweep)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

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

// buildDataResolver selects the widget data backend. A configured Redis
// address selects the live resolver; otherwise the deterministic stub serves
// development setups without a data backend.
func (application *ServerApplication) buildDataResolver(serverConfig ServerConfig, logger *zap.Logger) data.Resolver {
	if serverConfig.RedisAddress == "" {
		logger.Info(logEventStubDataResolver)
		return data.NewStubResolver()
	}
	redisClient := redis.NewClient(&redis.Options{Addr: serverConfig.RedisAddress})
	logger.Info(logEventRedisDataResolver, zap.String(logFieldRedisAddress, serverConfig.RedisAddress))
	return data.NewRedisResolver(redisClient, logger, "")
}

func (application *ServerApplication) ensureRequiredConfiguration(configuration ServerConfig) error {
	var missingParameters []string

	if configuration.DatabaseDataSourceName == "" {
		missingParameters = append(missingParameters, flagNameDatabaseDataSourceName)
	}

	if configuration.UploadsDirectory == "" {
		missingParameters = append(missingParameters, flagNameUploadsDirectory)
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
