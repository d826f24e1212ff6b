package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vc-valuation/internal/cache"
	"vc-valuation/internal/config"
	"vc-valuation/internal/server"
	"vc-valuation/internal/solver"
	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/constants"
	"vc-valuation/pkg/output"
	"vc-valuation/pkg/report"
	"vc-valuation/pkg/spreadsheet"
	"vc-valuation/pkg/validation"
)

// version is set at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	exportXLSX := flag.String("export-xlsx", "", "path to write an Excel workbook of the results")
	exportMarkdown := flag.String("export-markdown", "", "path to write a markdown report of the results")
	solveTargets := flag.Bool("solve", false, "solve for the entry terms required by the configured return targets")
	serve := flag.Bool("serve", false, "start the web UI instead of running once")
	addr := flag.String("addr", "", "listen address override for -serve")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	if *serve {
		runServer(*serverConfigLocation, *addr, *logLevel)
		return
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid valuation assumptions",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Run the entry-terms solver when requested.
	var solverResult *solver.Result
	if *solveTargets {
		runner, err := solver.NewRunner(logger, conf)
		if err != nil {
			logger.Fatal("failed to initialize solver",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		solverResult, err = runner.Run()
		if err != nil {
			logger.Fatal("solver execution failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	// Compute the valuations for all scenarios.
	results, err := valuation.Compute(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute valuation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if solverResult != nil && !solverResult.Empty() {
		solverResult.Apply(results)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	}

	// Handle exports.
	if *exportXLSX != "" {
		if err := spreadsheet.Save(*exportXLSX, results); err != nil {
			logger.Fatal("failed to export workbook",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("workbook exported",
			zap.String("op", "main"),
			zap.String("path", *exportXLSX),
		)
	}

	if *exportMarkdown != "" {
		text, err := report.Markdown(results, report.Metadata{
			ValuationDate: conf.Valuation.ValuationDate,
			GeneratedAt:   time.Now().Format(constants.DateTimeLayout),
		})
		if err != nil {
			logger.Fatal("failed to build markdown report",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if err := os.WriteFile(*exportMarkdown, []byte(text), 0644); err != nil {
			logger.Fatal("failed to write markdown report",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("report exported",
			zap.String("op", "main"),
			zap.String("path", *exportMarkdown),
		)
	}
}

func runServer(configLocation, addrOverride, logLevelOverride string) {
	serverConf, err := server.LoadConfig(configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", configLocation, err)
		return
	}
	if addrOverride != "" {
		serverConf.Address = addrOverride
	}

	logger, err := initializeLogger(serverConf.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	var store cache.Cache
	if serverConf.Cache.Enabled {
		ttl := time.Duration(serverConf.Cache.TTLSeconds) * time.Second
		if serverConf.Cache.RedisAddr != "" {
			store = cache.NewRedis(serverConf.Cache.RedisAddr, ttl)
			logger.Info("response cache enabled",
				zap.String("op", "main"),
				zap.String("backend", "redis"),
				zap.String("addr", serverConf.Cache.RedisAddr),
			)
		} else {
			store = cache.NewMemory(ttl)
			logger.Info("response cache enabled",
				zap.String("op", "main"),
				zap.String("backend", "memory"),
			)
		}
	}

	handler := server.NewHandler(logger, serverConf.UploadSizeBytes(), version, store)

	logger.Info("starting web UI",
		zap.String("op", "main"),
		zap.String("address", serverConf.Address),
	)
	if err := http.ListenAndServe(serverConf.Address, handler); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
