package main

import (
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/fuxingjun/taoli-tools-signer/pkg/log"
)

type Mode string

const (
	ModeProduction Mode = "production"
	ModeTest       Mode = "test"
)

const (
	configDirPathEnv     = "SIGNER_CONFIG_DIR_PATH"
	defaultConfigDirPath = "."
)

// Keychain backends selectable via SIGNER_KEYCHAIN_SOURCE.
const (
	KeychainSourceFile     = "file"
	KeychainSourceEnv      = "env"
	KeychainSourceDatabase = "database"
	KeychainSourceStatic   = "static"
)

const (
	keychainFileName = "keychain.yaml"
	keychainEnvVar   = "SIGNER_KEYCHAIN_YAML"
)

type serverSettings struct {
	ListenAddr     string `env:"SIGNER_LISTEN_ADDR" env-default:":8000"`
	MetricsAddr    string `env:"SIGNER_METRICS_ADDR" env-default:":4242"`
	KeychainSource string `env:"SIGNER_KEYCHAIN_SOURCE" env-default:"file"`
}

// Config represents the overall application configuration
type Config struct {
	mode           Mode
	listenAddr     string
	metricsAddr    string
	keychainSource string
	configDirPath  string
	dbConf         DatabaseConfig
	logConf        log.Config
}

// LoadConfig builds configuration from environment variables
func LoadConfig(logger log.Logger) (*Config, error) {
	logger = logger.Named("config")

	configDirPath := os.Getenv(configDirPathEnv)
	if configDirPath == "" {
		configDirPath = defaultConfigDirPath
	}

	// Load .env files
	configDotEnvPath := filepath.Join(configDirPath, ".env")
	logger.Info("loading .env file", "path", configDotEnvPath)
	if err := godotenv.Load(configDotEnvPath); err != nil {
		logger.Warn(".env file not found")
	}

	mode := Mode(os.Getenv("SIGNER_MODE"))
	if mode == "" {
		mode = ModeProduction
	} else if mode != ModeProduction && mode != ModeTest {
		logger.Fatal("invalid SIGNER_MODE value", "value", mode)
	}
	logger.Info("set mode", "value", mode)

	var settings serverSettings
	if err := cleanenv.ReadEnv(&settings); err != nil {
		logger.Error("failed to read env", "err", err)
		return nil, err
	}

	var logConf log.Config
	if err := cleanenv.ReadEnv(&logConf); err != nil {
		logger.Error("failed to read env", "err", err)
		return nil, err
	}

	// Get database URL from environment variables
	var dbConf DatabaseConfig
	dbURL := os.Getenv("SIGNER_DATABASE_URL")

	// If DATABASE_URL is not empty, parse the connection string
	// Otherwise, read the envs in usual way
	if dbURL != "" {
		var err error
		dbConf, err = ParseConnectionString(dbURL)
		if err != nil {
			logger.Error("failed to parse connection string", "err", err)
			return nil, err
		}
	} else {
		// Read db config
		if err := cleanenv.ReadEnv(&dbConf); err != nil {
			logger.Error("failed to read env", "err", err)
			return nil, err
		}
	}

	config := Config{
		mode:           mode,
		listenAddr:     settings.ListenAddr,
		metricsAddr:    settings.MetricsAddr,
		keychainSource: settings.KeychainSource,
		configDirPath:  configDirPath,
		dbConf:         dbConf,
		logConf:        logConf,
	}

	return &config, nil
}
