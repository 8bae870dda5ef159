package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
}

type AppConfig struct {
	// OutputDir holds the transient pipeline artifacts (raw download and
	// serialized JSON). Recreated on startup if missing.
	OutputDir string
	// OutputBase is the artifact base name; the raw file gets the resolved
	// extension appended, the JSON file gets ".json".
	OutputBase string
	// HTTPTimeoutSeconds bounds the fetch. Zero disables the timeout.
	HTTPTimeoutSeconds int
	LogLevel           string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Region is the location constraint applied when the bucket has to be
	// created.
	Region string
	// KeyPrefix is the logical folder the JSON blob is uploaded under.
	KeyPrefix string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("APP_OUTPUT_DIR", "./output")
		viper.SetDefault("APP_OUTPUT_BASE", "dataingestion")
		viper.SetDefault("APP_HTTP_TIMEOUT_SECONDS", 60)
		viper.SetDefault("APP_LOG_LEVEL", "info")
		viper.SetDefault("STORAGE_ENDPOINT", "s3.amazonaws.com")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("STORAGE_REGION", "ap-south-1")
		viper.SetDefault("STORAGE_KEY_PREFIX", "DataIngestion")

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the artifact directory exists
		ensureDir(viper.GetString("APP_OUTPUT_DIR"))

		instance = &Config{
			App: AppConfig{
				OutputDir:          viper.GetString("APP_OUTPUT_DIR"),
				OutputBase:         viper.GetString("APP_OUTPUT_BASE"),
				HTTPTimeoutSeconds: viper.GetInt("APP_HTTP_TIMEOUT_SECONDS"),
				LogLevel:           viper.GetString("APP_LOG_LEVEL"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
				Region:    viper.GetString("STORAGE_REGION"),
				KeyPrefix: viper.GetString("STORAGE_KEY_PREFIX"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
