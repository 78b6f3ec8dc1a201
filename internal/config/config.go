package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort          = 5001
	DefaultRefreshAPIURL = "https://data.moenv.gov.tw/api/v1/datasets/CFP_P_02/json"
	DefaultFactorsFile   = "moenv_factors_full.json"
	DefaultRefreshLog    = "update_log.txt"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Port        int

	OTLPEndpoint string

	DataDir     string
	FactorsPath string
	AliasesFile string

	DBType        string
	DBPath        string
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	DBMaxOpenConn int

	Refresh RefreshConfig
}

// RefreshConfig configures the dataset refresher job.
type RefreshConfig struct {
	APIURL   string
	Timeout  time.Duration
	Schedule string
	LogFile  string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	dataDir := getenv("DATA_DIR", "data")

	cfg := Config{
		AppName:       getenv("APP_SERVICE", "custoscarbon"),
		AppVersion:    getenv("APP_VERSION", "0.1.0"),
		Environment:   getenv("ENVIRONMENT", "development"),
		Port:          getenvInt("PORT", DefaultPort),
		OTLPEndpoint:  getenv("OTLP_ENDPOINT", "localhost:4317"),
		DataDir:       dataDir,
		FactorsPath:   getenv("FACTORS_PATH", filepath.Join(dataDir, DefaultFactorsFile)),
		AliasesFile:   strings.TrimSpace(getenv("ALIASES_FILE", "")),
		DBType:        strings.ToLower(getenv("DATABASE_TYPE", "sqlite")),
		DBPath:        getenv("DATABASE_PATH", "carbon_data.db"),
		DBHost:        getenv("DATABASE_HOST", "localhost"),
		DBPort:        getenv("DATABASE_PORT", "5432"),
		DBName:        getenv("DATABASE_NAME", "custoscarbon"),
		DBUser:        getenv("DATABASE_USER", "postgres"),
		DBPassword:    getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:     getenv("DATABASE_SSLMODE", "disable"),
		DBMaxOpenConn: getenvInt("DATABASE_MAX_OPEN_CONN", 1),
		Refresh: RefreshConfig{
			APIURL:   getenv("REFRESH_API_URL", DefaultRefreshAPIURL),
			Timeout:  getenvDuration("REFRESH_TIMEOUT", 15*time.Second),
			Schedule: strings.TrimSpace(getenv("REFRESH_SCHEDULE", "")),
			LogFile:  getenv("REFRESH_LOG_FILE", filepath.Join(dataDir, DefaultRefreshLog)),
		},
	}

	return cfg
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}
	return ":" + strconv.Itoa(port)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
		return parsed
	}
	// bare numbers are seconds
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
