package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings the application needs at startup:
// server address, database connection and the monitoring/analytics constants.
// Monitoring thresholds are recognized configuration options; business logic
// never hard-codes them.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`                 // Server listen address
	JwtSecret             string `env:"JWT_SECRET,required"`                        // Secret for verifying bearer tokens
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`            // Database connection URI
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"church_connect"` // Database name
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`                // Allowed origins (comma separated, * = all)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`  // Allow credentials in CORS requests
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`            // Max requests per window (0 = disabled)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`          // Window length (seconds)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`       // Enable/disable rate limiting

	// Visitor monitoring window
	MonitoringWindowDays int `env:"MONITORING_WINDOW_DAYS" envDefault:"84"` // Observation window for joining visitors (12 weeks)
	RiskLookbackDays     int `env:"RISK_LOOKBACK_DAYS" envDefault:"30"`     // No-visit lookback that flags a visitor at risk

	// Analytics thresholds
	TrendThresholdPct      float64 `env:"TREND_THRESHOLD_PCT" envDefault:"5"`       // growing above +x%, declining below -x%
	SevereDeclinePct       float64 `env:"SEVERE_DECLINE_PCT" envDefault:"20"`       // decline beyond -x% escalates support priority
	LowConversionPct       float64 `env:"LOW_CONVERSION_PCT" envDefault:"30"`       // below this a team needs training
	HighConversionPct      float64 `env:"HIGH_CONVERSION_PCT" envDefault:"70"`      // at or above this a team's practices are shareable
	AttentionConversionPct float64 `env:"ATTENTION_CONVERSION_PCT" envDefault:"50"` // below this a team counts as needing attention
	RecognitionTopN        int     `env:"RECOGNITION_TOP_N" envDefault:"3"`         // recognition cohort size
	GrowthMonthsWindow     int     `env:"GROWTH_MONTHS_WINDOW" envDefault:"6"`      // default monthly growth window

	// Aggregate cache / sweep scheduling
	AnalyticsCacheTTLSeconds int `env:"ANALYTICS_CACHE_TTL_SECONDS" envDefault:"180"` // TTL for cached aggregates
	SweepIntervalHours       int `env:"SWEEP_INTERVAL_HOURS" envDefault:"24"`         // Lifecycle sweep period
	SweepBatchSize           int `env:"SWEEP_BATCH_SIZE" envDefault:"200"`            // Visitors fetched per sweep batch
}

// getEnvPath returns the env file path for the current environment.
func getEnvPath() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// fmt.Printf because the logger may not be initialized yet
		fmt.Printf("Could not determine working directory: %v\n", err)
		return ""
	}

	// Walk up until a config/env directory is found
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads configuration from the environment file for GO_ENV.
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		fmt.Printf("config/env directory not found\n")
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("Could not load env file at %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Error parsing config: %+v\n", err)
		return nil
	}

	return &cfg
}
