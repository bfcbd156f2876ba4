package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string

	SpeedyBaseURL  string
	SpeedyUserName string
	SpeedyPassword string
	SpeedyLanguage string
	CountryID      int64
	ServiceID      int64
	CourierPayer   string

	SenderName  string
	SenderPhone string
	SenderEmail string

	DefaultContents string
	DefaultPackage  string
	DefaultWeight   float64

	ShopifyStore    string
	ShopifyAPIToken string

	RetryPollInterval time.Duration
	PendingStaleAfter time.Duration
	WorkerPoolSize    int
	RetryBatchSize    int
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultSpeedyBaseURL     = "https://api.speedy.bg/v1"
	defaultSpeedyLanguage    = "EN"
	defaultCountryID         = 100
	defaultServiceID         = 505
	defaultCourierPayer      = "RECIPIENT"
	defaultContents          = "Documents"
	defaultPackage           = "ENVELOPE"
	defaultWeight            = 0.2
	defaultRetryPollInterval = time.Minute
	defaultPendingStaleAfter = 10 * time.Minute
	defaultWorkerPoolSize    = 4
	defaultRetryBatchSize    = 16
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		SpeedyBaseURL:     getString(lookup, "SPEEDY_API_BASE_URL", defaultSpeedyBaseURL),
		SpeedyUserName:    getString(lookup, "SPEEDY_USERNAME", ""),
		SpeedyPassword:    getString(lookup, "SPEEDY_PASSWORD", ""),
		SpeedyLanguage:    getString(lookup, "SPEEDY_LANGUAGE", defaultSpeedyLanguage),
		CountryID:         getInt64(lookup, "COUNTRY_ID", defaultCountryID),
		ServiceID:         getInt64(lookup, "SERVICE_ID", defaultServiceID),
		CourierPayer:      getString(lookup, "COURIER_PAYER", defaultCourierPayer),
		SenderName:        getString(lookup, "SENDER_NAME", ""),
		SenderPhone:       getString(lookup, "SENDER_PHONE", ""),
		SenderEmail:       getString(lookup, "SENDER_EMAIL", ""),
		DefaultContents:   getString(lookup, "DEFAULT_CONTENTS", defaultContents),
		DefaultPackage:    getString(lookup, "DEFAULT_PACKAGE", defaultPackage),
		DefaultWeight:     getFloat(lookup, "DEFAULT_WEIGHT", defaultWeight),
		ShopifyStore:      getString(lookup, "SHOPIFY_STORE", ""),
		ShopifyAPIToken:   getString(lookup, "SHOPIFY_API_TOKEN", ""),
		RetryPollInterval: getDuration(lookup, "RETRY_POLL_INTERVAL", defaultRetryPollInterval),
		PendingStaleAfter: getDuration(lookup, "PENDING_STALE_AFTER", defaultPendingStaleAfter),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		RetryBatchSize:    getInt(lookup, "RETRY_BATCH_SIZE", defaultRetryBatchSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("shipgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		retryIntervalStr   = cfg.RetryPollInterval.String()
		pendingStaleStr    = cfg.PendingStaleAfter.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.SpeedyBaseURL, "r", cfg.SpeedyBaseURL, "Courier API base URL")
	fs.StringVar(&cfg.SpeedyUserName, "speedy-user", cfg.SpeedyUserName, "Courier API user name")
	fs.StringVar(&cfg.SpeedyPassword, "speedy-password", cfg.SpeedyPassword, "Courier API password")
	fs.StringVar(&cfg.SenderName, "sender-name", cfg.SenderName, "Sender contact name")
	fs.StringVar(&cfg.SenderPhone, "sender-phone", cfg.SenderPhone, "Sender phone number")
	fs.StringVar(&cfg.SenderEmail, "sender-email", cfg.SenderEmail, "Sender email")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent retry workers")
	fs.StringVar(&retryIntervalStr, "retry-interval", retryIntervalStr, "Interval between retry sweeps")
	fs.StringVar(&pendingStaleStr, "pending-stale-after", pendingStaleStr, "Age after which a pending shipment is retried")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.RetryBatchSize, "retry-batch", cfg.RetryBatchSize, "Maximum shipments per retry sweep")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RetryPollInterval, err = time.ParseDuration(retryIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid retry interval: %w", err)
	}

	if cfg.PendingStaleAfter, err = time.ParseDuration(pendingStaleStr); err != nil {
		return nil, fmt.Errorf("invalid pending stale window: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if passwordFile, ok := lookup("SPEEDY_PASSWORD_FILE"); ok && passwordFile != "" {
		content, err := os.ReadFile(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("read courier password file: %w", err)
		}
		cfg.SpeedyPassword = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.RetryBatchSize <= 0 {
		cfg.RetryBatchSize = defaultRetryBatchSize
	}

	if cfg.RetryPollInterval <= 0 {
		cfg.RetryPollInterval = defaultRetryPollInterval
	}

	if cfg.PendingStaleAfter <= 0 {
		cfg.PendingStaleAfter = defaultPendingStaleAfter
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DefaultWeight <= 0 {
		cfg.DefaultWeight = defaultWeight
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.SpeedyUserName == "" || cfg.SpeedyPassword == "" {
		return nil, fmt.Errorf("courier API credentials must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
