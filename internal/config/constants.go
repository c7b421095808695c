package config

import "time"

// Application constants
const (
	// Application Info
	AppName = "moviepulse"

	// Environment
	EnvPrefix     = "MOVIEPULSE"
	ConfigFileEnv = "MOVIEPULSE_CONFIG"

	// Server
	DefaultPort           = 8080
	DefaultRequestTimeout = 30 * time.Second

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Dataset artifacts (relative to the base dir)
	DefaultCleanedCSV  = "cleaned_data.csv"
	DefaultStaticDir   = "static"
	DefaultChartFile   = "genre_ratings.png"
	DefaultSummaryXLSX = "genre_summary.xlsx"
	DefaultSampleSize  = 5

	// Endpoints
	HealthEndpoint  = "/api/health"
	VersionEndpoint = "/api/version"
	MetricsEndpoint = "/metrics"
	ChartEndpoint   = "/chart"
)
