// Package config provides centralized configuration management for MoviePulse.
// It handles loading configuration from multiple sources, validation, and
// resolution of every file path the application reads or writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The file is read from MOVIEPULSE_CONFIG when set, otherwise from
// config.yaml or configs/config.yaml in the working directory.
//
// # Environment Variables
//
// All environment variables follow the pattern MOVIEPULSE_<SECTION>_<FIELD>:
//
//	MOVIEPULSE_SERVER_PORT=8080
//	MOVIEPULSE_DATASET_SOURCE_PATH=/data/imdb_movies.csv
//	MOVIEPULSE_DATASET_DROP_COLUMNS=title,description
//	MOVIEPULSE_LOGGING_LEVEL=debug
//
// # Path Management
//
// Dataset paths are resolved against Dataset.BaseDir (the working directory
// when unset) into a Paths value:
//
//	paths, err := cfg.ResolvePaths()
//	chart := paths.ChartFile
//
// # Validation
//
// Struct tags are checked with go-playground/validator once all sources are
// merged. Failures are returned as CONFIG AppErrors listing the bad fields.
package config
