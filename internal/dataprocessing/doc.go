// Package dataprocessing turns a raw movie CSV into the cleaned, expanded
// table and the per-genre rating summary served by the API.
//
// # Architecture
//
// The package is organized into four stages that run in a fixed order:
//
// 1. Loader: reads CSV into a domain.Table and normalizes column names
// 2. Cleaner: prunes columns, removes duplicates, repairs the monetary column
// 3. Expander: turns a delimited category field into indicator columns
// 4. Aggregator: computes the mean rating of the rows carrying each label
//
// Every stage after loading is a pure function of its input table. Input
// tables are never mutated; each stage returns a new table. File and image
// I/O live in the exporter and chart packages.
//
// # Usage
//
//	raw, report, err := dataprocessing.LoadFile("movies.csv")
//	if err != nil {
//	    return err
//	}
//	result, err := dataprocessing.Run(ctx, raw, report, dataprocessing.DefaultOptions())
//
// # Data Flow
//
//	CSV → Loader → Table → Cleaner → Expander → Aggregator → GenreSummary
//
// # Error Handling
//
// Malformed values never fail a stage. They are coerced to missing, imputed,
// and recorded as diagnostics. Only an unreadable input or a missing rating
// column aborts the run.
package dataprocessing
