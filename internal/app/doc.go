// Package app wires the movie dataset service together and manages its
// lifecycle.
//
// # Initialization Flow
//
// New performs the whole startup sequence before the server accepts a
// single request:
//
//	1. Resolve dataset and artifact paths against the base dir
//	2. Initialize OpenTelemetry and the business metrics
//	3. Validate and load the source CSV
//	4. Clean, expand and aggregate it (dataprocessing.Run)
//	5. Render the chart and the summary workbook
//	6. Write the cleaned CSV, chart PNG and workbook concurrently
//	7. Freeze the result into a services.Dataset and build the router
//
// A missing or unreadable source file, a missing rating column or a failed
// artifact write is returned as an error. A chart or workbook that cannot be
// rendered is logged and the matching endpoint answers 404.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    slog.Error("Failed to create application", "error", err)
//	    os.Exit(1)
//	}
//	if err := application.Run(); err != nil {
//	    slog.Error("Application error", "error", err)
//	    os.Exit(1)
//	}
//
// Builder can be used on its own to produce the artifacts without serving
// them, which is what cmd/cleaner does.
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes the OpenTelemetry providers.
package app
