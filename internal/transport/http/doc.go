// Package http implements the HTTP handlers of the dataset API. Handlers are
// thin: they read from the dataset service, map service errors to RFC 7807
// problem responses through apierrors.ErrorHandler, and render JSON with
// go-chi/render.
//
// # Endpoints
//
//	GET /                   HTML welcome page, embeds the chart when present
//	GET /chart              chart PNG
//	GET /data               every cleaned row as a JSON array
//	GET /data/sample        the first rows
//	GET /data/summary       ranked average rating per genre
//	GET /data/columns       inferred column profile
//	GET /data/summary.xlsx  summary workbook
//	GET /api/health         liveness of the process
//	GET /api/health/ready   503 until the dataset is loaded
//	GET /api/health/live    runtime statistics
//	GET /api/health/dataset dataset counters
//	GET /api/version        build information
//	GET /metrics            Prometheus exposition
//
// # Conditional requests
//
// The JSON data endpoints send the dataset fingerprint as ETag and answer
// 304 Not Modified when If-None-Match carries it. The dataset never changes
// after startup, so the tag is stable for the life of the process.
//
// # Errors
//
// Service errors are translated here and nowhere else:
//
//	services.ErrDatasetNotLoaded -> 503 DATASET_NOT_READY
//	services.ErrChartNotRendered -> 404 CHART_NOT_FOUND
//	services.ErrWorkbookNotBuilt -> 404 EXPORT_NOT_FOUND
//
// Anything else becomes a generic 500 problem; the cause is logged, not sent.
package http
