// Package services holds the read-only application services behind the HTTP
// handlers.
//
// # Dataset
//
// A Dataset is built once at startup from the pipeline result and the encoded
// artifacts. Row objects are materialised in NewDataset so handlers never
// re-derive them, and the BLAKE2b fingerprint of the cleaned CSV doubles as
// the ETag for conditional GETs. Nothing on a Dataset changes after
// construction, which is what lets handlers share it without locks.
//
//	ds, err := services.NewDataset(services.DatasetInput{
//		Result:     result,
//		CSV:        csvBytes,
//		Chart:      png,
//		SampleSize: cfg.Dataset.SampleSize,
//	})
//	svc := services.NewDatasetService(ds, logger)
//
// # Health
//
// HealthService answers liveness, readiness and version probes. The process
// is ready once a dataset is attached; a missing chart is reported in the
// readiness body but does not fail it.
package services
