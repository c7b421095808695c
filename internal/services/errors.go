package services

import "errors"

// Dataset service errors
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrChartNotRendered = errors.New("no chart rendered")
	ErrWorkbookNotBuilt = errors.New("no summary workbook built")
)
