package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrMetricNotFound  = errors.New("metric not found")
	ErrDuplicatePlayer = errors.New("duplicate player")
	ErrEmptyDataset    = errors.New("empty dataset")
)
