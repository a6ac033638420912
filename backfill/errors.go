package backfill

import "errors"

var (
	// ErrInvalidMaxRetries is returned when Config.MaxRetries is <= 0
	ErrInvalidMaxRetries = errors.New("MaxRetries must be greater than 0")
)
