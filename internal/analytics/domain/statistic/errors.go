package statistic

import "errors"

var (
	// ErrInvalidGranularity is returned when granularity is unsupported.
	ErrInvalidGranularity = errors.New("statistic: invalid granularity")
	// ErrInvalidPeriodStart is returned when the period start is zero.
	ErrInvalidPeriodStart = errors.New("statistic: invalid period start")
	// ErrUnknownField is returned when a reduction names a field that does not exist.
	ErrUnknownField = errors.New("statistic: unknown field")
	// ErrUnknownReduction is returned for a reduction outside the supported set.
	ErrUnknownReduction = errors.New("statistic: unknown reduction")
	// ErrNilAggregator is returned when a summary is built without an aggregator.
	ErrNilAggregator = errors.New("statistic: nil aggregator")
	// ErrNilCloser is returned when a summary is built without a self export closer.
	ErrNilCloser = errors.New("statistic: nil self export closer")
)
