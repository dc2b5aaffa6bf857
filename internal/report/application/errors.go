package application

import "errors"

var (
	ErrNilSource     = errors.New("report: nil source")
	ErrNilLedger     = errors.New("report: nil history ledger")
	ErrNilReconciler = errors.New("report: nil reconciler")
	ErrNilAggregator = errors.New("report: nil aggregator")
	ErrNilCloser     = errors.New("report: nil self export closer")
	ErrInvalidPeriod = errors.New("report: invalid period")
)
