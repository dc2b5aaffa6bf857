package reconciliation

import "errors"

var (
	// ErrNilPolicy is returned when a reconciler is built without a tariff policy.
	ErrNilPolicy = errors.New("reconciliation: nil tariff policy")
	// ErrInvalidCurrency is returned for an unsupported run currency.
	ErrInvalidCurrency = errors.New("reconciliation: invalid currency")
	// ErrNegativeFillGap is returned when the floor lookup limit is negative.
	ErrNegativeFillGap = errors.New("reconciliation: negative max fill gap")
)
