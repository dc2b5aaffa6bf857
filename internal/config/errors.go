package config

import "errors"

var (
	ErrInvalidTimezone = errors.New("config: invalid timezone")
	ErrInvalidCutover  = errors.New("config: invalid export cutover, want YYYY-MM-DD")
	ErrInvalidFillGap  = errors.New("config: invalid max fill gap")
	ErrUnknownBackend  = errors.New("config: unknown history backend")
	ErrMissingDataDir  = errors.New("config: data dir required")
	ErrMissingDSN      = errors.New("config: postgres history requires a dsn")
	ErrMissingRedis    = errors.New("config: redis history requires an address")
)
