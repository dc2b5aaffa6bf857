package redisstore

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
)

const (
	defaultKey          = "solax:history"
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// NewClient returns a go-redis client and validates the connection with PING.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("history redis: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Ledger keeps every month as a field of one redis hash.
type Ledger struct {
	client *redis.Client
	key    string
	loc    *time.Location
}

// Option configures the ledger.
type Option func(*Ledger)

// WithKey overrides the hash key.
func WithKey(key string) Option {
	return func(l *Ledger) {
		if key != "" {
			l.key = key
		}
	}
}

// WithLocation sets the zone month keys are read in.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// NewLedger constructs a ledger.
func NewLedger(client *redis.Client, opts ...Option) (*Ledger, error) {
	if client == nil {
		return nil, errors.New("history redis: nil client")
	}
	l := &Ledger{client: client, key: defaultKey, loc: time.UTC}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// EntriesBefore returns the months strictly before period, ascending.
func (l *Ledger) EntriesBefore(ctx context.Context, period time.Time) ([]history.Entry, error) {
	if period.IsZero() {
		return nil, history.ErrInvalidPeriod
	}
	cutoff := history.PeriodKey(period)

	fields, err := l.client.HGetAll(ctx, l.key).Result()
	if err != nil {
		return nil, err
	}

	result := make([]history.Entry, 0, len(fields))
	for field, payload := range fields {
		if field >= cutoff {
			continue
		}
		entry, err := history.DecodeEntry([]byte(payload), l.loc)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	slices.SortFunc(result, func(a, b history.Entry) int { return a.Period.Compare(b.Period) })
	return result, nil
}

// Append sets the month field only when it is absent.
func (l *Ledger) Append(ctx context.Context, entry history.Entry) error {
	if entry.Period.IsZero() {
		return history.ErrInvalidPeriod
	}
	payload, err := history.EncodeEntry(entry)
	if err != nil {
		return err
	}

	created, err := l.client.HSetNX(ctx, l.key, entry.Key(), payload).Result()
	if err != nil {
		return err
	}
	if !created {
		return history.ErrEntryExists
	}
	return nil
}

// Clear removes every stored month.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.client.Del(ctx, l.key).Err()
}
