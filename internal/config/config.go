package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Firestone82/SolaxStatistics/internal/settlement/pricing"
)

// History backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Amounts holds one configured value per currency.
type Amounts struct {
	CZK float64 `yaml:"czk"`
	EUR float64 `yaml:"eur"`
}

// For returns the value of currency c.
func (a Amounts) For(c pricing.Currency) float64 {
	if c == pricing.EUR {
		return a.EUR
	}
	return a.CZK
}

// SelfImport defines the behind-meter import rates.
type SelfImport struct {
	Day          float64 `yaml:"day"`
	Night        float64 `yaml:"night"`
	OverflowRate float64 `yaml:"overflow_rate"`
}

// Night defines the night billing window.
type Night struct {
	MorningEndHour   int `yaml:"morning_end_hour"`
	EveningStartHour int `yaml:"evening_start_hour"`
	EveningEndHour   int `yaml:"evening_end_hour"`
}

// Tariff defines pricing inputs. Price overrides of 0 use the market price.
type Tariff struct {
	Currency       string     `yaml:"currency"`
	ImportPrice    Amounts    `yaml:"import_price"`
	ExportPrice    Amounts    `yaml:"export_price"`
	ExportFee      Amounts    `yaml:"export_fee"`
	SelfImport     SelfImport `yaml:"self_import"`
	SelfExportRate float64    `yaml:"self_export_rate"`
	Night          Night      `yaml:"night"`
	ExportCutover  string     `yaml:"export_cutover"`
}

// History selects the ledger backend.
type History struct {
	Backend       string `yaml:"backend"`
	Dir           string `yaml:"dir"`
	DSN           string `yaml:"dsn"`
	Table         string `yaml:"table"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisKey      string `yaml:"redis_key"`
	ReadOnly      bool   `yaml:"read_only"`
}

// Notify configures report delivery.
type Notify struct {
	WebhookURL   string `yaml:"webhook_url"`
	TemplateFile string `yaml:"template_file"`
	Log          bool   `yaml:"log"`
}

// Export configures report files.
type Export struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// Metrics configures the textfile written after each run.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Reconcile tunes the reconciler.
type Reconcile struct {
	MaxFillGap string `yaml:"max_fill_gap"`
}

// Config is the runtime configuration of a report run.
type Config struct {
	Timezone  string    `yaml:"timezone"`
	DataDir   string    `yaml:"data_dir"`
	Tariff    Tariff    `yaml:"tariff"`
	History   History   `yaml:"history"`
	Notify    Notify    `yaml:"notify"`
	Export    Export    `yaml:"export"`
	Metrics   Metrics   `yaml:"metrics"`
	Reconcile Reconcile `yaml:"reconcile"`

	loc        *time.Location
	currency   pricing.Currency
	cutover    time.Time
	maxFillGap time.Duration
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Timezone: "Europe/Prague",
		DataDir:  filepath.FromSlash("data"),
		Tariff: Tariff{
			Currency:       string(pricing.CZK),
			SelfImport:     SelfImport{Day: 2.1, Night: 1.1},
			SelfExportRate: 3,
			Night: Night{
				MorningEndHour:   pricing.DefaultNightWindow.MorningEndHour,
				EveningStartHour: pricing.DefaultNightWindow.EveningStartHour,
				EveningEndHour:   pricing.DefaultNightWindow.EveningEndHour,
			},
			ExportCutover: "2025-01-01",
		},
		History: History{Backend: BackendFile},
		Export:  Export{Formats: []string{"xlsx"}},
	}
}

// Load reads .env when present, then the yaml file at path (or SOLAX_CONFIG),
// then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("SOLAX_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Timezone = getenvDefault("SOLAX_TIMEZONE", c.Timezone)
	c.DataDir = getenvDefault("SOLAX_DATA_DIR", c.DataDir)
	c.Tariff.Currency = getenvDefault("SOLAX_CURRENCY", c.Tariff.Currency)
	c.Tariff.ExportCutover = getenvDefault("SOLAX_EXPORT_CUTOVER", c.Tariff.ExportCutover)
	c.Tariff.SelfImport.Day = getenvFloatDefault("SOLAX_SELF_IMPORT_DAY", c.Tariff.SelfImport.Day)
	c.Tariff.SelfImport.Night = getenvFloatDefault("SOLAX_SELF_IMPORT_NIGHT", c.Tariff.SelfImport.Night)
	c.Tariff.SelfExportRate = getenvFloatDefault("SOLAX_SELF_EXPORT_RATE", c.Tariff.SelfExportRate)
	c.History.Backend = getenvDefault("SOLAX_HISTORY_BACKEND", c.History.Backend)
	c.History.DSN = getenvDefault("HISTORY_PG_DSN", c.History.DSN)
	c.History.RedisAddr = getenvDefault("HISTORY_REDIS_ADDR", c.History.RedisAddr)
	c.History.RedisPassword = getenvDefault("HISTORY_REDIS_PASSWORD", c.History.RedisPassword)
	c.Notify.WebhookURL = getenvDefault("SOLAX_WEBHOOK_URL", c.Notify.WebhookURL)
	c.Metrics.Textfile = getenvDefault("SOLAX_METRICS_TEXTFILE", c.Metrics.Textfile)
	c.Reconcile.MaxFillGap = getenvDefault("SOLAX_MAX_FILL_GAP", c.Reconcile.MaxFillGap)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return ErrMissingDataDir
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Timezone)
	}
	c.loc = loc

	currency, err := pricing.ParseCurrency(c.Tariff.Currency)
	if err != nil {
		return err
	}
	c.currency = currency

	c.cutover = time.Time{}
	if c.Tariff.ExportCutover != "" {
		cutover, err := time.ParseInLocation("2006-01-02", c.Tariff.ExportCutover, loc)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCutover, c.Tariff.ExportCutover)
		}
		c.cutover = cutover
	}

	c.maxFillGap = 0
	if c.Reconcile.MaxFillGap != "" {
		gap, err := time.ParseDuration(c.Reconcile.MaxFillGap)
		if err != nil || gap < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidFillGap, c.Reconcile.MaxFillGap)
		}
		c.maxFillGap = gap
	}

	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))
	switch c.History.Backend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if c.History.DSN == "" {
			return ErrMissingDSN
		}
	case BackendRedis:
		if c.History.RedisAddr == "" {
			return ErrMissingRedis
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.History.Backend)
	}

	_, err = c.PricingTariff()
	return err
}

// Location is the zone all timestamps are read and bucketed in.
func (c Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Currency is the currency runs are priced in.
func (c Config) Currency() pricing.Currency {
	if c.currency == "" {
		return pricing.CZK
	}
	return c.currency
}

// ExportCutover is the first instant grid export was possible. Zero disables
// the pre-cutover rule.
func (c Config) ExportCutover() time.Time { return c.cutover }

// MaxFillGap bounds floor-filled gross readings. Zero is unbounded.
func (c Config) MaxFillGap() time.Duration { return c.maxFillGap }

// HistoryDir is the file ledger directory.
func (c Config) HistoryDir() string {
	if c.History.Dir != "" {
		return c.History.Dir
	}
	return filepath.Join(c.DataDir, "summary")
}

// ExportDir is where report files are written.
func (c Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return filepath.Join(c.DataDir, "reports")
}

// PricingTariff builds the validated tariff in the configured currency.
func (c Config) PricingTariff() (pricing.Tariff, error) {
	currency := c.Currency()
	tariff := pricing.Tariff{
		ImportOverride:  c.Tariff.ImportPrice.For(currency),
		ExportOverride:  c.Tariff.ExportPrice.For(currency),
		ExportFee:       c.Tariff.ExportFee.For(currency),
		SelfImportDay:   c.Tariff.SelfImport.Day,
		SelfImportNight: c.Tariff.SelfImport.Night,
		SelfExportRate:  c.Tariff.SelfExportRate,
		OverflowRate:    c.Tariff.SelfImport.OverflowRate,
		Night: pricing.NightWindow{
			MorningEndHour:   c.Tariff.Night.MorningEndHour,
			EveningStartHour: c.Tariff.Night.EveningStartHour,
			EveningEndHour:   c.Tariff.Night.EveningEndHour,
		},
	}
	if _, err := pricing.NewPolicy(tariff); err != nil {
		return pricing.Tariff{}, err
	}
	return tariff, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
