package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
	"github.com/Firestone82/SolaxStatistics/internal/config"
	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
	"github.com/Firestone82/SolaxStatistics/internal/history/infrastructure/filestore"
	"github.com/Firestone82/SolaxStatistics/internal/history/infrastructure/memory"
	"github.com/Firestone82/SolaxStatistics/internal/history/infrastructure/postgres"
	"github.com/Firestone82/SolaxStatistics/internal/history/infrastructure/redisstore"
	"github.com/Firestone82/SolaxStatistics/internal/logging"
	"github.com/Firestone82/SolaxStatistics/internal/observability/metrics"
	reconciliation "github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain"
	"github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain/meter"
	"github.com/Firestone82/SolaxStatistics/internal/report/application"
	"github.com/Firestone82/SolaxStatistics/internal/report/interfaces"
	"github.com/Firestone82/SolaxStatistics/internal/settlement/pricing"
	"github.com/Firestone82/SolaxStatistics/internal/sources/csvcache"
	"github.com/Firestone82/SolaxStatistics/internal/sources/solax"
)

func main() {
	month := flag.String("month", "", "reporting month YYYY-MM, defaults to the previous month")
	configPath := flag.String("config", "", "yaml config path, defaults to SOLAX_CONFIG")
	flag.Parse()

	logger, err := logging.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *month); err != nil {
		logger.Error("report run failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, configPath, month string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	loc := cfg.Location()

	period, err := parseMonth(month, loc, time.Now())
	if err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		metrics.Init()
		defer func() {
			if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				logger.Warn("write metrics textfile failed", zap.Error(err))
			}
		}()
	}

	ledger, closer, err := openLedger(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer func() { _ = closer.Close() }()

	tariff, err := cfg.PricingTariff()
	if err != nil {
		return err
	}
	policy, err := pricing.NewPolicy(tariff)
	if err != nil {
		return err
	}
	reconciler, err := reconciliation.NewReconciler(policy,
		reconciliation.WithLogger(logger.Named("reconciler")),
		reconciliation.WithCurrency(cfg.Currency()),
		reconciliation.WithExportCutover(cfg.ExportCutover()),
		reconciliation.WithMaxFillGap(cfg.MaxFillGap()),
		reconciliation.WithLocation(loc),
	)
	if err != nil {
		return err
	}
	aggregator, err := statistic.NewAggregator(statistic.WithAggregatorLogger(logger.Named("aggregator")))
	if err != nil {
		return err
	}

	cache, err := csvcache.NewStore(cfg.DataDir,
		csvcache.WithLocation(loc),
		csvcache.WithLogger(logger.Named("csvcache")),
		csvcache.WithExportCutover(cfg.ExportCutover()),
	)
	if err != nil {
		return err
	}
	inverter, err := solax.NewReader(cfg.DataDir, logger.Named("solax"))
	if err != nil {
		return err
	}

	exporter, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}

	opts := []application.Option{
		application.WithLogger(logger),
		application.WithCurrency(cfg.Currency()),
		application.WithDecoder(meter.NewDecoder(
			meter.WithLogger(logger.Named("decoder")),
			meter.WithLocation(loc),
		)),
		application.WithExporter(exporter),
	}
	if notifier != nil {
		opts = append(opts, application.WithNotifier(notifier))
	}
	if cfg.History.ReadOnly {
		opts = append(opts, application.WithReadOnlyHistory())
	}

	service, err := application.NewReportService(
		application.Sources{Grid: cache, Prices: cache, Inverter: inverter},
		ledger, reconciler, aggregator, policy, opts...)
	if err != nil {
		return err
	}

	_, err = service.Run(ctx, period)
	return err
}

func parseMonth(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		current := statistic.MonthStart(now.In(loc))
		return current.AddDate(0, -1, 0), nil
	}
	period, err := history.ParsePeriodKey(value, loc)
	if err != nil {
		return time.Time{}, errors.New("month must be YYYY-MM")
	}
	return period, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openLedger(ctx context.Context, cfg config.Config, logger *zap.Logger) (history.Ledger, io.Closer, error) {
	loc := cfg.Location()
	switch cfg.History.Backend {
	case config.BackendMemory:
		return memory.NewLedger(), nopCloser{}, nil
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.History.DSN)
		if err != nil {
			return nil, nil, err
		}
		ledger, err := postgres.NewLedger(db, postgres.WithTable(cfg.History.Table), postgres.WithLocation(loc))
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := ledger.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return ledger, db, nil
	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.History.RedisAddr, cfg.History.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		ledger, err := redisstore.NewLedger(client, redisstore.WithKey(cfg.History.RedisKey), redisstore.WithLocation(loc))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return ledger, client, nil
	default:
		ledger, err := filestore.NewLedger(cfg.HistoryDir(),
			filestore.WithLocation(loc),
			filestore.WithLogger(logger.Named("history")))
		if err != nil {
			return nil, nil, err
		}
		return ledger, nopCloser{}, nil
	}
}

func newExporter(cfg config.Config, logger *zap.Logger) (*interfaces.FileExporter, error) {
	formats := make([]interfaces.Format, 0, len(cfg.Export.Formats))
	for _, name := range cfg.Export.Formats {
		f, err := interfaces.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return interfaces.NewFileExporter(cfg.ExportDir(), logger.Named("export"), formats...)
}

func newNotifier(cfg config.Config, logger *zap.Logger) (application.Notifier, error) {
	var tpl *interfaces.MessageTemplate
	if cfg.Notify.TemplateFile != "" {
		raw, err := os.ReadFile(cfg.Notify.TemplateFile)
		if err != nil {
			return nil, err
		}
		if tpl, err = interfaces.NewMessageTemplate(string(raw)); err != nil {
			return nil, err
		}
	}

	var notifiers []application.Notifier
	if cfg.Notify.WebhookURL != "" {
		channel, err := interfaces.NewWebhookChannel(cfg.Notify.WebhookURL)
		if err != nil {
			return nil, err
		}
		n, err := interfaces.NewReportNotifier(channel, tpl)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	if cfg.Notify.Log {
		n, err := interfaces.NewReportNotifier(interfaces.NewLogChannel(logger.Named("notify")), tpl)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	if len(notifiers) == 0 {
		return nil, nil
	}
	return interfaces.NewMultiNotifier(notifiers...), nil
}
