package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"vidsweep/internal/config"
	"vidsweep/internal/content"
	"vidsweep/internal/logging"
	"vidsweep/internal/notifications"
	"vidsweep/internal/probe"
	"vidsweep/internal/remediate"
	"vidsweep/internal/scan"
	"vidsweep/internal/settings"
)

// ErrScanInProgress is returned when another process holds the run lock.
var ErrScanInProgress = errors.New("another scan is already running")

// ErrInvalidSettings wraps validation failures from UpdateSettings.
var ErrInvalidSettings = errors.New("invalid settings")

// Service runs scans and manages their persisted state.
type Service struct {
	cfg      *config.Config
	store    content.Store
	checker  remediate.Checker
	notifier notifications.Service
	logger   *slog.Logger
	lockPath string
}

// Option customises a Service.
type Option func(*Service)

// WithChecker replaces the HTTP reachability checker.
func WithChecker(checker remediate.Checker) Option {
	return func(s *Service) {
		if checker != nil {
			s.checker = checker
		}
	}
}

// WithNotifier replaces the notifier built from the configuration.
func WithNotifier(notifier notifications.Service) Option {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithLogger sets the logger scan progress is written to.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithoutRunLock disables the cross-process run lock.
func WithoutRunLock() Option {
	return func(s *Service) {
		s.lockPath = ""
	}
}

// NewService wires a Service around store.
func NewService(cfg *config.Config, store content.Store, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		store:    store,
		checker:  probe.NewChecker(cfg.Probe.UserAgent),
		notifier: notifications.NewService(cfg),
		logger:   logging.NewNop(),
		lockPath: cfg.LockPath(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the effective scan settings.
func (s *Service) Settings(ctx context.Context) (settings.ScanSettings, error) {
	return scan.LoadSettings(ctx, s.store, s.cfg.ScanDefaults())
}

// SaveSettings validates and persists next as the override layer.
func (s *Service) SaveSettings(ctx context.Context, next settings.ScanSettings) error {
	return scan.SaveSettings(ctx, s.store, next)
}

// UpdateSettings applies overrides on top of the effective settings,
// validates the result and persists it.
func (s *Service) UpdateSettings(ctx context.Context, overrides settings.Overrides) (settings.ScanSettings, error) {
	current, err := s.Settings(ctx)
	if err != nil {
		return settings.ScanSettings{}, err
	}
	next := apply(current, overrides)
	if err := next.Validate(); err != nil {
		return settings.ScanSettings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := s.SaveSettings(ctx, next); err != nil {
		return settings.ScanSettings{}, err
	}
	return next, nil
}

// apply copies set override fields without clamping so Validate sees the
// values the caller asked for.
func apply(base settings.ScanSettings, o settings.Overrides) settings.ScanSettings {
	out := base
	if o.BatchSize != nil {
		out.BatchSize = *o.BatchSize
	}
	if o.HTTPTimeoutSeconds != nil {
		out.HTTPTimeoutSeconds = *o.HTTPTimeoutSeconds
	}
	if o.BrokenStatusCodes != nil {
		out.BrokenStatusCodes = append([]int(nil), o.BrokenStatusCodes...)
	}
	if o.AutoScanEnabled != nil {
		out.AutoScanEnabled = *o.AutoScanEnabled
	}
	if o.Frequency != nil {
		out.Frequency = settings.Frequency(*o.Frequency)
		if f, err := settings.ParseFrequency(*o.Frequency); err == nil {
			out.Frequency = f
		}
	}
	if o.LoggingEnabled != nil {
		out.LoggingEnabled = *o.LoggingEnabled
	}
	return out
}

// Count describes the catalogue size in pages of the configured batch size.
type Count struct {
	Total     int `json:"total"`
	BatchSize int `json:"batch_size"`
	Pages     int `json:"pages"`
}

// CountVideos returns the video total and page count.
func (s *Service) CountVideos(ctx context.Context) (Count, error) {
	current, err := s.Settings(ctx)
	if err != nil {
		return Count{}, err
	}
	total, err := s.store.CountVideos(ctx)
	if err != nil {
		return Count{}, fmt.Errorf("count videos: %w", err)
	}
	size := current.BatchSize
	return Count{Total: total, BatchSize: size, Pages: (total + size - 1) / size}, nil
}

// LastReport returns the persisted last report.
func (s *Service) LastReport(ctx context.Context) (scan.Report, error) {
	return scan.LastReport(ctx, s.store)
}

// Restore reverses the quarantine of a media record.
func (s *Service) Restore(ctx context.Context, mediaID int64) error {
	if mediaID <= 0 {
		return fmt.Errorf("invalid media id %d", mediaID)
	}
	return s.store.Restore(ctx, mediaID)
}

// FullScan runs a full scan, persists its report and notifies.
func (s *Service) FullScan(ctx context.Context) (scan.Report, error) {
	var report scan.Report
	err := s.withRunLock(func() error {
		var err error
		report, err = s.runner(ctx).RunFullScan(ctx)
		if err != nil && ctx.Err() != nil {
			return err
		}
		if err != nil {
			s.notifyFailure(ctx, "enumeration", err)
			return err
		}
		return s.finish(ctx, "full", report)
	})
	return report, err
}

// Batch runs one page. size <= 0 uses the effective batch size.
func (s *Service) Batch(ctx context.Context, index, size int) (scan.BatchResult, error) {
	var result scan.BatchResult
	err := s.withRunLock(func() error {
		var err error
		result, err = s.runner(ctx).RunBatch(ctx, index, size)
		return err
	})
	return result, err
}

// AllBatches runs every page in sequence, calling fn after each, then
// persists the merged report and notifies.
func (s *Service) AllBatches(ctx context.Context, size int, fn func(scan.BatchResult) error) (scan.Report, error) {
	var report scan.Report
	err := s.withRunLock(func() error {
		var err error
		report, err = s.runner(ctx).RunAllBatches(ctx, size, fn)
		if err != nil && ctx.Err() != nil {
			return err
		}
		if err != nil {
			s.notifyFailure(ctx, "batches", err)
			return err
		}
		return s.finish(ctx, "batches", report)
	})
	return report, err
}

func (s *Service) runner(ctx context.Context) *scan.Runner {
	current, err := s.Settings(ctx)
	if err != nil {
		s.logger.Warn("persisted settings unreadable; using defaults", logging.Error(err))
	}
	sink := logging.NewSink(logging.NewComponentLogger(s.logger, "scan"), current.LoggingEnabled)
	return scan.NewRunner(s.store, s.checker, current, sink)
}

func (s *Service) finish(ctx context.Context, mode string, report scan.Report) error {
	if err := scan.SaveReport(ctx, s.store, report); err != nil {
		return err
	}
	err := s.notifier.Publish(ctx, notifications.EventScanCompleted, notifications.Payload{
		"mode":     mode,
		"scanned":  report.TotalScanned,
		"broken":   report.BrokenCount,
		"errors":   len(report.Errors),
		"duration": report.Duration,
	})
	if err != nil {
		s.logger.Warn("scan notification failed", logging.Error(err))
	}
	return nil
}

func (s *Service) notifyFailure(ctx context.Context, stage string, cause error) {
	err := s.notifier.Publish(ctx, notifications.EventScanFailed, notifications.Payload{
		"context": stage,
		"error":   cause.Error(),
	})
	if err != nil {
		s.logger.Warn("failure notification failed", logging.Error(err))
	}
}

func (s *Service) withRunLock(fn func() error) error {
	if s.lockPath == "" {
		return fn()
	}
	if err := s.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	lock := flock.New(s.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return ErrScanInProgress
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}
