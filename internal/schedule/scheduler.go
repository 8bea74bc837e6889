package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"vidsweep/internal/api"
	"vidsweep/internal/logging"
	"vidsweep/internal/scan"
	"vidsweep/internal/settings"
)

// DefaultPollInterval is how often the scheduler checks whether a scan is due.
const DefaultPollInterval = time.Minute

// Scanner is the subset of api.Service the scheduler drives.
type Scanner interface {
	Settings(ctx context.Context) (settings.ScanSettings, error)
	LastReport(ctx context.Context) (scan.Report, error)
	FullScan(ctx context.Context) (scan.Report, error)
}

// Scheduler triggers FullScan whenever the configured interval has elapsed.
type Scheduler struct {
	scanner      Scanner
	logger       *slog.Logger
	pollInterval time.Duration
	now          func() time.Time

	mu      sync.Mutex
	lastRun time.Time
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Scheduler.
func New(scanner Scanner, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scheduler{
		scanner:      scanner,
		logger:       logging.NewComponentLogger(logger, "schedule"),
		pollInterval: DefaultPollInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the polling loop. It is a no-op if already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.wg.Add(1)
	go s.loop(loopCtx)
}

// Stop cancels the loop and waits for an in-flight scan to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	s.Tick(ctx)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs a full scan if one is due. It reports whether a scan ran.
func (s *Scheduler) Tick(ctx context.Context) bool {
	current, err := s.scanner.Settings(ctx)
	if err != nil {
		s.logger.Warn("scheduled scan: settings unreadable; using defaults", logging.Error(err))
	}
	if !current.AutoScanEnabled {
		return false
	}

	now := s.now()
	if last := s.lastRunTime(ctx); !last.IsZero() && now.Sub(last) < current.Frequency.Interval() {
		return false
	}

	s.logger.Info("scheduled scan starting", logging.String("frequency", string(current.Frequency)))
	report, err := s.scanner.FullScan(ctx)
	switch {
	case errors.Is(err, api.ErrScanInProgress):
		s.logger.Info("scheduled scan skipped; another scan is running")
		return false
	case err != nil:
		s.logger.Error("scheduled scan failed", logging.Error(err))
		s.setLastRun(now)
		return true
	}
	s.setLastRun(report.Timestamp)
	s.logger.Info("scheduled scan completed",
		logging.Int("total_scanned", report.TotalScanned),
		logging.Int("broken", report.BrokenCount),
	)
	return true
}

// lastRunTime prefers the persisted report so manual scans also push the
// next scheduled run back.
func (s *Scheduler) lastRunTime(ctx context.Context) time.Time {
	s.mu.Lock()
	last := s.lastRun
	s.mu.Unlock()

	report, err := s.scanner.LastReport(ctx)
	if err == nil && report.Timestamp.After(last) {
		return report.Timestamp
	}
	if err != nil && !errors.Is(err, scan.ErrNoReport) {
		s.logger.Warn("scheduled scan: last report unreadable", logging.Error(err))
	}
	return last
}

func (s *Scheduler) setLastRun(t time.Time) {
	s.mu.Lock()
	s.lastRun = t
	s.mu.Unlock()
}
