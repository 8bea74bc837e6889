package settings

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Frequency names how often scheduled scans run.
type Frequency string

const (
	FrequencyHourly     Frequency = "hourly"
	FrequencyTwiceDaily Frequency = "twicedaily"
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
)

const (
	MinBatchSize   = 10
	MaxBatchSize   = 200
	MinHTTPTimeout = 5
	MaxHTTPTimeout = 60

	defaultBatchSize   = 50
	defaultHTTPTimeout = 15
)

var defaultBrokenStatusCodes = []int{404, 403, 500, 502, 503, 504}

// ScanSettings is the resolved policy for a single scan run.
type ScanSettings struct {
	BatchSize          int       `json:"batch_size"`
	HTTPTimeoutSeconds int       `json:"http_timeout"`
	BrokenStatusCodes  []int     `json:"error_codes"`
	AutoScanEnabled    bool      `json:"auto_scan_enabled"`
	Frequency          Frequency `json:"scan_frequency"`
	LoggingEnabled     bool      `json:"log_enabled"`
}

// Defaults returns the built-in scan policy.
func Defaults() ScanSettings {
	return ScanSettings{
		BatchSize:          defaultBatchSize,
		HTTPTimeoutSeconds: defaultHTTPTimeout,
		BrokenStatusCodes:  slices.Clone(defaultBrokenStatusCodes),
		AutoScanEnabled:    true,
		Frequency:          FrequencyWeekly,
		LoggingEnabled:     true,
	}
}

// HTTPTimeout returns the per-probe timeout as a duration.
func (s ScanSettings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// IsBroken reports whether status belongs to the broken status code set.
func (s ScanSettings) IsBroken(status int) bool {
	return slices.Contains(s.BrokenStatusCodes, status)
}

// Validate rejects settings outside the accepted ranges.
func (s ScanSettings) Validate() error {
	if s.BatchSize < MinBatchSize || s.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size must be between %d and %d", MinBatchSize, MaxBatchSize)
	}
	if s.HTTPTimeoutSeconds < MinHTTPTimeout || s.HTTPTimeoutSeconds > MaxHTTPTimeout {
		return fmt.Errorf("http_timeout must be between %d and %d seconds", MinHTTPTimeout, MaxHTTPTimeout)
	}
	if len(s.BrokenStatusCodes) == 0 {
		return errors.New("error_codes must include at least one status code")
	}
	for _, code := range s.BrokenStatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("error_codes: %d is not an HTTP status code", code)
		}
	}
	if _, err := ParseFrequency(string(s.Frequency)); err != nil {
		return err
	}
	return nil
}

// ParseFrequency normalizes a frequency name.
func ParseFrequency(value string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(value))); f {
	case FrequencyHourly, FrequencyTwiceDaily, FrequencyDaily, FrequencyWeekly:
		return f, nil
	default:
		return "", fmt.Errorf("scan_frequency: unsupported value %q", value)
	}
}

// Interval returns the wall-clock spacing between scheduled scans.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	case FrequencyTwiceDaily:
		return 12 * time.Hour
	case FrequencyDaily:
		return 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}
