package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vidsweep/internal/content"
	"vidsweep/internal/settings"
)

// Option row names.
const (
	OptionSettings   = "vidsweep_settings"
	OptionLastReport = "vidsweep_last_report"
)

// ErrNoReport is returned by LastReport before any report was saved.
var ErrNoReport = errors.New("no scan report saved yet")

// LoadSettings merges the persisted overrides onto base. Missing overrides
// yield base unchanged.
func LoadSettings(ctx context.Context, store content.OptionStore, base settings.ScanSettings) (settings.ScanSettings, error) {
	overrides, err := LoadOverrides(ctx, store)
	if err != nil {
		return base, err
	}
	return settings.Merge(base, overrides), nil
}

// LoadOverrides returns the persisted overrides, zero when none were saved.
func LoadOverrides(ctx context.Context, store content.OptionStore) (settings.Overrides, error) {
	raw, err := store.LoadOption(ctx, OptionSettings)
	if errors.Is(err, content.ErrNotFound) {
		return settings.Overrides{}, nil
	}
	if err != nil {
		return settings.Overrides{}, fmt.Errorf("load settings: %w", err)
	}
	var overrides settings.Overrides
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return settings.Overrides{}, fmt.Errorf("decode settings: %w", err)
	}
	return overrides, nil
}

// SaveSettings validates s and persists it as the override layer.
func SaveSettings(ctx context.Context, store content.OptionStore, s settings.ScanSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(settings.OverridesFrom(s))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := store.SaveOption(ctx, OptionSettings, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SaveReport overwrites the persisted last report.
func SaveReport(ctx context.Context, store content.OptionStore, report Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := store.SaveOption(ctx, OptionLastReport, raw); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// LastReport returns the persisted last report or ErrNoReport.
func LastReport(ctx context.Context, store content.OptionStore) (Report, error) {
	raw, err := store.LoadOption(ctx, OptionLastReport)
	if errors.Is(err, content.ErrNotFound) {
		return Report{}, ErrNoReport
	}
	if err != nil {
		return Report{}, fmt.Errorf("load report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}
