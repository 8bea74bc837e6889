package scan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vidsweep/internal/content/memstore"
	"vidsweep/internal/remediate"
	"vidsweep/internal/scan"
	"vidsweep/internal/settings"
)

func TestSettingsPersistence(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	got, err := scan.LoadSettings(ctx, store, settings.Defaults())
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got.BatchSize != settings.Defaults().BatchSize {
		t.Fatalf("expected defaults, got %+v", got)
	}

	want := settings.Defaults()
	want.BatchSize = 120
	want.BrokenStatusCodes = []int{404, 410}
	want.Frequency = settings.FrequencyWeekly
	if err := scan.SaveSettings(ctx, store, want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err = scan.LoadSettings(ctx, store, settings.Defaults())
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got.BatchSize != 120 || got.Frequency != settings.FrequencyWeekly || len(got.BrokenStatusCodes) != 2 {
		t.Fatalf("unexpected settings %+v", got)
	}

	bad := settings.Defaults()
	bad.BatchSize = 5
	if err := scan.SaveSettings(ctx, store, bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDamagedSettingsRowFallsBackToBase(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	if err := store.SaveOption(ctx, scan.OptionSettings, []byte("{not json")); err != nil {
		t.Fatalf("SaveOption: %v", err)
	}
	got, err := scan.LoadSettings(ctx, store, settings.Defaults())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if got.BatchSize != settings.Defaults().BatchSize {
		t.Fatalf("expected base settings, got %+v", got)
	}
}

func TestReportPersistence(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	if _, err := scan.LastReport(ctx, store); !errors.Is(err, scan.ErrNoReport) {
		t.Fatalf("expected ErrNoReport, got %v", err)
	}
	parent := int64(7)
	report := scan.Report{
		RunID:        "run-1",
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:     3 * time.Second,
		TotalScanned: 10,
		BrokenCount:  1,
		Outcomes: []remediate.Outcome{{
			AttachmentID: 42,
			URL:          "https://example.com/uploads/v.mp4",
			ParentID:     &parent,
			Actions:      []string{"cleaned post 7", "unlinked from post", "moved to trash"},
		}},
		Errors: []string{"Invalid URL: nope"},
	}
	if err := scan.SaveReport(ctx, store, report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	got, err := scan.LastReport(ctx, store)
	if err != nil {
		t.Fatalf("LastReport: %v", err)
	}
	if got.RunID != "run-1" || got.BrokenCount != 1 || *got.Outcomes[0].ParentID != 7 || !got.Timestamp.Equal(report.Timestamp) {
		t.Fatalf("unexpected report %+v", got)
	}
}
