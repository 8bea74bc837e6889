package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"vidsweep/internal/config"
	"vidsweep/internal/settings"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDSWEEP_DATABASE_URL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "vidsweep")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Store.Driver != config.DriverSQLite {
		t.Fatalf("unexpected driver %q", cfg.Store.Driver)
	}
	if cfg.Store.SQLitePath != filepath.Join(wantData, "content.db") {
		t.Fatalf("unexpected sqlite path %q", cfg.Store.SQLitePath)
	}
	if cfg.API.Bind != "127.0.0.1:7490" {
		t.Fatalf("unexpected api bind: %q", cfg.API.Bind)
	}
	if cfg.LockPath() != filepath.Join(wantData, "vidsweep.lock") {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
	if got := cfg.ScanDefaults(); got.BatchSize != settings.Defaults().BatchSize {
		t.Fatalf("expected default scan settings, got %+v", got)
	}
}

func TestLoadReadsScanSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
data_dir = "` + filepath.ToSlash(dir) + `"

[scan]
batch_size = 25
error_codes = [404, 410]
scan_frequency = "daily"
log_enabled = false
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	scan := cfg.ScanDefaults()
	if scan.BatchSize != 25 {
		t.Fatalf("unexpected batch size %d", scan.BatchSize)
	}
	if !slices.Equal(scan.BrokenStatusCodes, []int{404, 410}) {
		t.Fatalf("unexpected codes %v", scan.BrokenStatusCodes)
	}
	if scan.Frequency != settings.FrequencyDaily || scan.LoggingEnabled {
		t.Fatalf("unexpected scan settings %+v", scan)
	}
	if scan.HTTPTimeoutSeconds != 15 {
		t.Fatalf("expected untouched timeout default, got %d", scan.HTTPTimeoutSeconds)
	}
	if cfg.Paths.LogDir != filepath.Join(dir, "logs") {
		t.Fatalf("expected log dir under data dir, got %q", cfg.Paths.LogDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"batch size", "[scan]\nbatch_size = 5\n", "scan.batch_size"},
		{"timeout", "[scan]\nhttp_timeout = 120\n", "scan.http_timeout"},
		{"frequency", "[scan]\nscan_frequency = \"monthly\"\n", "scan_frequency"},
		{"driver", "[store]\ndriver = \"mysql\"\n", "store.driver"},
		{"postgres without dsn", "[store]\ndriver = \"postgres\"\n", "store.dsn"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"ntfy topic", "[notifications]\nntfy_topic = \"my-topic\"\n", "notifications.ntfy_topic"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("VIDSWEEP_DATABASE_URL", "")
			t.Setenv("VIDSWEEP_NTFY_TOPIC", "")
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			body := "[paths]\ndata_dir = \"" + filepath.ToSlash(dir) + "\"\n" + tc.body
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIDSWEEP_DATABASE_URL", "postgres://localhost/cms")
	t.Setenv("VIDSWEEP_API_TOKEN", "secret")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.DSN != "postgres://localhost/cms" {
		t.Fatalf("expected DSN from env, got %q", cfg.Store.DSN)
	}
	if cfg.API.Token != "secret" {
		t.Fatalf("expected token from env, got %q", cfg.API.Token)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.ScanDefaults().BatchSize != 50 {
		t.Fatalf("unexpected sample batch size %d", cfg.ScanDefaults().BatchSize)
	}
}

func TestUserAgentFollowsVersion(t *testing.T) {
	previous := config.Version
	config.Version = "1.4.0"
	t.Cleanup(func() { config.Version = previous })

	const want = "vidsweep/1.4.0 (+link checker)"
	if got := config.Default().Probe.UserAgent; got != want {
		t.Fatalf("default user agent = %q, want %q", got, want)
	}

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Probe.UserAgent != want {
		t.Fatalf("loaded user agent = %q, want %q", cfg.Probe.UserAgent, want)
	}

	if err := os.WriteFile(path, []byte("[probe]\nuser_agent = \"custom/1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err = config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Probe.UserAgent != "custom/1" {
		t.Fatalf("configured user agent overridden: %q", cfg.Probe.UserAgent)
	}
}
