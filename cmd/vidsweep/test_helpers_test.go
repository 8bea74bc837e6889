package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidsweep/internal/config"
	"vidsweep/internal/content/sqlite"
	"vidsweep/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *sqlite.Store
	configPath string
	mediaHost  *httptest.Server
}

// setupCLITestEnv writes a config pointing at a seeded sqlite store. Paths on
// mediaHost ending in "gone.mp4" answer 404; everything else answers 200.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("VIDSWEEP_DATABASE_URL", "")
	t.Setenv("VIDSWEEP_NTFY_TOPIC", "")
	t.Setenv("VIDSWEEP_API_TOKEN", "")

	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "gone.mp4") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(host.Close)

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedDocument(t, store, 3, "<p>intro</p>\n<video src=\""+host.URL+"/gone.mp4\"></video>\n<p>outro</p>")
	testsupport.SeedVideo(t, store, 1, host.URL+"/gone.mp4", 3)
	testsupport.SeedVideo(t, store, 2, host.URL+"/fine.mp4", 0)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, store: store, configPath: configPath, mediaHost: host}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
