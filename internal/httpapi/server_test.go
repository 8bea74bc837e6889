package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"vidsweep/internal/api"
	"vidsweep/internal/config"
	"vidsweep/internal/httpapi"
	"vidsweep/internal/probe"
	"vidsweep/internal/scan"
	"vidsweep/internal/settings"
	"vidsweep/internal/testsupport"
)

type fakeChecker struct{}

func (fakeChecker) Check(_ context.Context, url string, s settings.ScanSettings) probe.Result {
	if strings.Contains(url, "gone") {
		return probe.Result{Broken: s.IsBroken(404), Status: 404, Method: "HEAD"}
	}
	return probe.Result{Status: 200, Method: "HEAD"}
}

func newServer(t *testing.T, opts ...testsupport.ConfigOption) (*httptest.Server, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedDocument(t, store, 3, "<p>intro</p>\n[video src=\"https://cdn.example/gone.mp4\"]\n<p>outro</p>")
	testsupport.SeedVideo(t, store, 1, "https://cdn.example/gone.mp4", 3)
	testsupport.SeedVideo(t, store, 2, "https://cdn.example/fine.mp4", 0)

	svc := api.NewService(cfg, store, api.WithChecker(fakeChecker{}))
	srv := httpapi.New(cfg.API.Bind, cfg.API.Token, svc, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, cfg
}

func do(t *testing.T, method, url, body, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestScanAndReportRoutes(t *testing.T) {
	ts, _ := newServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/report", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("report before scan: status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/scan", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan: status %d", resp.StatusCode)
	}
	report := decode[scan.Report](t, resp)
	if report.TotalScanned != 2 || report.BrokenCount != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Outcomes) != 1 || report.Outcomes[0].AttachmentID != 1 {
		t.Fatalf("unexpected outcomes %+v", report.Outcomes)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/report", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report: status %d", resp.StatusCode)
	}
	if saved := decode[scan.Report](t, resp); saved.RunID != report.RunID {
		t.Fatalf("report run %q, want %q", saved.RunID, report.RunID)
	}
}

func TestBatchRoute(t *testing.T) {
	ts, _ := newServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "first page", path: "/api/batches/0?size=10", status: http.StatusOK},
		{name: "past end", path: "/api/batches/5", status: http.StatusOK},
		{name: "bad index", path: "/api/batches/x", status: http.StatusBadRequest},
		{name: "size too small", path: "/api/batches/0?size=2", status: http.StatusBadRequest},
		{name: "page past max int", path: fmt.Sprintf("/api/batches/%d?size=10", math.MaxInt/10+1), status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+tt.path, "", "")
			if resp.StatusCode != tt.status {
				t.Fatalf("status %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}

	resp := do(t, http.MethodPost, ts.URL+"/api/batches/0?size=10", "", "")
	result := decode[scan.BatchResult](t, resp)
	if result.Processed != 2 || !result.Last() {
		t.Fatalf("unexpected batch %+v", result)
	}
}

func TestScanOutlivesClientDisconnect(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedVideo(t, store, 1, "https://cdn.example/gone.mp4", 0)
	testsupport.SeedVideo(t, store, 2, "https://cdn.example/fine.mp4", 0)
	srv := httpapi.New(cfg.API.Bind, "", api.NewService(cfg, store, api.WithChecker(fakeChecker{})), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/scan", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var report scan.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.TotalScanned != 2 || report.BrokenCount != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestSettingsRoutes(t *testing.T) {
	ts, _ := newServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/settings", "", "")
	current := decode[settings.ScanSettings](t, resp)
	if current.BatchSize != settings.Defaults().BatchSize {
		t.Fatalf("unexpected settings %+v", current)
	}

	resp = do(t, http.MethodPut, ts.URL+"/api/settings", `{"batch_size": 500}`, "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("out of range: status %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPut, ts.URL+"/api/settings", `{"bogus": 1}`, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, ts.URL+"/api/settings", `{"batch_size": 20, "scan_frequency": "daily"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	updated := decode[settings.ScanSettings](t, resp)
	if updated.BatchSize != 20 || updated.Frequency != settings.FrequencyDaily {
		t.Fatalf("unexpected update %+v", updated)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/videos/count", "", "")
	count := decode[api.Count](t, resp)
	if count.Total != 2 || count.BatchSize != 20 || count.Pages != 1 {
		t.Fatalf("unexpected count %+v", count)
	}
}

func TestAuthRequiredWhenTokenConfigured(t *testing.T) {
	ts, _ := newServer(t, testsupport.WithAPIToken("secret"))

	if resp := do(t, http.MethodGet, ts.URL+"/api/settings", "", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/settings", "", "wrong"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: status %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/settings", "", "secret"); resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token: status %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/healthz", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz must stay open: status %d", resp.StatusCode)
	}
}

func TestScanConflictWhileLocked(t *testing.T) {
	ts, cfg := newServer(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	held := flock.New(cfg.LockPath())
	if locked, err := held.TryLock(); err != nil || !locked {
		t.Fatalf("TryLock: %v locked=%v", err, locked)
	}
	defer held.Unlock()

	if resp := do(t, http.MethodPost, ts.URL+"/api/scan", "", ""); resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want 409", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newServer(t)
	do(t, http.MethodGet, ts.URL+"/healthz", "", "")

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(body), "vidsweep_http_requests_total") {
		t.Fatal("expected vidsweep_http_requests_total in metrics output")
	}
}

func TestServerStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	srv := httpapi.New("127.0.0.1:0", "", api.NewService(cfg, store), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp := do(t, http.MethodGet, "http://"+srv.Addr()+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: status %d", resp.StatusCode)
	}
	srv.Stop()
}
