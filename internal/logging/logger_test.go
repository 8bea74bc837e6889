package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrettyHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false)).With(String(FieldComponent, "scan"))

	logger.Info("processed broken video", Int64(FieldAttachmentID, 42), String("actions", "moved to trash"))

	line := buf.String()
	if !strings.HasPrefix(line, "[") || !strings.Contains(line, "] [INFO] scan: processed broken video") {
		t.Fatalf("unexpected header: %q", line)
	}
	if !strings.Contains(line, "attachment_id=42") {
		t.Fatalf("expected attachment attr, got %q", line)
	}
	if !strings.Contains(line, `actions="moved to trash"`) {
		t.Fatalf("expected quoted value, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only: %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "[WARN] shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vidsweep.log")
	logger, err := New(Options{Format: "json", Level: "info", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("scan completed", Int("total", 3))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"scan completed"`) || !strings.Contains(out, `"level":"info"`) || !strings.Contains(out, `"ts":`) {
		t.Fatalf("unexpected json output %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSafeWriterSwallowsErrors(t *testing.T) {
	w := &safeWriter{w: failingWriter{}, name: "test"}
	n, err := w.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("expected swallowed error, got n=%d err=%v", n, err)
	}
	if !w.reported {
		t.Fatal("expected failure to be reported once")
	}
}

func TestSinkDropsInfoWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))

	sink := NewSink(logger, false)
	sink.Info("progress")
	sink.Error("Invalid URL: nope")
	sink.Warn("scan interrupted")
	if strings.Contains(buf.String(), "progress") {
		t.Fatalf("info should be dropped: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Invalid URL: nope") {
		t.Fatalf("errors should always be logged: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "scan interrupted") {
		t.Fatalf("warnings should always be logged: %q", buf.String())
	}

	buf.Reset()
	NewSink(logger, true).With(String(FieldRunID, "abc")).Info("progress")
	if !strings.Contains(buf.String(), "progress run_id=abc") {
		t.Fatalf("expected info with attrs, got %q", buf.String())
	}

	var nilSink *Sink
	nilSink.Info("ignored")
	nilSink.Error("ignored")
	nilSink.Warn("ignored")
}
