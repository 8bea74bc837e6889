package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidsweep/internal/config"
)

const userAgent = "vidsweep-notify/1"

// Event names a notification kind.
type Event string

const (
	EventScanCompleted Event = "scan_completed"
	EventScanFailed    Event = "scan_failed"
	EventTest          Event = "test"
)

// Payload carries event fields. Recognised keys: mode, scanned, broken,
// errors, duration (time.Duration), context, error.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		onBrokenOnly: cfg.Notifications.OnBrokenOnly,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	onBrokenOnly bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := n.format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventScanCompleted:
		broken := payload.count("broken")
		if broken == 0 && n.onBrokenOnly {
			return message{}, false
		}
		mode := payload.text("mode")
		if mode == "" {
			mode = "full"
		}
		body := fmt.Sprintf("Total videos: %d; 404 errors found: %d", payload.count("scanned"), broken)
		if errs := payload.count("errors"); errs > 0 {
			body = fmt.Sprintf("%s; errors: %d", body, errs)
		}
		if d, ok := payload["duration"].(time.Duration); ok && d > 0 {
			body = fmt.Sprintf("%s (%s)", body, d.Round(time.Second))
		}
		msg := message{
			title: "vidsweep - Scan Complete",
			body:  body,
			tags:  []string{"vidsweep", "scan", mode},
		}
		if broken > 0 {
			msg.title = "vidsweep - Broken Videos Removed"
			msg.priority = "high"
		}
		return msg, true
	case EventScanFailed:
		var b strings.Builder
		b.WriteString("Scan failed")
		if label := payload.text("context"); label != "" {
			b.WriteString(" during ")
			b.WriteString(label)
		}
		b.WriteString(": ")
		if text := payload.text("error"); text != "" {
			b.WriteString(text)
		} else {
			b.WriteString("unknown")
		}
		return message{
			title:    "vidsweep - Error",
			body:     b.String(),
			tags:     []string{"vidsweep", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "vidsweep - Test",
			body:     "Notification system test",
			tags:     []string{"vidsweep", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (p Payload) text(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case error:
		return strings.TrimSpace(v.Error())
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (p Payload) count(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
