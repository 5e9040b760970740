package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"mockline/internal/config"
	"mockline/internal/domain"
	"mockline/internal/engine"
	"mockline/internal/metrics"
	"mockline/internal/repo"
)

const (
	webhookPollInterval   = 2 * time.Second
	defaultWebhookTimeout = 5 * time.Second
	webhookBatchSize      = 100

	// SignatureHeader carries "sha256=<hex hmac of the body>" when the hook
	// has a secret.
	SignatureHeader = "X-Mockline-Signature"
)

// hookTarget is one configured webhook with its delivery position in the
// event log.
type hookTarget struct {
	cfg    config.WebhookConfig
	client *http.Client
	filter eventFilter
	cursor int64
	primed bool
}

type webhookDispatcher struct {
	repo    repo.Repo
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
	targets []*hookTarget
}

// StartWebhookDispatcher polls the event log and posts new management events
// to the configured webhooks until ctx is done. Each hook starts from the
// events recorded after its first poll.
func StartWebhookDispatcher(ctx context.Context, e engine.Engine, log *zap.SugaredLogger) {
	d := newWebhookDispatcher(e, log)
	if d == nil {
		return
	}
	go d.run(ctx)
}

// newWebhookDispatcher returns nil when no enabled webhook is configured.
func newWebhookDispatcher(e engine.Engine, log *zap.SugaredLogger) *webhookDispatcher {
	if e.Config == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	d := &webhookDispatcher{repo: e.Repo, metrics: e.Metrics, log: log}
	for _, hook := range e.Config.Webhooks {
		if !hook.IsEnabled() || strings.TrimSpace(hook.URL) == "" {
			continue
		}
		timeout := defaultWebhookTimeout
		if hook.TimeoutSeconds > 0 {
			timeout = time.Duration(hook.TimeoutSeconds) * time.Second
		}
		d.targets = append(d.targets, &hookTarget{
			cfg:    hook,
			client: &http.Client{Timeout: timeout},
			filter: newEventFilter(hook.Events),
		})
	}
	if len(d.targets) == 0 {
		return nil
	}
	return d
}

func (d *webhookDispatcher) run(ctx context.Context) {
	ticker := time.NewTicker(webhookPollInterval)
	defer ticker.Stop()
	for {
		d.dispatchAll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *webhookDispatcher) dispatchAll(ctx context.Context) {
	for _, t := range d.targets {
		if ctx.Err() != nil {
			return
		}
		d.dispatch(ctx, t)
	}
}

// dispatch delivers pending events in order. A failed delivery stops the
// batch so the event is retried on the next poll.
func (d *webhookDispatcher) dispatch(ctx context.Context, t *hookTarget) {
	if !t.primed {
		latest, err := d.repo.LatestEventID(ctx)
		if err != nil {
			d.log.Warnw("webhook cursor init failed", "url", t.cfg.URL, "err", err)
			return
		}
		t.cursor, t.primed = latest, true
	}
	events, err := d.repo.EventsAfter(ctx, webhookBatchSize, t.cursor)
	if err != nil {
		d.log.Warnw("fetch events failed", "err", err)
		return
	}
	for _, evt := range events {
		if t.filter.match(evt.Type) {
			err := t.post(ctx, evt)
			d.metrics.ObserveWebhook(evt.Type, err)
			if err != nil {
				d.log.Warnw("webhook delivery failed", "url", t.cfg.URL, "event_id", evt.ID, "err", err)
				return
			}
			d.log.Debugw("webhook delivered", "url", t.cfg.URL, "event_id", evt.ID, "type", evt.Type)
		}
		t.cursor = evt.ID
	}
}

type webhookEvent struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityKind string          `json:"entityKind"`
	EntityID   string          `json:"entityId,omitempty"`
	ActorID    string          `json:"actorId"`
	TS         string          `json:"ts"`
	Payload    json.RawMessage `json:"payload"`
}

func newWebhookEvent(evt domain.Event) webhookEvent {
	payload := json.RawMessage(`{}`)
	switch {
	case evt.Payload == "":
	case json.Valid([]byte(evt.Payload)):
		payload = json.RawMessage(evt.Payload)
	default:
		payload, _ = json.Marshal(evt.Payload)
	}
	return webhookEvent{
		ID:         evt.ID,
		Type:       evt.Type,
		EntityKind: evt.EntityKind,
		EntityID:   evt.EntityID,
		ActorID:    evt.ActorID,
		TS:         evt.TS,
		Payload:    payload,
	}
}

// signPayload returns the SignatureHeader value for body.
func signPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (t *hookTarget) post(ctx context.Context, evt domain.Event) error {
	data, err := json.Marshal(newWebhookEvent(evt))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Mockline-Event", evt.Type)
	req.Header.Set("X-Mockline-Delivery", strconv.FormatInt(evt.ID, 10))
	if secret := strings.TrimSpace(t.cfg.Secret); secret != "" {
		req.Header.Set(SignatureHeader, signPayload(secret, data))
	}
	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

// eventFilter matches event types against exact names, "kind.*" prefixes
// or "*". An empty list matches everything.
type eventFilter struct {
	all      bool
	exact    map[string]bool
	prefixes []string
}

func newEventFilter(patterns []string) eventFilter {
	f := eventFilter{exact: make(map[string]bool)}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case p == "*":
			return eventFilter{all: true}
		case strings.HasSuffix(p, ".*"):
			f.prefixes = append(f.prefixes, strings.TrimSuffix(p, "*"))
		default:
			f.exact[p] = true
		}
	}
	if len(f.exact) == 0 && len(f.prefixes) == 0 {
		f.all = true
	}
	return f
}

func (f eventFilter) match(evt string) bool {
	if f.all || f.exact[evt] {
		return true
	}
	for _, p := range f.prefixes {
		if strings.HasPrefix(evt, p) {
			return true
		}
	}
	return false
}
