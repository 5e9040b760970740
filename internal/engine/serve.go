package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"mockline/internal/chaos"
	"mockline/internal/domain"
	"mockline/internal/metrics"
	"mockline/internal/repo"
	"mockline/internal/template"
)

// ErrMockNotFound is returned by Serve for an unknown public mock id.
var ErrMockNotFound = errors.New("mock api not found")

// Response is what a served mock answers with.
type Response struct {
	Status int
	Body   template.Value
	// Chaos records the policy decision; callers must not expose it.
	Chaos chaos.Outcome
}

// Serve runs Lookup, Delay, Materialize, ChaosCheck and Respond for one
// request. Waits end early with ctx.Err() when ctx is cancelled.
func (e Engine) Serve(ctx context.Context, mockID string) (resp Response, err error) {
	start := time.Now()
	defer func() {
		e.Metrics.ObserveServe(serveStatus(resp, err), time.Since(start))
	}()

	def, err := e.Repo.GetMockByMockID(ctx, mockID)
	if errors.Is(err, repo.ErrNotFound) {
		return Response{}, ErrMockNotFound
	}
	if err != nil {
		return Response{}, fmt.Errorf("lookup mock %s: %w", mockID, err)
	}

	if err := wait(ctx, time.Duration(def.DelayMs)*time.Millisecond); err != nil {
		return Response{}, err
	}

	body := e.materialize(def)

	outcome := e.Chaos.Apply(chaos.Input{
		Enabled: def.ChaosEnabled,
		Level:   def.ChaosLevel,
		Payload: body,
		Status:  def.StatusCode,
	})
	if outcome.Activated {
		e.Metrics.ObserveChaos(string(outcome.Effect))
		e.log().Debugw("chaos activated", "mock_id", mockID, "effect", outcome.Effect, "status", outcome.Status, "removed", outcome.RemovedKeys)
	}
	if err := wait(ctx, outcome.ExtraDelay); err != nil {
		return Response{}, err
	}

	return Response{Status: outcome.Status, Body: outcome.Body, Chaos: outcome}, nil
}

// materialize falls back to the invalid template document when the stored
// text does not parse.
func (e Engine) materialize(def domain.MockDefinition) template.Value {
	tree, err := e.Templates.Parse(templateCacheKey(def), def.Template)
	if err != nil {
		e.log().Debugw("invalid template", "mock_id", def.MockID, "err", err)
		return template.InvalidTemplate()
	}
	return e.materializer().MaterializeValue(tree)
}

// templateCacheKey changes whenever the stored template can have changed.
// The content hash covers updates that land on the same timestamp.
func templateCacheKey(def domain.MockDefinition) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(def.Template))
	return def.MockID + "@" + def.UpdatedAt + "#" + strconv.FormatUint(h.Sum64(), 16)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func serveStatus(resp Response, err error) int {
	switch {
	case err == nil:
		return resp.Status
	case errors.Is(err, ErrMockNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.StatusClientClosed
	default:
		return http.StatusInternalServerError
	}
}
