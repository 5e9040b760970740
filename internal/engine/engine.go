package engine

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mockline/internal/chaos"
	"mockline/internal/config"
	"mockline/internal/events"
	"mockline/internal/logger"
	"mockline/internal/metrics"
	"mockline/internal/repo"
	"mockline/internal/template"
)

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time

	Materializer *template.Materializer
	Templates    *template.Cache
	Chaos        chaos.Policy
	Metrics      *metrics.Metrics
	Log          *zap.SugaredLogger
}

// New wires an Engine from cfg. A nil cfg means config.Default().
func New(db *sql.DB, cfg *config.Config) (Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cache, err := template.NewCache(cfg.Templates.CacheSize)
	if err != nil {
		return Engine{}, fmt.Errorf("template cache: %w", err)
	}
	m := metrics.New()
	cache.OnLookup = m.ObserveCache
	return Engine{
		DB:           db,
		Repo:         repo.Repo{DB: db},
		Events:       events.Writer{DB: db},
		Config:       cfg,
		Now:          time.Now,
		Materializer: template.New(nil),
		Templates:    cache,
		Chaos:        chaos.NewPolicy(cfg.ChaosConfig()),
		Metrics:      m,
		Log:          logger.Named("engine"),
	}, nil
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) timestamp() string {
	return e.now().UTC().Format(timestampLayout)
}

func (e Engine) materializer() *template.Materializer {
	if e.Materializer != nil {
		return e.Materializer
	}
	return template.New(nil)
}

func (e Engine) log() *zap.SugaredLogger {
	if e.Log != nil {
		return e.Log
	}
	return logger.Log
}

// Preview materializes a template without storing it.
func (e Engine) Preview(raw string) template.Value {
	return e.materializer().Materialize(raw)
}
