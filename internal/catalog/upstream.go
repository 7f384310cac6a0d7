package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// Upstream fetches the catalog from a remote catalog service behind a
// circuit breaker.
type Upstream struct {
	base    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

type UpstreamConfig struct {
	BaseURL     string // e.g. http://catalog.cloud:8080
	HTTPTimeout time.Duration
	Fails       int           // consecutive failures before opening
	OpenFor     time.Duration // how long the breaker stays open
}

func NewUpstream(cfg UpstreamConfig) *Upstream {
	if cfg.Fails < 1 {
		cfg.Fails = 3
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 10 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 3 * time.Second
	}
	fails := uint32(cfg.Fails)
	return &Upstream{
		base:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "catalog-service",
			Timeout: cfg.OpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= fails
			},
		}),
	}
}

// State exposes the breaker state for health reporting.
func (u *Upstream) State() gobreaker.State { return u.breaker.State() }

// Fetch GETs {base}/catalog/pipes and {base}/catalog/fittings. A failing
// fittings endpoint is tolerated; the pipes are what the engine needs.
func (u *Upstream) Fetch(ctx context.Context) ([]entities.PipeSpec, []entities.FittingSpec, error) {
	res, err := u.breaker.Execute(func() (any, error) {
		var pipes []entities.PipeSpec
		if err := u.getJSON(ctx, "/catalog/pipes", &pipes); err != nil {
			return nil, err
		}
		if len(pipes) == 0 {
			return nil, fmt.Errorf("catalog upstream returned no pipes")
		}
		return pipes, nil
	})
	if err != nil {
		return nil, nil, err
	}

	var fittings []entities.FittingSpec
	if err := u.getJSON(ctx, "/catalog/fittings", &fittings); err != nil {
		fittings = nil
	}
	return res.([]entities.PipeSpec), fittings, nil
}

func (u *Upstream) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s -> %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog decode error: %w", err)
	}
	return nil
}
