package route

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smartstep/pkg/cache"
	"github.com/matzehuels/smartstep/pkg/observability"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Router wraps [Compute] with caching, logging and observability hooks.
//
// A Router holds no per-scene state and may be shared between goroutines as
// long as each scene is only routed by one of them at a time.
type Router struct {
	Config Config
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long a cached result is served.
	TTL time.Duration
}

// NewRouter creates a router. A nil cache disables caching and a nil logger
// uses the default logger.
func NewRouter(cfg Config, c cache.Cache, logger *log.Logger) *Router {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		Config: cfg.WithDefaults(),
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Logger: logger,
		TTL:    cache.TTLRoute,
	}
}

// Route computes a connector's path, serving it from the cache when the
// resolved inputs are unchanged. The endpoint coordinates are remembered on
// the connector.
func (r *Router) Route(ctx context.Context, s *scene.Scene, connID string) (Result, error) {
	return r.route(ctx, s, connID, nil)
}

// RouteLive computes a connector's path with an in-progress segment drag
// applied. Live results are never cached.
func (r *Router) RouteLive(ctx context.Context, s *scene.Scene, connID string, live *LiveOffset) (Result, error) {
	return r.route(ctx, s, connID, live)
}

// RouteAll routes every connector in scene order.
func (r *Router) RouteAll(ctx context.Context, s *scene.Scene) ([]Result, error) {
	if ids := s.Dangling(); len(ids) > 0 {
		r.Logger.Warn("connectors reference missing shapes; using last known coordinates", "connectors", ids)
	}
	results := make([]Result, 0, len(s.Connectors))
	for i := range s.Connectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.Route(ctx, s, s.Connectors[i].ID)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Router) route(ctx context.Context, s *scene.Scene, connID string, live *LiveOffset) (Result, error) {
	start := time.Now()
	in, err := Resolve(s, connID, live, r.Config)
	if err != nil {
		observability.Route().OnRouteComplete(ctx, connID, 0, 0, time.Since(start), err)
		return Result{}, err
	}

	var key string
	if live == nil {
		key = r.key(in)
		if res, ok := r.lookup(ctx, key); ok {
			res.Remember(s)
			r.Logger.Debug("route cache hit", "connector", connID)
			observability.Route().OnRouteComplete(ctx, connID, len(res.Waypoints), res.Passes, time.Since(start), nil)
			return res, nil
		}
	}

	res := Run(in)
	res.Remember(s)
	if !res.Resolved {
		r.Logger.Warn("obstacle avoidance exhausted", "connector", connID, "passes", res.Passes)
		observability.Route().OnAvoidExhausted(ctx, connID, res.Passes)
	}
	if key != "" {
		r.store(ctx, key, res)
	}

	r.Logger.Debug("routed connector",
		"connector", connID,
		"source", res.Source.Side,
		"target", res.Target.Side,
		"points", len(res.Waypoints),
		"passes", res.Passes)
	observability.Route().OnRouteComplete(ctx, connID, len(res.Waypoints), res.Passes, time.Since(start), nil)
	return res, nil
}

func (r *Router) key(in Inputs) string {
	h, err := cache.HashJSON(in)
	if err != nil {
		return ""
	}
	return r.Keyer.RouteKey(in.ConnectorID, h)
}

// lookup treats any cache failure or undecodable entry as a miss.
func (r *Router) lookup(ctx context.Context, key string) (Result, bool) {
	if key == "" {
		return Result{}, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("route cache unavailable", "error", err)
		return Result{}, false
	}
	if !hit {
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		_ = r.Cache.Delete(ctx, key)
		return Result{}, false
	}
	return res, true
}

func (r *Router) store(ctx context.Context, key string, res Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLRoute
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("route cache write failed", "error", err)
	}
}
