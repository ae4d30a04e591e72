package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/smartstep/pkg/buildinfo"
	"github.com/matzehuels/smartstep/pkg/cache"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
	"github.com/matzehuels/smartstep/pkg/storage"
)

// Server is the HTTP front end of a scene store.
type Server struct {
	store    storage.Store
	router   *route.Router
	routeCfg route.Config
	routeTTL time.Duration
	cache    cache.Cache
	keyer    cache.Keyer
	logger   *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a [Server].
type Option func(*Server)

// WithCache sets the cache used for routes and rendered artifacts.
func WithCache(c cache.Cache) Option { return func(s *Server) { s.cache = c } }

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithRouteConfig sets the routing constants.
func WithRouteConfig(cfg route.Config) Option {
	return func(s *Server) { s.routeCfg = cfg }
}

// WithRouteTTL sets how long cached routes are served.
func WithRouteTTL(d time.Duration) Option {
	return func(s *Server) { s.routeTTL = d }
}

// NewServer creates a server over store.
func NewServer(store storage.Store, opts ...Option) *Server {
	s := &Server{
		store:    store,
		routeCfg: route.DefaultConfig(),
		keyer:    cache.NewDefaultKeyer(),
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.router = route.NewRouter(s.routeCfg, s.cache, s.logger)
	if s.routeTTL > 0 {
		s.router.TTL = s.routeTTL
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string         `json:"status"`
			Build  buildinfo.Info `json:"build"`
		}{"ok", buildinfo.Get()})
	})

	r.Route("/api/scenes", func(r chi.Router) {
		r.Get("/", s.listScenes)
		r.Route("/{scene}", func(r chi.Router) {
			r.Get("/", s.getScene)
			r.Put("/", s.putScene)
			r.Delete("/", s.deleteScene)
			r.Get("/routes", s.routeScene)
			r.Get("/render.{format}", s.renderScene)

			r.Post("/connectors", s.createConnector)
			r.Route("/connectors/{conn}", func(r chi.Router) {
				r.Delete("/", s.deleteConnector)
				r.Get("/route", s.routeConnector)
				r.Post("/offsets", s.addOffset)
				r.Delete("/offsets", s.clearOffsets)
				r.Post("/reconnect", s.reconnect)
				r.Post("/swap", s.swap)
			})
			r.Post("/shapes/{shape}/move", s.moveShape)
			r.Post("/containers/{shape}/collapse", s.collapse)
			r.Post("/containers/{shape}/expand", s.expand)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// withScene loads a scene under its lock and runs fn. When write is set and
// fn succeeds the scene is stored again.
func (s *Server) withScene(ctx context.Context, id string, write bool, fn func(*scene.Scene) error) error {
	defer s.lock(id)()
	sc, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(sc); err != nil {
		return err
	}
	if !write {
		return nil
	}
	return s.store.Put(ctx, sc)
}
