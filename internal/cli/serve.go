package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smartstep/pkg/api"
	"github.com/matzehuels/smartstep/pkg/storage"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string // listen address
	dir      string // file store directory
	mongoURI string // use MongoDB instead of files
	noCache  bool   // disable route and render caching
}

// serveCommand creates the serve command, which exposes a scene store over
// HTTP. Flags override the [storage] and [cache] sections of the config file.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenes, routes and renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "scene directory (default ~/.config/smartstep/scenes)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "store scenes in MongoDB at this URI")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable route and render caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	store, err := c.openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	rc, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer rc.Close()

	srv := api.NewServer(store,
		api.WithCache(rc),
		api.WithLogger(logger),
		api.WithRouteConfig(c.Config.Routing),
		api.WithRouteTTL(c.Config.Cache.TTL),
	)
	return srv.ListenAndServe(ctx, opts.addr)
}

// openStore picks MongoDB when a URI is given by flag or config, otherwise
// the file store.
func (c *CLI) openStore(ctx context.Context, opts serveOpts) (storage.Store, error) {
	logger := loggerFromContext(ctx)
	cfg := c.Config.Storage

	uri := opts.mongoURI
	if uri == "" {
		uri = cfg.MongoURI
	}
	if uri != "" {
		sw := startStopwatch(logger)
		var store *storage.MongoStore
		err := dial(ctx, "mongo", dialAttempts, dialDelay, func(ctx context.Context) error {
			var err error
			store, err = storage.NewMongoStore(ctx, storage.MongoOptions{URI: uri, Database: cfg.MongoDatabase}, logger)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		sw.done("Connected to MongoDB", "database", cfg.MongoDatabase)
		return store, nil
	}

	dir := opts.dir
	if dir == "" {
		dir = cfg.Dir
	}
	store, err := storage.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	logger.Info("using file store", "dir", store.Dir())
	return store, nil
}
