package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siliconmark/logocell/pkg/api"
	"github.com/siliconmark/logocell/pkg/cache"
	"github.com/siliconmark/logocell/pkg/observability"
	"github.com/siliconmark/logocell/pkg/pipeline"
	"github.com/siliconmark/logocell/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string // empty: in-process cache
	redisPassword string
	redisDB       int
	mongoURI      string // empty: in-process record store
	mongoDatabase string
	maxUploadMB   int
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:          ":8080",
		mongoDatabase: "logocell",
		maxUploadMB:   api.DefaultMaxUpload >> 20,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion HTTP API",
		Long: `Serve the conversion HTTP API.

Without --redis-addr results are cached in memory, and without --mongo-uri
conversion records live only as long as the process. Point several servers at
the same Redis and MongoDB to share both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.config != nil {
				if err := applyConfig(cmd.Flags(), c.config.Serve.flagValues()); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	f.StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the shared result cache")
	f.StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	f.IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	f.StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for conversion records")
	f.StringVar(&opts.mongoDatabase, "mongo-database", opts.mongoDatabase, "MongoDB database")
	f.IntVar(&opts.maxUploadMB, "max-upload-mb", opts.maxUploadMB, "request size limit in MiB")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	results, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(results, cache.NewScopedKeyer(nil, "api:"), c.Logger)
	defer runner.Close()

	records, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer records.Close(context.Background())

	observability.SetPipelineHooks(observability.LogPipelineHooks{Logger: c.Logger})
	observability.SetHTTPHooks(observability.LogHTTPHooks{Logger: c.Logger})
	defer observability.Reset()

	srv := api.New(runner, records,
		api.WithLogger(c.Logger),
		api.WithMaxUpload(int64(opts.maxUploadMB)<<20))

	printSuccess("Listening on %s", StyleLink.Render(listenURL(opts.addr)))
	if err := srv.ListenAndServe(ctx, opts.addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	c.Logger.Info("server stopped")
	return nil
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.redisAddr == "" {
		c.Logger.Debug("using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     opts.redisAddr,
		Password: opts.redisPassword,
		DB:       opts.redisDB,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "addr", opts.redisAddr)
	return rc, nil
}

func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		c.Logger.Debug("using in-memory record store")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoConfig{
		URI:      opts.mongoURI,
		Database: opts.mongoDatabase,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using mongo record store", "database", opts.mongoDatabase)
	return ms, nil
}

// listenURL turns a listen address into a clickable URL.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
