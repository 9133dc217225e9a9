package cli

import (
	"github.com/spf13/cobra"

	"github.com/capdrop/capdrop/internal/server"
	"github.com/capdrop/capdrop/pkg/cache"
	"github.com/capdrop/capdrop/pkg/captions"
	"github.com/capdrop/capdrop/pkg/errors"
	"github.com/capdrop/capdrop/pkg/runs"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	srvCfg := c.config.Server
	var (
		addr        string
		captionsDir string
		runStore    string
		mongoURI    string
		redisAddr   string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the web frontend",
		Long: `Serve starts the capdrop HTTP API. The frontend discovers caption files
under --captions, previews transforms, and pages through recorded runs.

Run history defaults to a file store under ~/.local/share/capdrop/runs;
--store mongo persists runs to MongoDB instead, --store none disables
history. Seeded simulation results are cached on disk, or in Redis when
--redis is set.`,
		Example: `  capdrop serve --captions ~/datasets/captions
  capdrop serve --captions ./captions --addr :9000 --store none
  capdrop serve --captions ./captions --store mongo --mongo mongodb://localhost:27017
  capdrop serve --captions ./captions --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if captionsDir == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "a captions directory is required (--captions)")
			}
			source, err := captions.NewSource(captionsDir)
			if err != nil {
				return err
			}

			store, err := newRunStore(cmd, runStore, mongoURI)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close(ctx)
			}

			resultCache, err := c.newServeCache(cmd, noCache, redisAddr)
			if err != nil {
				return err
			}

			printInfo("Serving captions from %s", source.Root())
			printDetail("API: http://localhost%s/api/captions", addr)
			return server.New(server.Config{
				Addr:   addr,
				Source: source,
				Store:  store,
				Cache:  resultCache,
				Logger: logger,
			}).ListenAndServe(ctx)
		},
	}

	if srvCfg.Addr == "" {
		srvCfg.Addr = server.DefaultAddr
	}
	if srvCfg.RunStore == "" {
		srvCfg.RunStore = "file"
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", srvCfg.Addr, "listen address")
	cmd.Flags().StringVarP(&captionsDir, "captions", "c", srvCfg.CaptionsDir, "root directory of caption files")
	cmd.Flags().StringVar(&runStore, "store", srvCfg.RunStore, "run history backend: file, mongo, or none")
	cmd.Flags().StringVar(&mongoURI, "mongo", srvCfg.MongoURI, "MongoDB connection URI (with --store mongo)")
	cmd.Flags().StringVar(&redisAddr, "redis", srvCfg.RedisAddr, "Redis address for the result cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

// newRunStore builds the run history backend.
func newRunStore(cmd *cobra.Command, kind, mongoURI string) (runs.Store, error) {
	switch kind {
	case "none":
		return nil, nil
	case "file":
		return runs.NewFileStore("")
	case "mongo":
		if mongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "--store mongo requires --mongo")
		}
		return runs.NewMongoStore(cmd.Context(), runs.MongoConfig{URI: mongoURI})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown run store %q (want file, mongo, or none)", kind)
	}
}

// newServeCache builds the result cache for the server.
func (c *CLI) newServeCache(cmd *cobra.Command, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(cmd.Context(), cache.RedisConfig{Addr: redisAddr})
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
