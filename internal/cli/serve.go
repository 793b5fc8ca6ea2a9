package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellspan/internal/server"
	"github.com/matzehuels/cellspan/pkg/cache"
	"github.com/matzehuels/cellspan/pkg/pipeline"
	"github.com/matzehuels/cellspan/pkg/store"
)

// Store backends of the serve command.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeMongo  = "mongo"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve designs over HTTP",
		Long: `Serve designs over HTTP.

Designs are kept in memory, in a directory of JSON files (store_dir in the
config file) or in MongoDB (mongo_uri). Layouts share the CLI's cache,
scoped to the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = c.Config.Listen
			}
			if listen == "" {
				listen = defaultListen
			}
			return c.runServe(cmd.Context(), listen, backend, noCache)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default: config listen or "+defaultListen+")")
	cmd.Flags().StringVar(&backend, "store", "", "design store: memory, file, mongo (default: mongo if mongo_uri is set, else file)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen, backend string, noCache bool) error {
	st, err := c.newStore(ctx, backend)
	if err != nil {
		return err
	}
	defer st.Close()

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:")
	runner := pipeline.NewRunner(c.newCache(ctx, noCache), keyer, c.Logger)
	defer runner.Close()

	srv := server.New(st, runner,
		server.WithLogger(c.Logger),
		server.WithPalette(c.Config.Palette))

	printInfo("Serving designs on %s", StyleLink.Render("http://"+displayAddr(listen)))
	return srv.ListenAndServe(ctx, listen)
}

// newStore opens the design store named by backend.
func (c *CLI) newStore(ctx context.Context, backend string) (store.Store, error) {
	if backend == "" {
		backend = storeFile
		if c.Config.MongoURI != "" {
			backend = storeMongo
		}
	}

	switch backend {
	case storeMemory:
		return store.NewMemoryStore(), nil
	case storeFile:
		dir := c.Config.StoreDir
		if dir == "" {
			d, err := defaultStoreDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c.Logger.Debug("using file store", "dir", dir)
		return store.NewFileStore(dir)
	case storeMongo:
		if c.Config.MongoURI == "" {
			return nil, fmt.Errorf("store %q needs mongo_uri in the config file", backend)
		}
		c.Logger.Debug("using mongo store")
		return store.NewMongoStore(ctx, store.MongoConfig{URI: c.Config.MongoURI})
	}
	return nil, fmt.Errorf("unknown store %q (must be memory, file or mongo)", backend)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
