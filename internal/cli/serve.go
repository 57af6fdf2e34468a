package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgbundle/pkg/config"
	"github.com/matzehuels/svgbundle/pkg/pipeline"
	"github.com/matzehuels/svgbundle/pkg/plugin"
)

// spriteState is the latest sprite seen by the server.
type spriteState struct {
	latest atomic.Pointer[pipeline.Result]
}

// spriteInfo is the JSON body of GET /_svgbundle/ids.
type spriteInfo struct {
	Path   string   `json:"path"`
	Bytes  int      `json:"bytes"`
	IDs    []string `json:"ids"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

func (c *CLI) serveCommand() *cobra.Command {
	var (
		bo   buildOpts
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve <entry>...",
		Short: "Rebuild on change and serve the output directory",
		Long: `Run a watch build and serve the output directory over HTTP.

GET /_svgbundle/ids returns the ids in the current sprite.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), args, addr, bo, *opts)
		},
	}

	cmd.Flags().StringVarP(&bo.outdir, "outdir", "o", "dist", "output directory")
	cmd.Flags().StringVar(&addr, "addr", "localhost:8000", "listen address")
	addSpriteFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runServe(ctx context.Context, entries []string, addr string, bo buildOpts, opts config.Options) error {
	logger := loggerFromContext(ctx)
	root, err := workingDir()
	if err != nil {
		return err
	}

	runner, closeCache, err := c.newRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer closeCache()

	state := &spriteState{}
	bundler, err := plugin.NewBundler(opts,
		plugin.WithLogger(logger),
		plugin.WithRunner(runner),
		plugin.WithContext(ctx),
		plugin.OnResult(func(r *pipeline.Result) {
			state.latest.Store(r)
			logger.Info("sprite updated", "images", len(r.IDs), "bytes", r.Bytes)
		}),
	)
	if err != nil {
		return err
	}

	bctx, cerr := api.Context(esbuildOptions(root, entries, bo, bundler.Plugin()))
	if cerr != nil {
		return buildError(cerr.Errors)
	}
	defer bctx.Dispose()
	if err := bctx.Watch(api.WatchOptions{}); err != nil {
		return err
	}

	outDir := bo.outdir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeHandler(outDir, state),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving %s", StyleLink.Render("http://"+addr))
	printDetail("Directory: %s", outDir)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServeHandler serves dir and the sprite's id listing.
func newServeHandler(dir string, state *spriteState) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/_svgbundle/ids", func(w http.ResponseWriter, req *http.Request) {
		res := state.latest.Load()
		if res == nil {
			http.Error(w, "no sprite has been written yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(spriteInfo{
			Path:   res.RelOutputPath,
			Bytes:  res.Bytes,
			IDs:    res.IDs,
			Width:  res.Width,
			Height: res.Height,
		})
	})
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	return r
}
