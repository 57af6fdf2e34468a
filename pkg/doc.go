// Package pkg provides the libraries behind svgbundle.
//
// # Overview
//
// svgbundle collects the SVG files referenced from CSS url() tokens during an
// esbuild pass and packs them into a single sprite addressable by fragment:
//
//	.home { background: url("./icons/home.svg"); }
//	        ↓
//	.home { background: url("/assets/sprite.svg#home"); }
//
// # Architecture
//
//	esbuild OnResolve ([plugin])
//	         ↓
//	    [collect] (resolve, dedup, allocate ids via [ids])
//	         ↓
//	esbuild OnEnd → [pipeline]
//	         ↓
//	    [shape] (parse + normalize each file, optionally minified by [optimize])
//	         ↓
//	    [layout] + [sink] (grid placement, serialization)
//	         ↓
//	    sprite file + [metafile] entry
//
// Supporting packages: [config] (options and loading), [cache] (optimizer
// cache backends), [errors] (coded errors), [observability] (hooks) and
// [buildinfo] (version information).
//
// # Quick Start
//
//	p, err := plugin.New(config.Options{
//	    BundleFile: "sprite.svg",
//	    BundleURL:  "/assets/sprite.svg",
//	})
//	if err != nil {
//	    return err
//	}
//	api.Build(api.BuildOptions{
//	    EntryPoints: []string{"src/app.css"},
//	    Bundle:      true,
//	    Outdir:      "dist",
//	    Write:       true,
//	    Plugins:     []api.Plugin{p},
//	})
package pkg
