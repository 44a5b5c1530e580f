// ndview is an interactive viewer for N-dimensional fractals and
// polytopes (N = 2..11), raymarched on the GPU through a rotating
// 3-D slice of the higher-dimensional space.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
	"github.com/lukaszgryglicki/ndview/internal/polytope"
	"github.com/lukaszgryglicki/ndview/internal/scene"
)

var (
	flagConfig = flag.String("config", "", "scene snapshot to start from")
	flagPreset = flag.String("preset", "", "named preset to start from")
	flagPNG    = flag.String("png", "", "render one frame to this file and exit (no window)")
	flagWidth  = flag.Int("w", 1280, "viewport width")
	flagHeight = flag.Int("h", 800, "viewport height")
	flagList   = flag.Bool("list", false, "list families, shapes and presets, then exit")
)

var debug bool

func debugf(format string, args ...any) {
	if debug {
		log.Printf(format, args...)
	}
}

func main() {
	flag.Parse()
	debug = os.Getenv("NDVIEW_DEBUG") != ""

	if os.Getenv("NDVIEW_PROFILE") != "" {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *flagList {
		return printList(os.Stdout)
	}
	sc, err := startScene()
	if err != nil {
		return err
	}
	if *flagPNG != "" {
		return renderPNG(sc, *flagPNG, *flagWidth, *flagHeight)
	}
	return runViewer(sc, *flagWidth, *flagHeight)
}

// startScene resolves the initial state: an explicit snapshot wins,
// then a named preset, then the stock scene.
func startScene() (*scene.Scene, error) {
	if *flagConfig != "" {
		return scene.Load(*flagConfig)
	}
	if *flagPreset != "" {
		ps, err := Presets()
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			if p.Name == *flagPreset {
				return p.Scene.Clone(), nil
			}
		}
		return nil, fmt.Errorf("no preset named %q", *flagPreset)
	}
	return scene.New(), nil
}

func printList(w io.Writer) error {
	ests, err := fractal.Defaults()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "families:")
	for _, e := range ests {
		lo, hi := e.DimRange()
		fmt.Fprintf(w, "  %-16s d%d..d%d  %s\n", e.Name(), lo, hi, e.Kind())
	}
	fmt.Fprintln(w, "shapes:")
	for _, g := range polytope.Catalog() {
		fmt.Fprintf(w, "  %-16s d%d..d%d\n", g.Name, g.MinDim, g.MaxDim)
	}
	ps, err := Presets()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "presets:")
	for _, p := range ps {
		fmt.Fprintf(w, "  %s\n", p.Name)
	}
	return nil
}
