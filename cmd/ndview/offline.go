package main

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/lukaszgryglicki/ndview/internal/march"
	"github.com/lukaszgryglicki/ndview/internal/scene"
)

// renderPNG raymarches one frame on the CPU and writes it as a 16-bit
// PNG. No GL context is involved, so -png works headless and the
// output can be held against what the GPU path shows.
func renderPNG(sc *scene.Scene, path string, width, height int) error {
	fr, err := sc.Frame(width, height, 0)
	if err != nil {
		return err
	}

	stats := &march.Stats{}
	opt := fr.Options
	opt.Stats = stats
	opt.Progress = func(done, total int) {
		fmt.Printf("[png]  %.2f%%\n", float64(done)*100/float64(total))
	}

	start := time.Now()
	img, err := march.Render(fr.Field(), fr.March, opt)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d) in %v; %v\n",
		path, width, height, time.Since(start).Round(time.Millisecond), stats.Snapshot())
	return nil
}
