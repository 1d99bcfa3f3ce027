// Command xcfrender composites an XCF file's visible layers and writes the
// result as a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	xcf "github.com/gimpxcf/xcfcore"
	"github.com/gimpxcf/xcfcore/xcffile"
)

type config struct {
	out       *string
	maxDim    *int
	cacheSize *int
	showHelp  *bool
}

func defineFlags() config {
	return config{
		out:       flag.String("out", "out.png", "output PNG path"),
		maxDim:    flag.Int("scale", 0, "if > 0, shrink the render so neither dimension exceeds this many pixels"),
		cacheSize: flag.Int("tile-cache", 0, "number of decoded tiles to keep cached (0 disables the cache)"),
		showHelp:  flag.Bool("h", false, "show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `xcfrender - composite an XCF file to PNG

Usage:
  %[1]s [options] <file.xcf>

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}
	if flag.NArg() != 1 {
		printHelp()
		os.Exit(2)
	}
	path := flag.Arg(0)

	var opts []xcf.ParseOption
	if *cfg.cacheSize > 0 {
		opts = append(opts, xcf.WithTileCache(*cfg.cacheSize))
	}

	img, err := xcffile.ParsePath(path, opts...)
	if err != nil {
		log.Fatalf("parsing %s: %v", path, err)
	}

	var out *image.NRGBA
	if *cfg.maxDim > 0 {
		tw, th := xcf.ThumbnailDims(int(img.Width()), int(img.Height()), *cfg.maxDim)
		thumb := xcf.NewRGBAImageSink(tw, th)
		if err := img.RenderThumbnail(thumb, *cfg.maxDim); err != nil {
			log.Fatalf("rendering %s: %v", path, err)
		}
		out = thumb.Image()
	} else {
		sink := xcf.NewRGBAImageSink(int(img.Width()), int(img.Height()))
		if err := img.RenderComposite(sink); err != nil {
			log.Fatalf("rendering %s: %v", path, err)
		}
		out = sink.Image()
	}

	if err := writePNG(*cfg.out, out); err != nil {
		log.Fatalf("writing %s: %v", *cfg.out, err)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
