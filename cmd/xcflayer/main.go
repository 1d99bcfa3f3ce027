// Command xcflayer renders one or more named layers from an XCF file to PNG,
// each to its own output file.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"strings"

	xcf "github.com/gimpxcf/xcfcore"
	"github.com/gimpxcf/xcfcore/xcffile"
)

// stringList collects every occurrence of a repeated flag, in order, so
// -layer/-out pairs line up positionally.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type config struct {
	layers     stringList
	outs       stringList
	useOffset  *bool
	canvasSize *bool
	showHelp   *bool
}

func defineFlags() config {
	var cfg config
	flag.Var(&cfg.layers, "layer", "name of a layer to render; repeat -layer/-out to render several in one invocation")
	flag.Var(&cfg.outs, "out", "output PNG path for the preceding -layer")
	cfg.useOffset = flag.Bool("use-offset", true, "position each layer at its declared (dx,dy) offset")
	cfg.canvasSize = flag.Bool("canvas-size", true, "size each output to the full image canvas instead of just the layer's bounds")
	cfg.showHelp = flag.Bool("h", false, "show this help message")
	return cfg
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `xcflayer - render one or more XCF layers to PNG

Usage:
  %[1]s -layer NAME -out out.png [-layer NAME -out out2.png ...] [options] <file.xcf>

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
	if flag.NArg() != 1 || len(cfg.layers) == 0 || len(cfg.layers) != len(cfg.outs) {
		printHelp()
		os.Exit(2)
	}
	path := flag.Arg(0)

	img, err := xcffile.ParsePath(path)
	if err != nil {
		log.Fatalf("parsing %s: %v", path, err)
	}

	for i, name := range cfg.layers {
		if err := renderLayer(img, name, cfg.outs[i], *cfg.useOffset, *cfg.canvasSize); err != nil {
			log.Fatalf("rendering layer %q: %v", name, err)
		}
	}
}

func renderLayer(img *xcf.Image, name, out string, useOffset, canvasSize bool) error {
	layer := img.LayerByName(name)
	if layer == nil {
		return fmt.Errorf("no layer named %q", name)
	}

	var sink *xcf.RGBAImageSink
	if canvasSize {
		sink = xcf.NewRGBAImageSink(int(img.Width()), int(img.Height()))
	} else {
		sink = xcf.NewRGBAImageSink(int(layer.Width()), int(layer.Height()))
	}

	if err := layer.Render(sink, useOffset && canvasSize); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, sink.Image())
}
