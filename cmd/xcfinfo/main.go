// Command xcfinfo parses an XCF file and dumps its metadata as JSON: size,
// color model, precision, version, and one entry per layer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gimpxcf/xcfcore/xcffile"
)

type config struct {
	onlyVisible *bool
}

func defineFlags() config {
	return config{
		onlyVisible: flag.Bool("visible-only", false, "list only visible layers"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `xcfinfo - dump an XCF file's metadata as JSON

Usage:
  %[1]s [options] <file.xcf>

`, os.Args[0])
	flag.PrintDefaults()
}

type layerInfo struct {
	Name    string `json:"name"`
	Width   uint32 `json:"width"`
	Height  uint32 `json:"height"`
	Dx      int32  `json:"dx"`
	Dy      int32  `json:"dy"`
	Visible bool   `json:"visible"`
	Opacity uint8  `json:"opacity"`
	Mode    string `json:"mode"`
	IsGroup bool   `json:"is_group"`
	Group   string `json:"group,omitempty"`
}

type imageInfo struct {
	Width     uint32      `json:"width"`
	Height    uint32      `json:"height"`
	BaseType  string      `json:"base_type"`
	Precision string      `json:"precision,omitempty"`
	Version   int         `json:"version"`
	IsV11     bool        `json:"is_v11"`
	Colormap  int         `json:"colormap_entries"`
	Layers    []layerInfo `json:"layers"`
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() != 1 {
		printHelp()
		os.Exit(2)
	}
	path := flag.Arg(0)

	img, err := xcffile.ParsePath(path)
	if err != nil {
		log.Fatalf("parsing %s: %v", path, err)
	}

	info := imageInfo{
		Width:    img.Width(),
		Height:   img.Height(),
		BaseType: img.BaseType().String(),
		Version:  img.Version(),
		IsV11:    img.IsV11(),
		Colormap: len(img.Colormap()),
	}
	if img.IsV11() {
		info.Precision = fmt.Sprintf("%d", img.Precision())
	}

	layers := img.Layers()
	if *cfg.onlyVisible {
		layers = img.VisibleLayers()
	}
	for _, l := range layers {
		info.Layers = append(info.Layers, layerInfo{
			Name:    l.Name(),
			Width:   l.Width(),
			Height:  l.Height(),
			Dx:      l.Dx(),
			Dy:      l.Dy(),
			Visible: l.Visible(),
			Opacity: l.Opacity(),
			Mode:    l.Mode().String(),
			IsGroup: l.IsGroup(),
			Group:   l.GroupName(),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		log.Fatalf("encoding JSON: %v", err)
	}
}
