package xcf

import "golang.org/x/image/draw"

// RenderThumbnail composites the image at native resolution into a scratch
// buffer, then downsamples it into sink: sink's own dimensions are the
// thumbnail target. maxDim is advisory only, logged if sink's dimensions
// don't honor it (callers typically size sink via thumbnailDims' math
// themselves first). It is a supplemental convenience built on top of
// RenderComposite; it does not change how compositing itself works.
func (img *Image) RenderThumbnail(sink *RGBAImageSink, maxDim int, opts ...RenderOption) error {
	full := NewRGBAImageSink(int(img.width), int(img.height))
	if err := img.RenderComposite(full, opts...); err != nil {
		return err
	}

	if maxDim > 0 && (sink.Width() > maxDim || sink.Height() > maxDim) {
		img.log.Info("thumbnail sink exceeds maxDim", "width", sink.Width(), "height", sink.Height(), "maxDim", maxDim)
	}

	draw.CatmullRom.Scale(sink.img, sink.img.Bounds(), full.img, full.img.Bounds(), draw.Src, nil)
	return nil
}

// ThumbnailDims computes the aspect-preserving target size for a composite
// of width x height so neither dimension exceeds maxDim: the size callers
// typically use to allocate the sink they then pass to RenderThumbnail.
func ThumbnailDims(width, height, maxDim int) (int, int) {
	return thumbnailDims(width, height, maxDim)
}

func thumbnailDims(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}
	longest := width
	if height > longest {
		longest = height
	}
	scale := float64(maxDim) / float64(longest)
	tw := int(float64(width) * scale)
	th := int(float64(height) * scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}
