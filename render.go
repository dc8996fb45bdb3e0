package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/vector"

	"github.com/chazu/csg2d/pkg/geom"
	"github.com/chazu/csg2d/pkg/kernel"
)

// renderPadding is the margin around the drawing in pixels.
const renderPadding = 8

// maxRenderSize caps either image dimension in pixels.
const maxRenderSize = 8192

// parseColor parses a "#RRGGBB" palette entry.
func parseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// outlineBounds returns the bounding box over all loops of all outlines.
// ok is false when there are no vertices.
func outlineBounds(outlines []*kernel.Outline) (min, max geom.Vec2, ok bool) {
	min = geom.V2(math.Inf(1), math.Inf(1))
	max = geom.V2(math.Inf(-1), math.Inf(-1))
	for _, o := range outlines {
		for _, l := range o.Loops {
			if len(l) == 0 {
				continue
			}
			lmin, lmax := l.Bounds()
			min = geom.V2(math.Min(min.X, lmin.X), math.Min(min.Y, lmin.Y))
			max = geom.V2(math.Max(max.X, lmax.X), math.Max(max.Y, lmax.Y))
			ok = true
		}
	}
	return min, max, ok
}

// RenderPNG draws filled outlines to w as a PNG. Each outline is filled in
// its palette color; scale is pixels per unit and y points up.
func RenderPNG(w io.Writer, outlines []*kernel.Outline, colors []string, scale float64) error {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("scale must be positive, got %v", scale)
	}

	min, max, ok := outlineBounds(outlines)
	if !ok {
		min, max = geom.Vec2{}, geom.Vec2{}
	}
	width := int(math.Ceil((max.X-min.X)*scale)) + 1
	height := int(math.Ceil((max.Y-min.Y)*scale)) + 1
	if width > maxRenderSize || height > maxRenderSize {
		return fmt.Errorf("image of %dx%d pixels exceeds %d, lower the scale", width, height, maxRenderSize)
	}

	rect := image.Rect(0, 0, width+2*renderPadding, height+2*renderPadding)
	drawRect := image.Rect(renderPadding, renderPadding, width+renderPadding, height+renderPadding)

	img := image.NewRGBA(rect)
	draw.Draw(img, rect, image.NewUniform(color.White), image.Point{}, draw.Src)

	ras := vector.NewRasterizer(width, height)
	for i, o := range outlines {
		c := color.RGBA{A: 0xff}
		if i < len(colors) {
			var err error
			if c, err = parseColor(colors[i]); err != nil {
				return err
			}
		}

		ras.Reset(width, height)
		for _, l := range o.Loops {
			if len(l) < 3 {
				continue
			}
			for j, p := range l {
				x := float32((p.X - min.X) * scale)
				y := float32((max.Y - p.Y) * scale)
				if j == 0 {
					ras.MoveTo(x, y)
				} else {
					ras.LineTo(x, y)
				}
			}
			ras.ClosePath()
		}
		ras.Draw(img, drawRect, image.NewUniform(c), image.Point{})
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
