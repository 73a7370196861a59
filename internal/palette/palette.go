// Package palette derives dominant brand colors from a generated mark and
// renders gallery thumbnails.
package palette

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxColors is how many colors Extract returns by default.
const DefaultMaxColors = 5

// sampleEdge is the edge of the square the image is reduced to before counting.
const sampleEdge = 64

// Extract returns up to maxColors dominant colors of the encoded image as
// lowercase #rrggbb strings, most frequent first. The pure black and pure
// white background and transparent pixels are ignored.
func Extract(data []byte, maxColors int) ([]string, error) {
	if maxColors <= 0 {
		maxColors = DefaultMaxColors
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	sample := image.NewRGBA(image.Rect(0, 0, sampleEdge, sampleEdge))
	draw.NearestNeighbor.Scale(sample, sample.Bounds(), img, img.Bounds(), draw.Src, nil)

	type bucket struct {
		key     uint16
		count   int
		r, g, b int
	}
	buckets := make(map[uint16]*bucket)
	for i := 0; i+3 < len(sample.Pix); i += 4 {
		r, g, b, a := sample.Pix[i], sample.Pix[i+1], sample.Pix[i+2], sample.Pix[i+3]
		if a < 128 || isBackground(r, g, b) {
			continue
		}
		key := uint16(r>>4)<<8 | uint16(g>>4)<<4 | uint16(b>>4)
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{key: key}
			buckets[key] = bk
		}
		bk.count++
		bk.r += int(r)
		bk.g += int(g)
		bk.b += int(b)
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		ranked = append(ranked, bk)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})

	colors := make([]string, 0, maxColors)
	for _, bk := range ranked {
		if len(colors) == maxColors {
			break
		}
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x", bk.r/bk.count, bk.g/bk.count, bk.b/bk.count))
	}

	log.Debug().
		Int("buckets", len(buckets)).
		Strs("colors", colors).
		Msg("Extracted dominant colors")
	return colors, nil
}

// isBackground reports whether a pixel falls in the near-black or near-white
// bucket used for mark backgrounds.
func isBackground(r, g, b uint8) bool {
	return (r < 16 && g < 16 && b < 16) || (r >= 240 && g >= 240 && b >= 240)
}

// Thumbnail re-encodes the image as a PNG whose longest edge is at most
// maxDimension. Smaller images are re-encoded without resizing.
func Thumbnail(data []byte, maxDimension int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := thumbnailDimensions(bounds.Dx(), bounds.Dy(), maxDimension)

	out := img
	if newWidth != bounds.Dx() || newHeight != bounds.Dy() {
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	log.Debug().
		Str("format", format).
		Int("orig_width", bounds.Dx()).
		Int("orig_height", bounds.Dy()).
		Int("new_width", newWidth).
		Int("new_height", newHeight).
		Int("output_size", buf.Len()).
		Msg("Thumbnail generated")
	return buf.Bytes(), nil
}

// thumbnailDimensions calculates new dimensions maintaining aspect ratio.
func thumbnailDimensions(width, height, maxDimension int) (int, int) {
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return width, height
	}
	if width > height {
		return maxDimension, max(1, height*maxDimension/width)
	}
	return max(1, width*maxDimension/height), maxDimension
}
