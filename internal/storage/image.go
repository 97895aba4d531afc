package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for uploads that are not a decodable image.
var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

const (
	startQuality = 85
	minQuality   = 40
	qualityStep  = 10
)

// ImageLimits bounds the re-encoded image. MaxPixels caps the decoded
// source, checked from the header before any pixel data is read.
type ImageLimits struct {
	MaxDimension int
	MaxBytes     int
	MaxPixels    int
}

// DefaultImageLimits keeps images under 1 MB and 1920 px on the long edge,
// and refuses sources above 50 megapixels.
var DefaultImageLimits = ImageLimits{MaxDimension: 1920, MaxBytes: 1 << 20, MaxPixels: 50_000_000}

// PrepareImage sniffs the upload, scales it to fit MaxDimension and re-encodes
// JPEG at dropping quality, then smaller sizes, until it fits MaxBytes.
func PrepareImage(data []byte, limits ImageLimits) ([]byte, string, error) {
	if limits.MaxDimension <= 0 {
		limits.MaxDimension = DefaultImageLimits.MaxDimension
	}
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultImageLimits.MaxBytes
	}
	if limits.MaxPixels <= 0 {
		limits.MaxPixels = DefaultImageLimits.MaxPixels
	}

	detected := mimetype.Detect(data).String()
	if !allowedImageMimes[detected] {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, detected)
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if int64(header.Width)*int64(header.Height) > int64(limits.MaxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrUnsupportedImage, header.Width, header.Height, limits.MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	maxDim := limits.MaxDimension
	for {
		scaled := fit(src, maxDim)
		for q := startQuality; q >= minQuality; q -= qualityStep {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: q}); err != nil {
				return nil, "", fmt.Errorf("failed to encode image: %w", err)
			}
			if buf.Len() <= limits.MaxBytes {
				return buf.Bytes(), "image/jpeg", nil
			}
		}
		if maxDim <= 64 {
			return nil, "", fmt.Errorf("image cannot be compressed below %d bytes", limits.MaxBytes)
		}
		maxDim = maxDim * 4 / 5
	}
}

// fit scales src so its long edge is at most maxDim, on a white background.
func fit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxDim || h > maxDim {
		if w >= h {
			h = h * maxDim / w
			w = maxDim
		} else {
			w = w * maxDim / h
			h = maxDim
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
