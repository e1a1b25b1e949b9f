package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityThumb = 60
	qualityFull  = 80
	// Size settings (max dimension)
	maxSizeThumb = 300
	maxSizeFull  = 1200
)

// Preview size identifiers accepted by the previews endpoint
const (
	PreviewSizeThumb = "thumb"
	PreviewSizeFull  = "full"
)

// OptimizePreview re-encodes a rasterized preview as a sized JPEG.
// rawData: PNG bytes from the rendering engine.
// size: PreviewSizeThumb or PreviewSizeFull.
func OptimizePreview(rawData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(rawData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode preview image: %w", err)
	}

	var maxDim, quality int
	switch size {
	case PreviewSizeThumb:
		maxDim = maxSizeThumb
		quality = qualityThumb
	case PreviewSizeFull:
		maxDim = maxSizeFull
		quality = qualityFull
	default:
		maxDim = maxSizeFull
		quality = qualityFull
		log.Printf("⚠️  Unknown preview size '%s', defaulting to full", size)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = img
	if width > maxDim || height > maxDim {
		var newWidth, newHeight int
		if width > height {
			newWidth = maxDim
			newHeight = int(float64(height) * float64(maxDim) / float64(width))
		} else {
			newHeight = maxDim
			newWidth = int(float64(width) * float64(maxDim) / float64(height))
		}
		resized = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode preview to JPEG: %w", err)
	}

	log.Printf("📸 Preview optimized: format=%s size=%s output=%d bytes", format, size, buf.Len())
	return buf.Bytes(), nil
}
