package loader

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrNoPath is returned by DecodeFile for an empty path.
var ErrNoPath = errors.New("loader: no path given")

// DecodeFile opens and decodes an image file. The format is detected from the content.
//
// Parameters:
//   - path: the image file
//
// Returns:
//   - common.TextureStagingData: RGBA8 pixels, row-major, top row first
//   - error: error if the file cannot be opened or decoded
func DecodeFile(path string) (common.TextureStagingData, error) {
	if path == "" {
		return common.TextureStagingData{}, ErrNoPath
	}
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	tex, err := Decode(file)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}
	return tex, nil
}

// Decode decodes an image stream into RGBA8 pixels.
//
// Parameters:
//   - r: the encoded image
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: error if the format is unknown or the data is corrupt
func Decode(r io.Reader) (common.TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) common.TextureStagingData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}
