package loader

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".png":
		require.NoError(t, png.Encode(f, img))
	case ".bmp":
		require.NoError(t, bmp.Encode(f, img))
	case ".tiff":
		require.NoError(t, tiff.Encode(f, img, nil))
	default:
		t.Fatalf("unsupported test format %s", name)
	}
	return path
}

func writeFaces(t *testing.T, dir string, size int) []string {
	t.Helper()
	paths := make([]string, common.CubeFaceCount)
	for i := range paths {
		c := color.RGBA{R: uint8(i * 40), G: 10, B: 20, A: 255}
		paths[i] = writeImage(t, dir, "face"+string(rune('0'+i))+".png", solidImage(size, size, c))
	}
	return paths
}

func TestDecodeFormats(t *testing.T) {
	dir := t.TempDir()
	want := color.RGBA{R: 200, G: 100, B: 50, A: 255}

	for _, name := range []string{"a.png", "b.bmp", "c.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := writeImage(t, dir, name, solidImage(3, 2, want))

			tex, err := DecodeFile(path)
			require.NoError(t, err)
			assert.True(t, tex.Valid())
			assert.Equal(t, uint32(3), tex.Width)
			assert.Equal(t, uint32(2), tex.Height)
			assert.Equal(t, []byte{200, 100, 50, 255}, tex.Pixels[:4])
		})
	}
}

func TestDecodeFileErrors(t *testing.T) {
	_, err := DecodeFile("")
	assert.ErrorIs(t, err, ErrNoPath)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	corrupt := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0o644))
	_, err = DecodeFile(corrupt)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadTexture(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()), WithWorkers(2))
	defer l.Close()

	path := writeImage(t, t.TempDir(), "box.png", solidImage(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255}))
	tex, err := l.LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), tex.Width)

	// served from cache after the file is gone
	require.NoError(t, os.Remove(path))
	again, err := l.LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, tex, again)
}

func TestLoadTextureFallback(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()), WithFallbackSize(16))
	defer l.Close()

	tex, err := l.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	require.NoError(t, err)
	assert.True(t, tex.Valid())
	assert.Equal(t, uint32(16), tex.Width)

	strict := NewLoader(WithLogger(quietLogger()), WithFallbacks(false))
	defer strict.Close()
	_, err = strict.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadTextureCorruptIsError(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()))
	defer l.Close()

	corrupt := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(corrupt, []byte{0x89, 'P', 'N', 'G'}, 0o644))
	_, err := l.LoadTexture(corrupt)
	assert.Error(t, err)
}

func TestLoadCubemap(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()), WithWorkers(3))
	defer l.Close()

	paths := writeFaces(t, t.TempDir(), 8)
	cube, err := l.LoadCubemap(paths)
	require.NoError(t, err)
	assert.True(t, cube.Valid())
	assert.Equal(t, uint32(8), cube.Size)
	for i, face := range cube.Faces {
		assert.Equal(t, uint8(i*40), face[0], "face %d out of order", i)
	}
}

func TestLoadCubemapFaceCount(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()))
	defer l.Close()

	_, err := l.LoadCubemap(make([]string, 5))
	assert.ErrorIs(t, err, ErrFaceCount)

	_, err = l.LoadAssets("", make([]string, 7))
	assert.ErrorIs(t, err, ErrFaceCount)
}

func TestLoadCubemapFaceSize(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()))
	defer l.Close()

	dir := t.TempDir()
	paths := writeFaces(t, dir, 8)
	paths[3] = writeImage(t, dir, "odd.png", solidImage(8, 4, color.RGBA{A: 255}))

	_, err := l.LoadCubemap(paths)
	assert.ErrorIs(t, err, ErrFaceSize)
}

func TestLoadCubemapMissingFaceFallsBack(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()), WithFallbackSize(8))
	defer l.Close()

	paths := writeFaces(t, t.TempDir(), 4)
	paths[5] = ""
	cube, err := l.LoadCubemap(paths)
	require.NoError(t, err)
	assert.True(t, cube.Valid())
	assert.Equal(t, uint32(8), cube.Size)
}

func TestLoadAssetsWithoutFiles(t *testing.T) {
	l := NewLoader(WithLogger(quietLogger()), WithFallbackSize(8))
	defer l.Close()

	assets, err := l.LoadAssets("", make([]string, common.CubeFaceCount))
	require.NoError(t, err)
	assert.True(t, assets.BoxTexture.Valid())
	assert.True(t, assets.Sky.Valid())
}

func TestCheckerboard(t *testing.T) {
	colors := [2][3]uint8{{255, 0, 0}, {0, 0, 255}}
	tex := Checkerboard(4, 2, colors)

	require.True(t, tex.Valid())
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[0:4])
	// pixel (2, 0) is in the second cell
	assert.Equal(t, []byte{0, 0, 255, 255}, tex.Pixels[8:12])
}

func TestSkyGradient(t *testing.T) {
	cube := SkyGradient(8)
	require.True(t, cube.Valid())

	top := cube.Faces[2]
	bottom := cube.Faces[3]
	// zenith is bluer than the ground
	assert.Greater(t, top[2], bottom[2])
	for _, face := range cube.Faces {
		assert.Equal(t, byte(255), face[3])
	}
}
