package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

var (
	// ErrFaceCount is returned when a cubemap is not given exactly six face paths.
	ErrFaceCount = errors.New("loader: cubemap needs exactly 6 faces")

	// ErrFaceSize is returned when cubemap faces are not square or differ in size.
	ErrFaceSize = errors.New("loader: cubemap faces must be square and equally sized")
)

// DefaultWorkers is the decode pool size when WithWorkers is not given.
const DefaultWorkers = 4

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	pool    worker.DynamicWorkerPool
	workers int
	logger  *slog.Logger

	fallbacks    bool
	fallbackSize uint32
	textureCache map[string]common.TextureStagingData
}

// Assets is everything the viewer needs decoded before the first frame.
type Assets struct {
	BoxTexture common.TextureStagingData
	Sky        common.CubemapStagingData
}

// Loader decodes image files into GPU staging data. Decoding runs on a bounded worker pool so a
// cubemap's six faces decode in parallel; results are cached by path.
//
// Missing files (empty path or fs.ErrNotExist) are replaced by procedural images when fallbacks
// are enabled, which is the default. Files that exist but fail to decode are always an error.
type Loader interface {
	// LoadTexture decodes one image into RGBA8 pixels.
	//
	// Parameters:
	//   - path: the image file (PNG, JPEG, BMP or TIFF)
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels
	//   - error: error if the file cannot be read or decoded
	LoadTexture(path string) (common.TextureStagingData, error)

	// LoadCubemap decodes six square faces ordered +X, -X, +Y, -Y, +Z, -Z.
	//
	// Parameters:
	//   - paths: exactly six image files
	//
	// Returns:
	//   - common.CubemapStagingData: the decoded faces
	//   - error: ErrFaceCount, ErrFaceSize, or a decode error
	LoadCubemap(paths []string) (common.CubemapStagingData, error)

	// LoadAssets decodes the box texture and the sky faces together on the pool.
	//
	// Parameters:
	//   - boxTexture: the box image file
	//   - skyFaces: six sky face image files
	//
	// Returns:
	//   - Assets: the decoded assets
	//   - error: the first error encountered
	LoadAssets(boxTexture string, skyFaces []string) (Assets, error)

	// Close stops the decode workers.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader and starts its decode workers.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:      DefaultWorkers,
		logger:       slog.Default(),
		fallbacks:    true,
		fallbackSize: DefaultFallbackSize,
		textureCache: make(map[string]common.TextureStagingData),
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, time.Second)
	return l
}

func (l *loader) LoadTexture(path string) (common.TextureStagingData, error) {
	results := l.decodeAll([]string{path})
	if results[0].err != nil {
		if l.missing(results[0].err) {
			l.logger.Warn("texture missing, using checkerboard", "path", path, "error", results[0].err)
			return Checkerboard(l.fallbackSize, DefaultCheckerCells, defaultCheckerColors), nil
		}
		return common.TextureStagingData{}, results[0].err
	}
	return results[0].tex, nil
}

func (l *loader) LoadCubemap(paths []string) (common.CubemapStagingData, error) {
	if len(paths) != common.CubeFaceCount {
		return common.CubemapStagingData{}, fmt.Errorf("%w: got %d", ErrFaceCount, len(paths))
	}
	return l.assembleCubemap(paths, l.decodeAll(paths))
}

func (l *loader) LoadAssets(boxTexture string, skyFaces []string) (Assets, error) {
	if len(skyFaces) != common.CubeFaceCount {
		return Assets{}, fmt.Errorf("%w: got %d", ErrFaceCount, len(skyFaces))
	}

	results := l.decodeAll(append([]string{boxTexture}, skyFaces...))

	var assets Assets
	box := results[0]
	switch {
	case box.err == nil:
		assets.BoxTexture = box.tex
	case l.missing(box.err):
		l.logger.Warn("texture missing, using checkerboard", "path", boxTexture, "error", box.err)
		assets.BoxTexture = Checkerboard(l.fallbackSize, DefaultCheckerCells, defaultCheckerColors)
	default:
		return Assets{}, box.err
	}

	sky, err := l.assembleCubemap(skyFaces, results[1:])
	if err != nil {
		return Assets{}, err
	}
	assets.Sky = sky
	return assets, nil
}

func (l *loader) Close() {
	l.pool.Stop()
}

// decodeResult is the outcome of decoding one path.
type decodeResult struct {
	tex common.TextureStagingData
	err error
}

// decodeAll decodes every path on the worker pool and returns results in input order.
// Cached paths skip the pool. A WaitGroup is the barrier since pool.Wait only returns once
// every worker is idle.
func (l *loader) decodeAll(paths []string) []decodeResult {
	results := make([]decodeResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		if tex, ok := l.cached(path); ok {
			results[i].tex = tex
			continue
		}

		wg.Add(1)
		idx, p := i, path
		l.pool.SubmitTask(worker.Task{
			ID:      idx,
			Payload: p,
			Do: func() (any, error) {
				defer wg.Done()
				tex, err := DecodeFile(p)
				results[idx] = decodeResult{tex: tex, err: err}
				return nil, err
			},
		})
	}
	wg.Wait()

	l.mu.Lock()
	for i, r := range results {
		if r.err == nil {
			l.textureCache[paths[i]] = r.tex
		}
	}
	l.mu.Unlock()

	return results
}

func (l *loader) cached(path string) (common.TextureStagingData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tex, ok := l.textureCache[path]
	return tex, ok
}

// assembleCubemap turns six decode results into a cubemap. Any missing face replaces the whole
// cubemap with the procedural sky so the faces stay consistent.
func (l *loader) assembleCubemap(paths []string, results []decodeResult) (common.CubemapStagingData, error) {
	var cube common.CubemapStagingData
	for i, r := range results {
		if r.err != nil {
			if l.missing(r.err) {
				l.logger.Warn("sky face missing, using gradient sky", "face", i, "path", paths[i], "error", r.err)
				return SkyGradient(l.fallbackSize), nil
			}
			return common.CubemapStagingData{}, fmt.Errorf("sky face %d: %w", i, r.err)
		}
	}

	size := results[0].tex.Width
	for i, r := range results {
		if r.tex.Width != r.tex.Height || r.tex.Width != size {
			return common.CubemapStagingData{}, fmt.Errorf("%w: face %d (%s) is %dx%d, want %dx%d",
				ErrFaceSize, i, paths[i], r.tex.Width, r.tex.Height, size, size)
		}
		cube.Faces[i] = r.tex.Pixels
	}
	cube.Size = size
	return cube, nil
}

func (l *loader) missing(err error) bool {
	return l.fallbacks && (errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrNoPath))
}
