package shader

import (
	"embed"
	"fmt"
)

// Names of the WGSL programs shipped with the viewer. Each file holds both the vertex and the
// fragment entry point.
const (
	SourceColorLines = "color_lines.wgsl"
	SourceTextured   = "textured.wgsl"
	SourceSkybox     = "skybox.wgsl"
)

//go:embed assets/*.wgsl
var assets embed.FS

// LoadSource returns the embedded WGSL program with the given file name.
//
// Parameters:
//   - name: one of the Source* constants
//
// Returns:
//   - string: the WGSL source
//   - error: an error if no such program is embedded
func LoadSource(name string) (string, error) {
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		return "", fmt.Errorf("shader: load %s: %w", name, err)
	}
	return string(data), nil
}

// MustLoadSource is LoadSource for programs known at compile time; it panics on error.
func MustLoadSource(name string) string {
	src, err := LoadSource(name)
	if err != nil {
		panic(err)
	}
	return src
}
