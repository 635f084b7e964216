package loader

import "log/slog"

// LoaderBuilderOption is a functional option used to configure a Loader during construction.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the number of decode workers. Values below 1 are ignored.
//
// Parameters:
//   - n: the maximum number of concurrent decodes
//
// Returns:
//   - LoaderBuilderOption: a function that sets the worker count
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the logger used for fallback warnings.
//
// Parameters:
//   - logger: the logger, ignored when nil
//
// Returns:
//   - LoaderBuilderOption: a function that sets the logger
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFallbacks enables or disables procedural replacements for missing files.
//
// Parameters:
//   - enabled: false makes missing files an error
//
// Returns:
//   - LoaderBuilderOption: a function that sets the fallback mode
func WithFallbacks(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.fallbacks = enabled
	}
}

// WithFallbackSize sets the edge length of procedural textures.
//
// Parameters:
//   - size: edge length in pixels, ignored when 0
//
// Returns:
//   - LoaderBuilderOption: a function that sets the size
func WithFallbackSize(size uint32) LoaderBuilderOption {
	return func(l *loader) {
		if size > 0 {
			l.fallbackSize = size
		}
	}
}
