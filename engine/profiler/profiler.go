package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one measurement window.
type Stats struct {
	FPS            float64
	HeapMB         float64
	AllocRateMBps  float64
	SysMB          float64
	GCCount        uint32
	LastGCPauseUs  uint64
	MaxGCPauseUs   uint64
	WindowDuration time.Duration
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// The frame rate is always measured; stats are written to the logger only when logging is
// enabled.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	logger  *slog.Logger
	logging bool
	last    Stats
}

// ProfilerOption is a functional option used to configure a Profiler during construction.
type ProfilerOption func(*Profiler)

// WithInterval sets the measurement window. Defaults to 1 second.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger and turns on per-window stats logging.
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
			p.logging = true
		}
	}
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - options: functional options configuring interval and logging
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		logger:         slog.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per frame to track frame timing.
//
// Returns:
//   - bool: true if a measurement window closed this tick
func (p *Profiler) Tick() bool {
	return p.TickAt(time.Now())
}

// TickAt is Tick with an explicit clock reading.
//
// Parameters:
//   - now: the time of this frame
//
// Returns:
//   - bool: true if a measurement window closed this tick
func (p *Profiler) TickAt(now time.Time) bool {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		FPS:            float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:          float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMBps:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:        p.memStats.NumGC,
		WindowDuration: elapsed,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	if gcCount > 0 {
		stats.LastGCPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxGCPauseUs = max(stats.MaxGCPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	if p.logging {
		p.logger.Info("profiler",
			"fps", stats.FPS,
			"heap_mb", stats.HeapMB,
			"alloc_rate_mbps", stats.AllocRateMBps,
			"gc_count", stats.GCCount,
			"gc_last_pause_us", stats.LastGCPauseUs,
			"gc_max_pause_us", stats.MaxGCPauseUs,
			"sys_mb", stats.SysMB,
		)
	}

	p.last = stats
	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FPS returns the frame rate of the last closed window, 0 before the first one.
func (p *Profiler) FPS() float64 {
	return p.last.FPS
}

// Last returns the stats of the last closed window.
func (p *Profiler) Last() Stats {
	return p.last
}
