// Package batch renders orbit sequences: N frames of the same mesh with the
// camera yawed around the target, written as WebP files through a worker
// pool.
package batch

import (
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pudnax/compaster/internal/camera"
	"github.com/pudnax/compaster/internal/export"
	"github.com/pudnax/compaster/internal/postprocess"
	"github.com/pudnax/compaster/internal/raster"
)

// Config holds all shared resources for a sequence run.
type Config struct {
	Width       int
	Height      int
	Supersample int

	WorkgroupSize int
	Workers       int

	Background  raster.Pixel
	PresentMode raster.PresentMode

	// Edges enables the wireframe overlay when non-empty.
	Edges     []raster.Vertex
	EdgeColor raster.Pixel

	OutputDir string

	// Orbit parameters: fixed zoom and pitch, yaw swept from StartYaw over
	// a full turn across the sequence.
	Zoom     float32
	Pitch    float32
	StartYaw float32
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   int
	Yaw     float64
	File    string
	Success bool
	Error   string
}

// Run renders all frames using a worker pool. Parallelism is across frames
// here; each worker owns one pipeline whose kernels run single-worker.
func Run(cfg Config, vertices []raster.Vertex, frames int) []Result {
	results := make([]Result, frames)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, frames, rate)
				}
			}
		}
	}()

	frameCh := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(cfg, vertices, frames, frameCh, results, &processed)
		}()
	}

	for i := 0; i < frames; i++ {
		frameCh <- i
	}
	close(frameCh)

	wg.Wait()
	close(done)

	return results
}

func worker(cfg Config, vertices []raster.Vertex, frames int, frameCh <-chan int, results []Result, processed *atomic.Int64) {
	rw := cfg.Width * cfg.Supersample
	rh := cfg.Height * cfg.Supersample

	pipe, err := raster.NewPipeline(raster.Options{
		Width:         rw,
		Height:        rh,
		WorkgroupSize: cfg.WorkgroupSize,
		Workers:       1,
		Background:    cfg.Background,
		PresentMode:   cfg.PresentMode,
	}, vertices)
	if err == nil && len(cfg.Edges) > 0 {
		err = pipe.SetWireframe(cfg.Edges, cfg.EdgeColor)
	}
	if err != nil {
		for idx := range frameCh {
			results[idx] = Result{Frame: idx, Error: err.Error()}
			processed.Add(1)
		}
		return
	}

	cam := camera.New(cfg.Zoom, cfg.Pitch, cfg.StartYaw, mgl32.Vec3{}, float32(rw)/float32(rh))
	surface := make([]byte, pipe.SurfaceLen())

	for idx := range frameCh {
		results[idx] = renderFrame(cfg, pipe, cam, surface, idx, frames)
		processed.Add(1)
	}
}

func renderFrame(cfg Config, pipe *raster.Pipeline, cam *camera.Camera, surface []byte, idx, frames int) Result {
	yaw := float64(cfg.StartYaw) + 2*math.Pi*float64(idx)/float64(frames)
	cam.SetYaw(float32(yaw))
	pipe.SetCamera(cam.Uniform())

	res := Result{Frame: idx, Yaw: yaw}
	if err := pipe.Render(surface); err != nil {
		res.Error = err.Error()
		return res
	}

	rw, rh := pipe.Size()
	img, err := export.Image(pipe.ColorBuffer(), rw, rh)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	img = postprocess.Downsample(img, cfg.Width, cfg.Height)

	res.File = fmt.Sprintf("frame-%04d.webp", idx)
	if err := export.SaveWebP(img, filepath.Join(cfg.OutputDir, res.File)); err != nil {
		res.File = ""
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}
