// Command render draws a mesh through the compute-raster pipeline without a
// window: a single still, or an orbit sequence of frames with manifest.json.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pudnax/compaster/internal/batch"
	"github.com/pudnax/compaster/internal/camera"
	"github.com/pudnax/compaster/internal/config"
	"github.com/pudnax/compaster/internal/export"
	"github.com/pudnax/compaster/internal/model"
	"github.com/pudnax/compaster/internal/postprocess"
	"github.com/pudnax/compaster/internal/raster"
)

// Orbit defaults, shared with the viewer's initial camera.
const (
	defaultZoom  = 1.5
	defaultPitch = 0.5
	defaultYaw   = 1.25
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	modelRef := flag.String("model", "", `Model: "triangle", "cube", or an OBJ path`)
	width := flag.Int("width", 0, "Render width (default: 1280)")
	height := flag.Int("height", 0, "Render height (default: 720)")
	frames := flag.Int("frames", 0, "Orbit frame count (default: 1, a single still)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	workers := flag.Int("workers", 0, "Worker count (default: NumCPU)")
	presentMode := flag.String("present", "", `Present geometry: "triangle" or "quad"`)
	supersample := flag.Int("supersample", 0, "Supersampling factor (default: 1)")
	wireframe := flag.Bool("wireframe", false, "Overlay the cube wireframe")
	capture := flag.Bool("capture", false, "Also write a raw frame capture (.fb)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Width:       *width,
		Height:      *height,
		Workers:     *workers,
		PresentMode: *presentMode,
		Model:       *modelRef,
		OutputDir:   *outputDir,
		Supersample: *supersample,
		Frames:      *frames,
		Wireframe:   *wireframe,
	})

	mode, err := cfg.PresentModeValue()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	vertices, err := model.Load(cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}
	slog.Debug("model loaded", "ref", cfg.Model, "triangles", len(vertices)/3)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Compaster compute-raster renderer\n")
	fmt.Printf("Model: %s (%d triangles), %dx%d, present: %s\n",
		cfg.Model, len(vertices)/3, cfg.Width, cfg.Height, cfg.PresentMode)
	fmt.Printf("Frames: %d, Workers: %d\n", cfg.Frames, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	if cfg.Frames <= 1 {
		if err := renderStill(cfg, mode, vertices, *capture); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Done in %.2fs\n", time.Since(start).Seconds())
		return
	}

	batchCfg := batch.Config{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Supersample:   cfg.Supersample,
		WorkgroupSize: cfg.WorkgroupSize,
		Workers:       cfg.Workers,
		Background:    cfg.BackgroundPixel(),
		PresentMode:   mode,
		OutputDir:     cfg.OutputDir,
		Zoom:          defaultZoom,
		Pitch:         defaultPitch,
		StartYaw:      defaultYaw,
	}
	if cfg.Wireframe {
		batchCfg.Edges = model.CubeEdges()
		batchCfg.EdgeColor = raster.Pixel{R: 1, G: 1, B: 1}
	}

	results := batch.Run(batchCfg, vertices, cfg.Frames)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			slog.Warn("frame failed", "frame", r.Frame, "error", r.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %d/%d frames in %.2fs\n",
		len(results)-failed, len(results), time.Since(start).Seconds())
	if failed > 0 {
		os.Exit(1)
	}
}

func renderStill(cfg config.Config, mode raster.PresentMode, vertices []raster.Vertex, capture bool) error {
	rw := cfg.Width * cfg.Supersample
	rh := cfg.Height * cfg.Supersample

	pipe, err := raster.NewPipeline(raster.Options{
		Width:         rw,
		Height:        rh,
		WorkgroupSize: cfg.WorkgroupSize,
		Workers:       cfg.Workers,
		Background:    cfg.BackgroundPixel(),
		PresentMode:   mode,
	}, vertices)
	if err != nil {
		return err
	}
	if cfg.Wireframe {
		if err := pipe.SetWireframe(model.CubeEdges(), raster.Pixel{R: 1, G: 1, B: 1}); err != nil {
			return err
		}
	}

	cam := camera.New(defaultZoom, defaultPitch, defaultYaw, mgl32.Vec3{}, float32(rw)/float32(rh))
	pipe.SetCamera(cam.Uniform())

	surface := make([]byte, pipe.SurfaceLen())
	if err := pipe.Render(surface); err != nil {
		return err
	}

	img, err := export.Image(pipe.ColorBuffer(), rw, rh)
	if err != nil {
		return err
	}
	img = postprocess.Downsample(img, cfg.Width, cfg.Height)

	out := filepath.Join(cfg.OutputDir, "render.webp")
	if err := export.SaveWebP(img, out); err != nil {
		return err
	}
	fmt.Println("Saved", out)

	if capture {
		capPath := filepath.Join(cfg.OutputDir, "render.fb")
		if err := os.WriteFile(capPath, raster.MarshalFrameCapture(pipe.Bindings()), 0644); err != nil {
			return fmt.Errorf("write capture: %w", err)
		}
		fmt.Println("Saved", capPath)
	}
	return nil
}
