// Command viewer displays the compute-raster pipeline in a window with an
// orbit camera: drag to rotate, scroll to zoom, F2 saves a screenshot, F3 a
// raw frame capture, Escape quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pudnax/compaster/internal/camera"
	"github.com/pudnax/compaster/internal/config"
	"github.com/pudnax/compaster/internal/export"
	"github.com/pudnax/compaster/internal/model"
	"github.com/pudnax/compaster/internal/raster"
)

const (
	rotateSpeed = 0.0025
	zoomSpeed   = 0.1
)

type game struct {
	pipe *raster.Pipeline
	cam  *camera.Camera

	width, height int
	surface       []byte
	img           *ebiten.Image

	dragging     bool
	lastX, lastY int

	frameCount int
	accum      time.Duration
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	cx, cy := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.cam.AddYaw(-float32(cx-g.lastX) * rotateSpeed)
			g.cam.AddPitch(float32(cy-g.lastY) * rotateSpeed)
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = cx, cy

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.AddZoom(-float32(wy) * zoomSpeed)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.screenshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.capture()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frameStart := time.Now()

	g.pipe.SetCamera(g.cam.Uniform())
	if err := g.pipe.Render(g.surface); err != nil {
		// Validation cannot fail here once Layout has resized all three
		// buffers together; log and keep the previous frame.
		slog.Error("render", "error", err)
		return
	}
	g.img.WritePixels(g.surface)
	screen.DrawImage(g.img, nil)

	g.accum += time.Since(frameStart)
	g.frameCount++
	if g.frameCount == 100 {
		slog.Info("frame time", "avg", g.accum/time.Duration(g.frameCount))
		g.accum = 0
		g.frameCount = 0
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

func (g *game) resize(w, h int) {
	if err := g.pipe.Resize(w, h); err != nil {
		slog.Error("resize", "error", err)
		return
	}
	g.width, g.height = w, h
	g.surface = make([]byte, g.pipe.SurfaceLen())
	if g.img != nil {
		g.img.Deallocate()
	}
	g.img = ebiten.NewImage(w, h)
	g.cam.SetAspect(float32(w) / float32(h))
}

func (g *game) screenshot() {
	img, err := export.Image(g.pipe.ColorBuffer(), g.width, g.height)
	if err != nil {
		slog.Error("screenshot", "error", err)
		return
	}
	name := fmt.Sprintf("screenshot-%d.webp", time.Now().Unix())
	if err := export.SaveWebP(img, name); err != nil {
		slog.Error("screenshot", "error", err)
		return
	}
	slog.Info("saved screenshot", "file", name)
}

func (g *game) capture() {
	name := fmt.Sprintf("capture-%d.fb", time.Now().Unix())
	if err := os.WriteFile(name, raster.MarshalFrameCapture(g.pipe.Bindings()), 0644); err != nil {
		slog.Error("capture", "error", err)
		return
	}
	slog.Info("saved frame capture", "file", name)
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	modelRef := flag.String("model", "", `Model: "triangle", "cube", or an OBJ path`)
	width := flag.Int("width", 0, "Window width (default: 1280)")
	height := flag.Int("height", 0, "Window height (default: 720)")
	workers := flag.Int("workers", 0, "Worker count (default: NumCPU)")
	presentMode := flag.String("present", "", `Present geometry: "triangle" or "quad"`)
	wireframe := flag.Bool("wireframe", false, "Overlay the cube wireframe")
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

	pipe, err := raster.NewPipeline(raster.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		WorkgroupSize: cfg.WorkgroupSize,
		Workers:       cfg.Workers,
		Background:    cfg.BackgroundPixel(),
		PresentMode:   mode,
	}, vertices)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if cfg.Wireframe {
		if err := pipe.SetWireframe(model.CubeEdges(), raster.Pixel{R: 1, G: 1, B: 1}); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	g := &game{
		pipe:   pipe,
		cam:    camera.New(1.5, 0.5, 1.25, mgl32.Vec3{}, float32(cfg.Width)/float32(cfg.Height)),
		width:  cfg.Width,
		height: cfg.Height,
	}
	g.surface = make([]byte, pipe.SurfaceLen())
	g.img = ebiten.NewImage(cfg.Width, cfg.Height)

	slog.Info("starting viewer",
		"model", cfg.Model,
		"triangles", len(vertices)/3,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"present", cfg.PresentMode)

	ebiten.SetWindowTitle("Compaster")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
