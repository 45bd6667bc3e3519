package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/loaders"
	"github.com/df07/obscura/pkg/renderer"
	"github.com/df07/obscura/pkg/scene"
	"github.com/google/uuid"
)

// options holds the command line settings for one render
type options struct {
	Scene     string
	OutputDir string // Empty means output/<scene>
	Width     int
	Height    int
	Samples   int
	Depth     int
	FOV       float64
	Seed      int64
	Workers   int
	Preview   bool
	Heatmap   bool
}

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene: built-in name, 'file:<name>' or path to a .scene file")
	width := flag.Int("width", 0, "Image width (0 keeps the scene's value)")
	height := flag.Int("height", 0, "Image height (0 keeps the scene's value)")
	samples := flag.Int("samples", 0, "Samples per pixel (0 keeps the scene's value)")
	depth := flag.Int("depth", 0, "Maximum bounces (0 keeps the scene's value)")
	fov := flag.Float64("fov", 0, "Horizontal field of view in degrees (0 keeps the scene's value)")
	seed := flag.Int64("seed", renderer.DefaultCaptureConfig().Seed, "Seed for the per-tile samplers")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	preview := flag.Bool("preview", false, "Flat shaded preview instead of a full capture")
	heatmap := flag.Bool("heatmap", false, "Also save a heatmap of per-pixel render times")
	outDir := flag.String("out", "", "Output directory (default output/<scene>)")
	listScenes := flag.Bool("list", false, "List available scenes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		showHelp()
		return
	}

	if *listScenes {
		if err := printScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := options{
		Scene:     *sceneType,
		OutputDir: *outDir,
		Width:     *width,
		Height:    *height,
		Samples:   *samples,
		Depth:     *depth,
		FOV:       *fov,
		Seed:      *seed,
		Workers:   *workers,
		Preview:   *preview,
		Heatmap:   *heatmap,
	}

	// Stop the capture cleanly on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Starting Obscura...")

	files, err := run(ctx, opts, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, filename := range files {
		fmt.Printf("Render saved as %s\n", filename)
	}
}

func showHelp() {
	fmt.Println("Obscura Path Tracer")
	fmt.Println("Usage: obscura [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	if err := printScenes(); err != nil {
		fmt.Printf("  (error listing scenes: %v)\n", err)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>_<id>.png")
}

func printScenes() error {
	response, err := scene.ListAllScenes(scene.FindScenesDir())
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("  %s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("    %-16s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

// run renders one scene and returns the files it wrote
func run(ctx context.Context, opts options, logger core.Logger) ([]string, error) {
	timer := renderer.NewGridTimer(logger)

	if err := timer.EventStart("Load Scene"); err != nil {
		return nil, err
	}
	selectedScene, err := createScene(opts.Scene, renderer.CameraConfig{
		Width:   opts.Width,
		Height:  opts.Height,
		Samples: opts.Samples,
		Depth:   opts.Depth,
		FOV:     opts.FOV,
	})
	if err != nil {
		return nil, err
	}
	if err := timer.EventStop("Load Scene"); err != nil {
		return nil, err
	}

	camera, err := renderer.NewCamera(selectedScene.CameraConfig)
	if err != nil {
		return nil, fmt.Errorf("camera for scene %q: %w", opts.Scene, err)
	}
	camera.SetLogger(logger)
	camera.SetHooks(timer.Hooks())
	camera.SetCaptureConfig(renderer.CaptureConfig{
		TileSize:   renderer.DefaultCaptureConfig().TileSize,
		NumWorkers: opts.Workers,
		Seed:       opts.Seed,
	})

	logger.Printf("Rendering %d surfaces at %dx%d\n", len(selectedScene.Surfaces), camera.Width(), camera.Height())

	eventName := "Capture Scene"
	develop := camera.Capture
	if opts.Preview {
		eventName = "Preview Scene"
		develop = camera.Preview
	}

	film, stats, err := develop(ctx, selectedScene)
	if err != nil {
		return nil, err
	}
	logger.Printf("Samples per pixel: %.1f over %d tiles\n", stats.AverageSamples, stats.TilesRendered)
	if speedup, err := timer.Speedup(eventName); err == nil {
		logger.Printf("Parallel speedup: %.2fx on %d workers\n", speedup, stats.NumWorkers)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = createOutputDir(opts.Scene)
	}

	// Timestamp plus a short run ID keeps parallel runs from colliding
	runID := strings.SplitN(uuid.NewString(), "-", 2)[0]
	stamp := time.Now().Format("20060102_150405") + "_" + runID

	if err := timer.EventStart("Save Image"); err != nil {
		return nil, err
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", stamp))
	if err := loaders.SavePNG(filename, film.Image()); err != nil {
		return nil, err
	}
	files := []string{filename}

	if opts.Heatmap {
		heatmap, err := timer.Heatmap()
		if err != nil {
			return nil, err
		}
		heatmapName := filepath.Join(outputDir, fmt.Sprintf("heatmap_%s.png", stamp))
		if err := loaders.SavePNG(heatmapName, heatmap); err != nil {
			return nil, err
		}
		files = append(files, heatmapName)
	}

	if err := timer.EventStop("Save Image"); err != nil {
		return nil, err
	}

	return files, nil
}

// createScene creates a scene based on the scene type. Scene types are
// built-in names, "file:<name>" or a path to a .scene file.
func createScene(sceneType string, overrides renderer.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("scene name must not be empty")
	}
	return scene.Create(sceneType, scene.FindScenesDir(), overrides)
}

// createOutputDir returns output/<name> for a scene type, using the file name
// for scene files
func createOutputDir(sceneType string) string {
	name := strings.TrimPrefix(sceneType, "file:")
	if strings.HasSuffix(name, ".scene") {
		name = strings.TrimSuffix(filepath.Base(name), ".scene")
	}
	if name == "" {
		name = "scene"
	}
	return filepath.Join("output", name)
}
