// Command orrery generates the viewer's startup textures, runs a headless
// frame loop over the solar system and writes the results as PNG files.
//
// Usage:
//
//	orrery [-config orrery.toml] [-out out] [-seed N] [-face N] [-frames N] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/gogpu/orrery"
	"github.com/gogpu/orrery/config"
	"github.com/gogpu/orrery/hud"
	"github.com/gogpu/orrery/integration/texupload"
	"github.com/gogpu/orrery/scene"
)

// thumbWidth is the width of the preview written next to each texture.
const thumbWidth = 128

// Size of the headless viewport the HUD is composited onto.
const viewWidth, viewHeight = 640, 360

type flags struct {
	config  string
	out     string
	seed    uint64
	face    int
	width   int
	height  int
	frames  int
	workers int
	verbose bool
	set     map[string]bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.config, "config", "orrery.toml", "settings file (missing file means defaults)")
	flag.StringVar(&f.out, "out", "out", "output directory")
	flag.Uint64Var(&f.seed, "seed", 0, "generation seed")
	flag.IntVar(&f.face, "face", 0, "starfield face size in pixels")
	flag.IntVar(&f.width, "width", 0, "width of every body surface")
	flag.IntVar(&f.height, "height", 0, "height of every body surface")
	flag.IntVar(&f.frames, "frames", 0, "frames to simulate at 60 Hz")
	flag.IntVar(&f.workers, "workers", 0, "generator goroutines (0 = GOMAXPROCS)")
	flag.BoolVar(&f.verbose, "v", false, "debug logging")
	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f
}

// apply overrides cfg with the flags given on the command line.
func (f flags) apply(cfg *config.Config) {
	if f.set["seed"] {
		cfg.Seed = f.seed
	}
	if f.set["face"] {
		cfg.Starfield.FaceSize = f.face
	}
	if f.set["frames"] {
		cfg.Simulation.Frames = f.frames
	}
	if f.set["workers"] {
		cfg.Workers = f.workers
	}
}

func main() {
	f := parseFlags()

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	orrery.SetLogger(logger)

	if err := run(context.Background(), f, logger); err != nil {
		logger.Error("orrery failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, log *slog.Logger) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	sys, err := cfg.System()
	if err != nil {
		return err
	}
	if f.set["width"] || f.set["height"] {
		for i := range sys.Bodies {
			if f.set["width"] {
				sys.Bodies[i].Surface.Width = f.width
			}
			if f.set["height"] {
				sys.Bodies[i].Surface.Height = f.height
			}
		}
	}

	if err := os.MkdirAll(filepath.Join(f.out, "thumbs"), 0o755); err != nil {
		return err
	}

	start := time.Now()
	tex, err := generate(ctx, cfg, sys, f.out)
	if err != nil {
		return err
	}
	log.Info("textures generated",
		"count", len(tex.surfaces)+1,
		"elapsed", time.Since(start).Round(time.Millisecond))

	sw := texupload.NewSoftware(viewWidth, viewHeight)
	if err := tex.upload(sw); err != nil {
		return err
	}

	stats, err := simulate(cfg, sys)
	if err != nil {
		return err
	}
	stats.TextureBytes = sw.Uploaded

	if err := writeHUD(cfg, stats, sw, f.out); err != nil {
		return err
	}

	p := hud.NewPrinter(language.Make(cfg.Simulation.Locale))
	log.Info("done",
		"out", f.out,
		"frames", stats.Frame,
		"uploaded", hud.FormatBytes(p, sw.Uploaded))
	return nil
}

// textures holds everything generated at startup.
type textures struct {
	sky      *orrery.PixelBuffer
	layout   orrery.CubemapLayout
	surfaces []*orrery.PixelBuffer
}

// generate builds the starfield and every body surface concurrently and
// writes them to out. The first failure cancels the rest.
func generate(ctx context.Context, cfg config.Config, sys *scene.System, out string) (*textures, error) {
	opts := cfg.GeneratorOptions()
	seed := orrery.Seed(cfg.Seed)
	t := &textures{surfaces: make([]*orrery.PixelBuffer, len(sys.Bodies))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(func() error {
		buf, layout, err := orrery.GenerateStarfield(seed, cfg.Starfield.FaceSize, opts...)
		if err != nil {
			return fmt.Errorf("starfield: %w", err)
		}
		t.sky, t.layout = buf, layout
		if err := writePNG(filepath.Join(out, "skybox.png"), buf); err != nil {
			return err
		}
		for face := range orrery.Face(orrery.FaceCount) {
			if err := ctx.Err(); err != nil {
				return err
			}
			img := buf.SubImage(layout.FaceRect(face))
			name := "skybox_" + face.Slug() + ".png"
			if err := writePNG(filepath.Join(out, name), img); err != nil {
				return err
			}
			if err := writePNG(filepath.Join(out, "thumbs", name), thumbnail(img, thumbWidth)); err != nil {
				return err
			}
		}
		return nil
	})

	for i := range sys.Bodies {
		body := &sys.Bodies[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := surface(body.SurfaceSeed(seed), body.Surface, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", body.Name, err)
			}
			t.surfaces[i] = buf
			name := body.Name + ".png"
			if err := writePNG(filepath.Join(out, name), buf); err != nil {
				return err
			}
			return writePNG(filepath.Join(out, "thumbs", name), thumbnail(buf, thumbWidth))
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

func surface(seed orrery.Seed, spec scene.SurfaceSpec, opts []orrery.Option) (*orrery.PixelBuffer, error) {
	if !spec.Banded() {
		return orrery.GenerateSolidSurface(spec.Width, spec.Height, spec.Color, opts...)
	}
	pal, err := spec.ResolvePalette()
	if err != nil {
		return nil, err
	}
	opts = append(slices.Clip(opts), spec.Options()...)
	return orrery.GenerateBandedSurface(seed, spec.Width, spec.Height, pal, opts...)
}

// upload hands every texture to the renderer, the way the viewer does at
// startup.
func (t *textures) upload(sw *texupload.Software) error {
	if _, err := texupload.UploadCubemapFaces(sw, t.sky, t.layout); err != nil {
		return err
	}
	for _, buf := range t.surfaces {
		if _, err := texupload.UploadSurface(sw, buf); err != nil {
			return err
		}
	}
	return nil
}

// simulate runs the headless frame loop: a slow scripted orbit around the
// focus body, one camera toggle each way, and a lighting sanity check.
func simulate(cfg config.Config, sys *scene.System) (hud.Stats, error) {
	const dt = 1.0 / 60
	sys.SetTimeScale(cfg.Simulation.TimeScale)

	focus, ok := sys.Index(cfg.Simulation.Focus)
	if !ok {
		return hud.Stats{}, fmt.Errorf("%w: focus %q", scene.ErrUnknownBody, cfg.Simulation.Focus)
	}
	rig := scene.NewRig()
	frames := cfg.Simulation.Frames
	for frame := range frames {
		in := scene.Input{Dragging: true, MouseDelta: mgl64.Vec2{2, 0}}
		if frame == frames/3 || frame == 2*frames/3 {
			in.Pressed = scene.Keys(scene.KeyTab)
		}
		sys.Update(dt)
		if rig.Mode == scene.ModeOrbit {
			rig.Orbit.Target = sys.Position(focus)
		}
		rig.Update(in, dt)
	}
	if err := rig.Focus(sys, focus); err != nil {
		return hud.Stats{}, err
	}

	body := sys.Bodies[focus]
	pos := sys.Position(focus)
	orrery.Logger().Debug("simulation finished",
		"elapsed", sys.Elapsed(),
		"camera", rig.Mode.String(),
		"eye", rig.Position(),
		"projection_m00", rig.Projection(float64(viewWidth)/viewHeight).At(0, 0))

	// The point of the focus body nearest the first light faces it.
	light := sys.Lighting()
	if len(light.Points) > 0 && !body.Emissive {
		toLight := light.Points[0].Position.Sub(pos)
		if toLight.Len() <= body.Radius {
			return hud.Stats{}, fmt.Errorf("%s: light inside the body", body.Name)
		}
		normal := toLight.Normalize()
		lit := light.At(pos.Add(normal.Mul(body.Radius)), normal)
		if !(lit > light.Ambient.Intensity) {
			return hud.Stats{}, fmt.Errorf("%s: day side is unlit", body.Name)
		}
	}

	return hud.Stats{
		Frame:     frames,
		FPS:       1 / dt,
		Bodies:    len(sys.Bodies),
		TimeScale: sys.TimeScale,
		Paused:    sys.Paused,
		Camera:    rig.Mode.String(),
		Focus:     body.Name,
	}, nil
}

// writeHUD renders the overlay, pushes it through the renderer and writes
// both the overlay and the composited frame.
func writeHUD(cfg config.Config, stats hud.Stats, sw *texupload.Software, out string) error {
	h, err := hud.New()
	if err != nil {
		return err
	}
	defer h.Close()

	lines := stats.Lines(hud.NewPrinter(language.Make(cfg.Simulation.Locale)))
	size := h.Size(cfg.Simulation.HUDWidth, lines)
	overlay, err := texupload.NewOverlay(size.X, size.Y)
	if err != nil {
		return err
	}
	defer overlay.Close()

	if err := overlay.Draw(func(img *image.RGBA) { h.Draw(img, lines) }); err != nil {
		return err
	}
	if err := overlay.RenderToEx(sw, texupload.RenderOptions{X: 16, Y: 16}); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(out, "hud.png"), overlay.Image()); err != nil {
		return err
	}
	return writePNG(filepath.Join(out, "frame.png"), sw.Frame)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// thumbnail scales img to width w, keeping the aspect ratio.
func thumbnail(img image.Image, w int) *image.RGBA {
	b := img.Bounds()
	h := max(1, b.Dy()*w/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
