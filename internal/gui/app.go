package gui

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/engine"
	"github.com/san-kum/rubix/internal/turn"
)

const (
	windowW      = 1280
	windowH      = 720
	telemetryCap = 200
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// App hosts one engine in a raylib window. Cooldown timers run on virtual
// time advanced by the measured frame time, so every timer fires on the
// render goroutine.
type App struct {
	Config    config.Config
	Engine    *engine.Offline
	Surface   *Surface
	Running   bool
	Font      rl.Font
	Telemetry []float64

	log  *slog.Logger
	quit bool
}

// initWindow opens the window at 60 FPS and disables the default exit key.
func initWindow() {
	rl.InitWindow(windowW, windowH, "rubix")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono, falling back to raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp sizes the engine to the window height. It needs an open window.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	c := config.DefaultConfig()
	if cfg != nil {
		c = cfg.Clone()
	}
	c.Size = windowH
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		Config: *c,
		Surface: &Surface{
			Offset:     rl.NewVector2((windowW-windowH)/2, 0),
			Background: ColBg,
		},
		Running:   true,
		Font:      loadFont(),
		Telemetry: make([]float64, 0, telemetryCap),
		log:       logger,
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, logger *slog.Logger) error {
	initWindow()
	defer rl.CloseWindow()
	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() && !a.quit {
		if err := a.Update(); err != nil {
			return err
		}
		if err := a.Draw(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) reset() error {
	if a.Engine != nil {
		a.Engine.Close()
	}
	eng, err := engine.NewOffline(&a.Config, engine.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.Engine = eng
	a.Telemetry = a.Telemetry[:0]
	return nil
}

func (a *App) Close() {
	if a.Engine != nil {
		a.Engine.Close()
	}
}

func (a *App) Update() error {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return nil
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		return a.reset()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		if a.Config.Projection == "perspective" {
			a.Config.Projection = "orthographic"
		} else {
			a.Config.Projection = "perspective"
		}
		return a.reset()
	}
	if a.Running {
		a.Engine.Elapse(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))
	}
	return nil
}

func (a *App) Draw() error {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	var err error
	if a.Running {
		err = a.Engine.AdvanceAndRender(a.Surface)
	} else {
		err = a.Engine.Render(a.Surface)
	}
	if err != nil {
		return err
	}
	a.record()
	a.DrawHUD()
	return nil
}

func (a *App) record() {
	snap := a.Engine.Snapshot()
	v := 0.0
	if snap.State == turn.Turning {
		v = snap.Active.Progress()
	}
	if len(a.Telemetry) == telemetryCap {
		a.Telemetry = append(a.Telemetry[:0], a.Telemetry[1:]...)
	}
	a.Telemetry = append(a.Telemetry, v)
}

func (a *App) DrawHUD() {
	snap := a.Engine.Snapshot()
	a.drawText("rubix", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s / %s", a.Config.Projection, a.Config.Palette), 120, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	move := "idle"
	if snap.State == turn.Turning {
		move = snap.Active.Move.String()
	}
	a.drawText(fmt.Sprintf("TURNS %d", snap.Turns), 30, 80, 16, ColText)
	a.drawText(fmt.Sprintf("MOVE  %s", move), 30, 104, 16, ColText)
	a.drawText(fmt.Sprintf("FACES %d", snap.VisibleFaces), 30, 128, 16, ColText)

	a.DrawTelemetry()

	a.drawText("[SPACE] PAUSE  [R] RESET  [P] PROJECTION  [Q] QUIT", 800, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, 680, 14, ColTextDim)
}

// DrawTelemetry plots recent turn progress as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	rectX, rectY := float32(30), float32(600)
	width, height := float32(300), float32(60)

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, v := range a.Telemetry {
		px := rectX + float32(i)/float32(telemetryCap)*width
		py := rectY + height - float32(v)*height
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText("turn", int(rectX+width+10), int(rectY+height-10), 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
