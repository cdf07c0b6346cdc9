package viz

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/engine"
	"github.com/san-kum/rubix/internal/export"
	"github.com/san-kum/rubix/internal/turn"
)

const (
	DefaultCells    = 60
	historyCapacity = 600
	gifPath         = "rubix.gif"
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Config *config.Config
	// Cells is the canvas width in terminal cells. The height is half of it,
	// which keeps braille dots square.
	Cells  int
	Theme  string
	Logger *slog.Logger
}

// Model drives one engine from Bubble Tea ticks.
type Model struct {
	cfg    config.Config
	log    *slog.Logger
	eng    *engine.Engine
	canvas *Canvas

	theme     int
	running   bool
	showHelp  bool
	recording bool
	frames    []image.Image
	visible   []float64
	lastTick  time.Time
	fps       float64
	status    string
	err       error
}

// NewModel sizes the engine to the canvas and starts it.
func NewModel(opts Options) (Model, error) {
	cfg := config.DefaultConfig()
	if opts.Config != nil {
		cfg = opts.Config.Clone()
	}
	cells := opts.Cells
	if cells <= 0 {
		cells = DefaultCells
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	canvas := NewCanvas(cells, cells/2)
	w, h := canvas.Dots()
	cfg.Size = float64(min(w, h))

	m := Model{
		cfg:     *cfg,
		log:     logger,
		canvas:  canvas,
		theme:   ThemeIndex(opts.Theme),
		running: true,
		visible: make([]float64, 0, historyCapacity),
	}
	if err := m.restart(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) restart() error {
	if m.eng != nil {
		m.eng.Close()
	}
	eng, err := engine.New(&m.cfg, engine.WithLogger(m.log))
	if err != nil {
		return err
	}
	m.eng = eng
	m.visible = m.visible[:0]
	m.canvas.Clear()
	return nil
}

// Close stops the engine. Call it once the program has exited.
func (m Model) Close() {
	if m.eng != nil {
		m.eng.Close()
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys and renders a frame on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.restart()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "p":
			if m.cfg.Projection == "perspective" {
				m.cfg.Projection = "orthographic"
			} else {
				m.cfg.Projection = "perspective"
			}
			m.err = m.restart()
		case "f":
			m.canvas.Solid = !m.canvas.Solid
		case "g":
			if m.recording {
				m.saveGIF()
			} else {
				m.frames = m.frames[:0]
				m.status = "recording"
			}
			m.recording = !m.recording
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastTick = now
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.eng.AdvanceAndRender(m.canvas); err != nil {
		m.err = err
		return
	}
	snap := m.eng.Snapshot()
	if len(m.visible) == historyCapacity {
		m.visible = append(m.visible[:0], m.visible[1:]...)
	}
	m.visible = append(m.visible, float64(snap.VisibleFaces))
	if m.recording && len(m.frames) < historyCapacity {
		m.frames = append(m.frames, m.canvas.Image(3, color.Black))
	}
}

func (m *Model) saveGIF() {
	f, err := os.Create(gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := export.EncodeGIF(f, m.frames, 2, color.Black); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
	m.frames = nil
}

func (m Model) View() string {
	t := Themes[m.theme]
	st := newStyles(t)

	title := GradientText("rubix", t.Primary, t.Secondary)
	canvas := st.panel.Render(m.canvas.Render())
	stats := m.statsView(st, t)
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats)

	hints := st.hint.Render("space pause • r restart • t theme • p projection • f fill • g gif • ? help • q quit")
	if m.showHelp {
		hints = st.panel.Render(strings.TrimSpace(helpText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, hints)
}

func (m Model) statsView(st styles, t Theme) string {
	snap := m.eng.Snapshot()
	row := func(label, value string) string {
		return st.label.Render(label) + st.value.Render(value)
	}

	state := st.running.Render("RUNNING")
	if !m.running {
		state = st.paused.Render("PAUSED")
	}
	if m.recording {
		state += " " + st.recording.Render("● REC")
	}

	move, progress := "-", 0.0
	if snap.State == turn.Turning {
		move = snap.Active.Move.String()
		progress = snap.Active.Progress()
	}

	lines := []string{
		st.title.Render("cube"),
		state,
		"",
		row("frame", fmt.Sprintf("%d", snap.Frame)),
		row("turns", fmt.Sprintf("%d", snap.Turns)),
		row("state", snap.State.String()),
		row("move", move),
		row("angle", ProgressBar(progress, 16, t.Accent)),
		row("yaw", fmt.Sprintf("%.3f", snap.Orientation.RotY)),
		row("faces", fmt.Sprintf("%d", snap.VisibleFaces)),
		row("", lipgloss.NewStyle().Foreground(t.Secondary).Render(Sparkline(m.visible, 16))),
		"",
		row("projection", m.cfg.Projection),
		row("palette", m.cfg.Palette),
		row("theme", t.Name),
		row("fps", fmt.Sprintf("%.0f", m.fps)),
	}
	if m.status != "" {
		lines = append(lines, "", st.hint.Render(m.status))
	}
	if m.err != nil {
		lines = append(lines, "", st.paused.Render(m.err.Error()))
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}

const helpText = `
space  pause or resume the animation
r      restart with a fresh cube
t      cycle panel themes
p      switch between orthographic and perspective
f      draw faces solid or as outlines
g      start or stop GIF recording
q      quit
`

// Run starts the live view and blocks until the user quits.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	return err
}
