package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameInterval   = time.Second / 60
	slowdownFactor  = 1.5
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a Scene from wall-clock frames and draws it to the terminal.
type Model struct {
	cfg    *config.Config
	scene  *scene.Scene
	clock  *scene.Clock
	screen *Screen
	camera *Camera
	theme  Theme
	styles styles

	energy   *metrics.EnergyDrift
	momentum *metrics.MomentumDrift

	running         bool
	last            time.Time
	lastSteps       int
	energyHistory   []float64
	momentumHistory []float64
	err             error
	showHelp        bool

	recording bool
	frames    []*image.Paletted
	gifPath   string
}

// NewModel builds the scene described by cfg. The configuration is copied;
// reset rebuilds from that copy.
func NewModel(cfg *config.Config) (Model, error) {
	c := *cfg
	c.Scenario = cfg.Scenario.Clone()

	m := Model{
		cfg:             &c,
		theme:           GetTheme(c.Theme),
		running:         true,
		energyHistory:   make([]float64, 0, historyCapacity),
		momentumHistory: make([]float64, 0, historyCapacity),
		gifPath:         "orbitsim.gif",
	}
	m.styles = m.theme.styles()
	if err := m.build(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// WithGIFPath sets where a finished recording is written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

func (m *Model) build() error {
	s, err := sim.FromConfig(m.cfg)
	if err != nil {
		return err
	}
	grad, err := scene.GradientByName(m.cfg.Gradient)
	if err != nil {
		return err
	}

	m.scene = scene.New(s, scene.WithGradient(grad), scene.WithSpeedScale(m.cfg.SpeedScale))
	m.clock = scene.NewClock(m.cfg.Slowdown, m.cfg.FixedStep, m.cfg.MaxSubsteps)
	m.camera = FitCamera(s.System())
	m.screen = NewScreen(width, height, m.camera)
	m.screen.TrailColor = m.theme.Trail

	m.energy = metrics.NewEnergyDrift()
	m.momentum = metrics.NewMomentumDrift()
	m.observe()
	m.energyHistory = m.energyHistory[:0]
	m.momentumHistory = m.momentumHistory[:0]
	m.err = nil
	m.last = time.Time{}
	m.lastSteps = 0
	return m.render()
}

// FitCamera centres a camera on the centre of mass with every body in view.
func FitCamera(sys *physics.System) *Camera {
	cam := NewCamera(extent(sys))
	cam.Center = sys.CenterOfMass()
	return cam
}

// extent is the largest body distance from the centre of mass, padded.
func extent(sys *physics.System) float64 {
	com := sys.CenterOfMass()
	ext := 0.0
	for _, b := range sys.Bodies() {
		ext = math.Max(ext, r3.Norm(r3.Sub(b.Position(), com)))
	}
	return ext * 1.2
}

func (m *Model) observe() {
	sys := m.scene.Sim().System()
	m.energy.Observe(sys, m.scene.Sim().Time())
	m.momentum.Observe(sys, m.scene.Sim().Time())
}

func (m *Model) render() error {
	m.screen.Begin()
	return m.scene.Render(m.screen)
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the simulation by the wall time
// since the previous frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.err = m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.last = time.Time{}
		case "r":
			if err := m.build(); err != nil {
				m.err = err
			}
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "[":
			m.clock.Slowdown *= slowdownFactor
		case "]":
			m.clock.Slowdown = math.Max(1, m.clock.Slowdown/slowdownFactor)
		case "c":
			m.screen.Trails = !m.screen.Trails
			m.screen.ClearTrails()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = m.theme.styles()
			m.screen.TrailColor = m.theme.Trail
		case "g":
			if m.recording {
				m.err = m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		if err := m.render(); err != nil {
			m.err = err
		}
	case TickMsg:
		m.advance(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

// advance runs the simulation for the wall time since the previous tick.
// The first tick after start, reset or unpause only records the time.
func (m *Model) advance(now time.Time) {
	if m.running && !m.last.IsZero() {
		_, _, steps := m.scene.Tick(m.clock, now.Sub(m.last))
		m.lastSteps = steps
		if steps > 0 {
			m.observe()
			m.energyHistory = push(m.energyHistory, m.energy.Current())
			m.momentumHistory = push(m.momentumHistory, m.momentum.Value())
		}
		if !m.scene.Sim().System().Valid() {
			m.err = sim.ErrInvalidState
			m.running = false
		}
	}
	if m.running {
		m.last = now
	}
	if err := m.render(); err != nil {
		m.err = err
	}
	if m.recording {
		m.frames = append(m.frames, m.screen.Canvas.Image())
	}
}

func push(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// View renders the canvas and the stats panel.
func (m Model) View() string {
	st := m.styles
	canvasView := st.canvas.Render(m.screen.Canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.cfg.Scenario.Name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.err.Render("ERROR: "+m.err.Error()) + "\n\n")
	case m.recording:
		s.WriteString(st.err.Render(fmt.Sprintf("● REC %d", len(m.frames))) + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	sm := m.scene.Sim()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Bodies", fmt.Sprintf("%d", sm.System().Len()))
	row("Integrator", m.cfg.Integrator)
	row("Time", fmt.Sprintf("%.4f", sm.Time()))
	row("Steps", fmt.Sprintf("%d (+%d)", sm.Steps(), m.lastSteps))
	row("Energy", fmt.Sprintf("%.6e", m.energy.Current()))
	row("dE/E", fmt.Sprintf("%.3e", m.energy.Value()))
	row("|dP|", fmt.Sprintf("%.3e", m.momentum.Value()))
	row("Slowdown", fmt.Sprintf("%.1fx", m.clock.Slowdown))
	if m.clock.FixedStep > 0 {
		row("Dropped", fmt.Sprintf("%.4f", m.clock.Dropped()))
	}
	row("Theme", m.theme.Name)

	s.WriteString("\n" + st.label.Render("Momentum") + "\n")
	s.WriteString(st.Sparkline(m.momentumHistory, 30) + "\n")
	s.WriteString("\n" + st.Separator(30) + "\n")
	s.WriteString(st.help.Render("SP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\n[ ]:Speed +-:Zoom XY:Tilt"))

	statsView := st.panel.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  x X y Y  - Tilt the view            ║
║  [        - Slow down                ║
║  ]        - Speed up                 ║
║  C        - Toggle trails            ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view for cfg.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
