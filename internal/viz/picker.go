package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
)

var presetInfo = map[string]string{
	"sun-earth":    "earth at perihelion",
	"circular":     "unit circular orbit",
	"binary":       "equal-mass pair",
	"figure-eight": "three-body choreography",
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one editable setting on the config screen.
type field struct {
	name string
	get  func(*config.Config) string
	set  func(*config.Config, string) error
	step func(*config.Config, int)
}

var fields = []field{
	{
		name: "integrator",
		get:  func(c *config.Config) string { return c.Integrator },
		set: func(c *config.Config, v string) error {
			if _, err := integrators.Lookup(v); err != nil {
				return err
			}
			c.Integrator = v
			return nil
		},
		step: func(c *config.Config, dir int) {
			names := integrators.Names()
			i := indexOf(names, c.Integrator)
			c.Integrator = names[(i+dir+len(names))%len(names)]
		},
	},
	floatField("dt", func(c *config.Config) *float64 { return &c.Dt }, 2),
	floatField("duration", func(c *config.Config) *float64 { return &c.Duration }, 2),
	floatField("slowdown", func(c *config.Config) *float64 { return &c.Slowdown }, 1.5),
	floatField("fixed_step", func(c *config.Config) *float64 { return &c.FixedStep }, 2),
	floatField("softening", func(c *config.Config) *float64 { return &c.Softening }, 2),
	{
		name: "gradient",
		get:  func(c *config.Config) string { return c.Gradient },
		set: func(c *config.Config, v string) error {
			if indexOf(config.Gradients, v) < 0 {
				return fmt.Errorf("unknown gradient %q", v)
			}
			c.Gradient = v
			return nil
		},
		step: func(c *config.Config, dir int) {
			i := indexOf(config.Gradients, c.Gradient)
			c.Gradient = config.Gradients[(i+dir+len(config.Gradients))%len(config.Gradients)]
		},
	},
}

// floatField scales the value by factor on left/right. A zero value steps
// to a small positive number so it can grow.
func floatField(name string, ptr func(*config.Config) *float64, factor float64) field {
	return field{
		name: name,
		get:  func(c *config.Config) string { return strconv.FormatFloat(*ptr(c), 'g', 6, 64) },
		set: func(c *config.Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			*ptr(c) = f
			return nil
		},
		step: func(c *config.Config, dir int) {
			p := ptr(c)
			switch {
			case *p == 0 && dir > 0:
				*p = 1e-3
			case dir > 0:
				*p *= factor
			case dir < 0:
				*p /= factor
			}
		},
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Picker lets the user choose a preset, tune its settings and then hands
// over to the live Model.
type Picker struct {
	state       int
	cursor      int
	presets     []string
	cfg         *config.Config
	fieldCursor int
	editing     bool
	editBuf     string
	err         error
	live        Model
}

func NewPicker() Picker {
	return Picker{presets: config.ListPresets()}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateSim {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch p.state {
		case stateMenu:
			return p.menuKey(key)
		case stateConfig:
			return p.configKey(key)
		}
	}
	return p, nil
}

func (p Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		p.cfg = config.GetPreset(p.presets[p.cursor])
		p.state, p.fieldCursor, p.err = stateConfig, 0, nil
	}
	return p, nil
}

func (p Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	f := fields[p.fieldCursor]
	if p.editing {
		switch msg.String() {
		case "enter":
			p.err = f.set(p.cfg, strings.TrimSpace(p.editBuf))
			p.editing, p.editBuf = false, ""
		case "esc":
			p.editing, p.editBuf = false, ""
		case "backspace":
			if len(p.editBuf) > 0 {
				p.editBuf = p.editBuf[:len(p.editBuf)-1]
			}
		default:
			if msg.Type == tea.KeyRunes {
				p.editBuf += string(msg.Runes)
			}
		}
		return p, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return p, tea.Quit
	case "q", "esc":
		p.state = stateMenu
	case "up", "k":
		if p.fieldCursor > 0 {
			p.fieldCursor--
		}
	case "down", "j":
		if p.fieldCursor < len(fields)-1 {
			p.fieldCursor++
		}
	case "left", "h":
		f.step(p.cfg, -1)
	case "right", "l":
		f.step(p.cfg, 1)
	case "enter", " ":
		p.editing, p.editBuf = true, f.get(p.cfg)
	case "s":
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (Picker, tea.Cmd) {
	if err := p.cfg.Validate(); err != nil {
		p.err = err
		return p, nil
	}
	live, err := NewModel(p.cfg)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.live, p.state = live, stateSim
	return p, p.live.Init()
}

func (p Picker) View() string {
	switch p.state {
	case stateConfig:
		return p.viewConfig()
	case stateSim:
		return p.live.View()
	}
	return p.viewMenu()
}

func header(title, sub string) string {
	return "\n\n    " + titleStyle.Render(title) + "\n    " + subStyle.Render(sub) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n"
}

func keys(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (p Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("ORBITSIM", "n-body gravity"))
	for i, name := range p.presets {
		desc := presetInfo[name]
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-16s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-16s", name)), idleStyle.Render(desc)))
		}
	}
	b.WriteString(keys("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (p Picker) viewConfig() string {
	var b strings.Builder
	b.WriteString(header(strings.ToUpper(p.cfg.Scenario.Name), presetInfo[p.cfg.Scenario.Name]))
	for i, f := range fields {
		val := f.get(p.cfg)
		if p.editing && i == p.fieldCursor {
			val = p.editBuf + "_"
		}
		if i == p.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", f.name)), descStyle.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", f.name)), idleStyle.Render(val)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(p.err.Error()) + "\n")
	}
	b.WriteString(keys("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

// RunPicker starts the preset picker.
func RunPicker() error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen()).Run()
	return err
}
