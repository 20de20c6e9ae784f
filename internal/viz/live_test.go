package viz

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func newModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := newModel(t)
	if m.scene.Sim().System().Len() != 2 {
		t.Errorf("expected 2 bodies, got %d", m.scene.Sim().System().Len())
	}
	if m.clock.Slowdown != config.DefaultSlowdown {
		t.Errorf("expected slowdown %g, got %g", config.DefaultSlowdown, m.clock.Slowdown)
	}
	if m.theme.Name != config.DefaultTheme {
		t.Errorf("expected theme %s, got %s", config.DefaultTheme, m.theme.Name)
	}
	if !strings.Contains(m.View(), "SUN-EARTH") {
		t.Error("view missing scenario header")
	}
}

func TestNewModelInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrator = "rk45"
	if _, err := NewModel(cfg); !errors.Is(err, integrators.ErrUnknownStepper) {
		t.Errorf("expected ErrUnknownStepper, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Gradient = "jet"
	if _, err := NewModel(cfg); err == nil {
		t.Error("expected error for unknown gradient")
	}
}

func TestModelTick(t *testing.T) {
	m := newModel(t)
	start := time.Unix(0, 0)

	m = update(t, m, TickMsg(start))
	if m.scene.Sim().Steps() != 0 {
		t.Fatal("first tick should only record the frame time")
	}

	m = update(t, m, TickMsg(start.Add(120*time.Millisecond)))
	if m.scene.Sim().Steps() != 1 {
		t.Fatalf("expected one step, got %d", m.scene.Sim().Steps())
	}
	if got := m.scene.Sim().Time(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("expected 120ms / 12 = 0.01, got %g", got)
	}
	if len(m.energyHistory) != 1 || len(m.momentumHistory) != 1 {
		t.Errorf("expected one history sample, got %d/%d", len(m.energyHistory), len(m.momentumHistory))
	}
}

func TestModelPause(t *testing.T) {
	m := newModel(t)
	start := time.Unix(0, 0)
	m = update(t, m, TickMsg(start))
	m = update(t, m, key(" "))
	if m.running {
		t.Fatal("space should pause")
	}

	m = update(t, m, TickMsg(start.Add(time.Second)))
	if m.scene.Sim().Steps() != 0 {
		t.Error("paused model stepped")
	}

	// resuming must not replay the paused wall time
	m = update(t, m, key(" "))
	m = update(t, m, TickMsg(start.Add(2*time.Second)))
	m = update(t, m, TickMsg(start.Add(2*time.Second+12*time.Millisecond)))
	if got := m.scene.Sim().Time(); math.Abs(got-0.001) > 1e-12 {
		t.Errorf("expected 0.001 after resume, got %g", got)
	}
}

func TestModelReset(t *testing.T) {
	m := newModel(t)
	start := time.Unix(0, 0)
	m = update(t, m, TickMsg(start))
	m = update(t, m, TickMsg(start.Add(60*time.Millisecond)))
	if m.scene.Sim().Steps() == 0 {
		t.Fatal("expected a step before reset")
	}

	m = update(t, m, key("r"))
	if m.scene.Sim().Steps() != 0 || m.scene.Sim().Time() != 0 {
		t.Error("reset did not rebuild the simulation")
	}
	if len(m.energyHistory) != 0 {
		t.Error("reset kept energy history")
	}
}

func TestModelKeys(t *testing.T) {
	m := newModel(t)

	m = update(t, m, key("["))
	if m.clock.Slowdown != config.DefaultSlowdown*slowdownFactor {
		t.Errorf("[ should slow down, got %g", m.clock.Slowdown)
	}
	for i := 0; i < 20; i++ {
		m = update(t, m, key("]"))
	}
	if m.clock.Slowdown != 1 {
		t.Errorf("] should floor slowdown at 1, got %g", m.clock.Slowdown)
	}

	m = update(t, m, key("t"))
	if m.theme.Name != "retro" || m.screen.TrailColor != ThemeRetroGreen.Trail {
		t.Errorf("expected retro theme, got %s", m.theme.Name)
	}

	zoom := m.camera.Zoom
	m = update(t, m, key("+"))
	if m.camera.Zoom <= zoom {
		t.Error("+ should zoom in")
	}

	m = update(t, m, key("c"))
	if m.screen.Trails {
		t.Error("c should toggle trails off")
	}

	m = update(t, m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestModelRecordGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.gif")
	m := newModel(t).WithGIFPath(path)
	start := time.Unix(0, 0)

	m = update(t, m, key("g"))
	m = update(t, m, TickMsg(start))
	m = update(t, m, TickMsg(start.Add(frameInterval)))
	if len(m.frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(m.frames))
	}
	m = update(t, m, key("g"))
	if m.err != nil {
		t.Fatal(m.err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("gif not written: %v", err)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("sunset").Name; got != "cyberpunk" {
		t.Errorf("expected wrap to cyberpunk, got %s", got)
	}
	if got := GetTheme("nope").Name; got != "cyberpunk" {
		t.Errorf("expected fallback cyberpunk, got %s", got)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func TestPicker(t *testing.T) {
	p := NewPicker()
	step := func(msg tea.Msg) {
		next, _ := p.Update(msg)
		p = next.(Picker)
	}

	step(key("j"))
	step(key("enter"))
	if p.state != stateConfig || p.cfg.Scenario.Name != config.ListPresets()[1] {
		t.Fatalf("expected config screen for %s", config.ListPresets()[1])
	}

	step(key("l"))
	names := integrators.Names()
	if p.cfg.Integrator == config.GetPreset(p.cfg.Scenario.Name).Integrator && len(names) > 1 {
		t.Error("l should cycle the integrator")
	}

	step(key("j"))
	step(key("enter"))
	p.editBuf = ""
	for _, r := range "0.002" {
		step(key(string(r)))
	}
	step(key("enter"))
	if p.cfg.Dt != 0.002 || p.err != nil {
		t.Errorf("expected dt 0.002, got %g (%v)", p.cfg.Dt, p.err)
	}

	step(key("s"))
	if p.state != stateSim {
		t.Fatalf("expected live view, got state %d (%v)", p.state, p.err)
	}
	if !strings.Contains(p.View(), strings.ToUpper(p.cfg.Scenario.Name)) {
		t.Error("live view not rendered")
	}
}
