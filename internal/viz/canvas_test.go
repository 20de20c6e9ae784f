package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", c.SubWidth(), c.SubHeight())
	}

	c.Set(0, 0)
	c.Set(7, 7)
	if c.Grid[0][0] != blank+0x1 {
		t.Errorf("expected dot 1 in first cell, got %U", c.Grid[0][0])
	}
	if c.Grid[1][3] != blank+0x80 {
		t.Errorf("expected dot 8 in last cell, got %U", c.Grid[1][3])
	}
	if !c.IsSet(0, 0) || !c.IsSet(7, 7) || c.IsSet(1, 0) {
		t.Error("IsSet disagrees with Set")
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 8}} {
		c.Set(p[0], p[1])
		if c.IsSet(p[0], p[1]) {
			t.Errorf("dot %v outside canvas reported set", p)
		}
	}
	if strings.Trim(c.Plain(), string(rune(blank))+"\n") != "" {
		t.Error("out of bounds writes changed the canvas")
	}
}

func TestCanvasFillAndColor(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Fill(3, 5, 1, "#ff0000")
	for y := 4; y <= 6; y++ {
		for x := 2; x <= 4; x++ {
			if !c.IsSet(x, y) {
				t.Errorf("dot (%d,%d) not filled", x, y)
			}
		}
	}
	if c.Colors[1][1] != "#ff0000" {
		t.Errorf("expected cell colour #ff0000, got %q", c.Colors[1][1])
	}

	c.Set(0, 0)
	if c.Colors[0][0] != "" {
		t.Errorf("Set should not colour a cell, got %q", c.Colors[0][0])
	}

	c.Clear()
	if c.IsSet(3, 5) || c.Colors[1][1] != "" {
		t.Error("Clear left dots or colours behind")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 19, 11, "")
	if !c.IsSet(0, 0) || !c.IsSet(19, 11) {
		t.Error("line endpoints not drawn")
	}

	c.Clear()
	c.DrawLine(5, 2, 5, 2, "#00ff00")
	if !c.IsSet(5, 2) {
		t.Error("single point line not drawn")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 1)
	c.SetColor(0, 0, "#00ff00")
	out := c.String()
	if !strings.Contains(out, string(rune(blank+0x1))) {
		t.Errorf("coloured cell missing from %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected one line, got %q", out)
	}
	if got := c.Plain(); got != string([]rune{blank + 0x1, blank, blank})+"\n" {
		t.Errorf("unexpected plain render %q", got)
	}
}

func TestCanvasImage(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetColor(0, 0, "#ffffff")
	img := c.Image()
	b := img.Bounds()
	if b.Dx() != 2*cellW || b.Dy() != cellH {
		t.Fatalf("unexpected bounds %v", b)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r == 0 {
		t.Error("lit dot rendered black")
	}
	if r, _, _, _ := img.At(cellW, 0).RGBA(); r != 0 {
		t.Error("blank cell rendered lit")
	}
}
