package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	cellW = 8
	cellH = 16
)

// Image rasterises the canvas, one cellW x cellH block per braille cell.
// Uncoloured dots are drawn white.
func (c *Canvas) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), palette.WebSafe)
	dotW, dotH := cellW/2, cellH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.Grid[row][col] == blank {
				continue
			}
			fg := cellColor(c.Colors[row][col])
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !c.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					x0, y0 := col*cellW+dx*dotW, row*cellH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.Set(x0+px, y0+py, fg)
						}
					}
				}
			}
		}
	}
	return img
}

func cellColor(hex string) color.Color {
	if hex == "" {
		return color.White
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	return c
}

// WriteGIF encodes frames as a looping animation at 50 fps.
func WriteGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: create %s: %w", path, err)
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return fmt.Errorf("viz: encode %s: %w", path, err)
	}
	return f.Close()
}

func (m *Model) saveGIF() error {
	return WriteGIF(m.gifPath, m.frames)
}
