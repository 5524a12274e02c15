package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

var (
	colorWall   = color.Style{color.FgGray}
	colorFloor  = color.Style{color.FgCyan}
	colorStairs = color.Style{color.FgYellow, color.OpBold}
	colorTitle  = color.Style{color.FgGreen, color.OpBold}
)

// renderer prints levels as ASCII, optionally colored
type renderer struct {
	w     io.Writer
	color bool
	width int // Terminal columns, 0 when unknown
}

func newRenderer(w io.Writer, mode string) *renderer {
	r := &renderer{w: w}
	fd := int(os.Stdout.Fd())
	isTTY := w == os.Stdout && term.IsTerminal(fd)
	switch mode {
	case "always":
		r.color = true
	case "never":
		r.color = false
	default:
		r.color = isTTY
	}
	if isTTY {
		if cols, _, err := term.GetSize(fd); err == nil {
			r.width = cols
		}
	}
	return r
}

// Level prints a title line, the grid, and a legend
func (r *renderer) Level(g *dungeon.Grid, title string) {
	header := fmt.Sprintf("%s (%dx%d, %d regions, %.0f%% floor)",
		title, g.Width, g.Height, len(g.Regions), g.FloorFraction()*100)
	r.line(r.paint(colorTitle, header))
	r.line(strings.Repeat("=", min(len(header), 60)))

	cols := g.Width
	if r.width > 0 && r.width < cols {
		cols = r.width
	}
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		sb.Reset()
		for x := 0; x < cols; x++ {
			t := g.Classify(x, y)
			sb.WriteString(r.paint(tileStyle(t), string(t.Glyph())))
		}
		r.line(sb.String())
	}
	if cols < g.Width {
		r.line(fmt.Sprintf("(clipped to %d of %d columns)", cols, g.Width))
	}
	r.line("Legend: # wall  . floor  < up stairs  > down stairs")
	r.line("")
}

func (r *renderer) line(s string) {
	fmt.Fprintln(r.w, s)
}

func (r *renderer) paint(style color.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Sprint(s)
}

func tileStyle(t dungeon.TileType) color.Style {
	switch t {
	case dungeon.Floor:
		return colorFloor
	case dungeon.UpStairs, dungeon.DownStairs:
		return colorStairs
	default:
		return colorWall
	}
}
