// Package playback replays the generation history of a level, either in a
// terminal or streamed to a browser over WebSocket.
package playback

import (
	"strings"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

// Frame is one rendered step of a level's generation
type Frame struct {
	Index  int      `json:"index"`
	Label  string   `json:"label"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
}

// Frames turns the grid's history into frames and ends with the finished level.
// A grid without history yields just the final frame.
func Frames(g *dungeon.Grid) []Frame {
	frames := make([]Frame, 0, len(g.History)+1)
	for _, snap := range g.History {
		frames = append(frames, newFrame(len(frames), snap.Label, g.Width, g.Height, snap.Tiles))
	}
	return append(frames, newFrame(len(frames), "final", g.Width, g.Height, g.Tiles))
}

func newFrame(index int, label string, width, height int, tiles []dungeon.TileType) Frame {
	f := Frame{Index: index, Label: label, Width: width, Height: height, Rows: make([]string, 0, height)}
	var sb strings.Builder
	for y := 0; y < height; y++ {
		sb.Reset()
		for x := 0; x < width; x++ {
			i := y*width + x
			t := dungeon.Wall
			if i < len(tiles) {
				t = tiles[i]
			}
			sb.WriteRune(t.Glyph())
		}
		f.Rows = append(f.Rows, sb.String())
	}
	return f
}
