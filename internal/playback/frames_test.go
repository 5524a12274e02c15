package playback

import (
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corridorLevel(history bool) *dungeon.Grid {
	g := dungeon.New(1, dungeon.Options{Width: 12, Height: 5, HistoryEnabled: history})
	g.TakeSnapshot("walls")
	for x := 1; x < 11; x++ {
		g.Set(x, 2, dungeon.Floor)
	}
	g.TakeSnapshot("dig")
	g.PlaceStairs(g.Idx(1, 2), g.Idx(10, 2))
	return g
}

func TestFramesFromHistory(t *testing.T) {
	frames := Frames(corridorLevel(true))
	require.Len(t, frames, 3)

	assert.Equal(t, "walls", frames[0].Label)
	assert.Equal(t, "dig", frames[1].Label)
	assert.Equal(t, "final", frames[2].Label)
	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, 12, f.Width)
		assert.Equal(t, 5, f.Height)
		require.Len(t, f.Rows, 5)
	}

	assert.Equal(t, "############", frames[0].Rows[2])
	assert.Equal(t, "#..........#", frames[1].Rows[2])
	assert.Equal(t, "#<........>#", frames[2].Rows[2])
}

func TestFramesWithoutHistory(t *testing.T) {
	frames := Frames(corridorLevel(false))
	require.Len(t, frames, 1)
	assert.Equal(t, "final", frames[0].Label)
}
