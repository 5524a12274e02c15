package dungeon

// Snapshot is a copy of the tiles taken during generation
type Snapshot struct {
	Label string
	Tiles []TileType
}

// HistoryEnabled reports whether snapshots are being recorded
func (g *Grid) HistoryEnabled() bool {
	return g.historyEnabled
}

// TakeSnapshot appends the current tiles to the history when enabled
func (g *Grid) TakeSnapshot(label string) {
	if !g.historyEnabled {
		return
	}
	tiles := make([]TileType, len(g.Tiles))
	copy(tiles, g.Tiles)
	g.History = append(g.History, Snapshot{Label: label, Tiles: tiles})
}

// AppendHistory copies another grid's snapshots onto this one.
// Used when a post-processor replaces the grid a builder produced.
func (g *Grid) AppendHistory(history []Snapshot) {
	if !g.historyEnabled {
		return
	}
	g.History = append(g.History, history...)
}
