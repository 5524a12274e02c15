package wfc

import "github.com/lawnchairsociety/dungeongen/internal/dungeon"

// Chunk is a pattern plus, for each side, the patterns allowed beside it
type Chunk struct {
	Pattern

	// Compatible is indexed by Direction and holds pattern ids in ascending order
	Compatible [4][]int
}

// CanConnect reports whether pattern id may sit on side d of this chunk
func (c Chunk) CanConnect(d Direction, id int) bool {
	for _, other := range c.Compatible[d] {
		if other == id {
			return true
		}
	}
	return false
}

// BuildConstraints pairs every pattern with every other pattern on every side.
// Two patterns fit on a side when this pattern's edge equals the other's
// opposite edge tile for tile.
func BuildConstraints(patterns []Pattern) []Chunk {
	edges := make([][4][]dungeon.TileType, len(patterns))
	for i, p := range patterns {
		for _, d := range AllDirections() {
			edges[i][d] = p.Edge(d)
		}
	}

	chunks := make([]Chunk, len(patterns))
	for i, p := range patterns {
		chunks[i].Pattern = p
		for _, d := range AllDirections() {
			for j := range patterns {
				if edgesMatch(edges[i][d], edges[j][d.Opposite()]) {
					chunks[i].Compatible[d] = append(chunks[i].Compatible[d], j)
				}
			}
		}
	}
	return chunks
}
