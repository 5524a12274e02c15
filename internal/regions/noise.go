package regions

import (
	"math"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

const (
	DefaultFrequency = 0.08
	valueScale       = 10240.0
	jitter           = 0.45
)

// Noise partitions organic levels with cellular (Worley) noise. Every floor
// cell is assigned to the feature point nearest to it by Manhattan distance,
// keyed by that feature's value, so regions are irregular blobs.
type Noise struct {
	Seed      int64
	Frequency float64
}

// NewNoise returns a cellular partitioner with the default frequency
func NewNoise(seed int64) Noise {
	return Noise{Seed: seed, Frequency: DefaultFrequency}
}

// Partition implements Partitioner
func (n Noise) Partition(g *dungeon.Grid) map[int][]int {
	out := make(map[int][]int)
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			idx := g.Idx(x, y)
			if g.Tiles[idx] != dungeon.Floor {
				continue
			}
			key := int(n.CellValue(float64(x), float64(y)) * valueScale)
			out[key] = append(out[key], idx)
		}
	}
	return out
}

// CellValue returns the value in [-1,1) of the feature point closest to x,y
func (n Noise) CellValue(x, y float64) float64 {
	freq := n.Frequency
	if freq == 0 {
		freq = DefaultFrequency
	}
	fx, fy := x*freq, y*freq
	cx, cy := int64(math.Floor(fx)), int64(math.Floor(fy))

	bestDist := math.MaxFloat64
	var bestHash uint64
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			h := hash3(n.Seed, cx+dx, cy+dy)
			px := float64(cx+dx) + 0.5 + jitter*unit(h)
			py := float64(cy+dy) + 0.5 + jitter*unit(h>>21)
			d := math.Abs(px-fx) + math.Abs(py-fy)
			if d < bestDist {
				bestDist, bestHash = d, h
			}
		}
	}
	return unit(bestHash >> 42)
}

// hash3 mixes a seed and a lattice coordinate (splitmix64 finaliser)
func hash3(seed, x, y int64) uint64 {
	h := uint64(seed) ^ uint64(x)*0x9E3779B97F4A7C15 ^ uint64(y)*0xC2B2AE3D27D4EB4F
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return h
}

// unit maps the low 21 bits of h onto [-1,1)
func unit(h uint64) float64 {
	return float64(h&0x1FFFFF)/float64(0x100000) - 1
}
