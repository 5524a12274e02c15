package builder

import "fmt"

// SpawnMode decides where each drunkard starts digging
type SpawnMode int

const (
	SpawnStartingPoint SpawnMode = iota // Every digger starts at the centre
	SpawnRandom                         // The first starts at the centre, the rest anywhere
)

// DLAAlgorithm selects how diffusion limited aggregation walkers move
type DLAAlgorithm int

const (
	WalkInwards      DLAAlgorithm = iota // Random walk from anywhere until touching floor
	WalkOutwards                         // Random walk from the centre until leaving floor
	CentralAttractor                     // Straight line toward the centre until touching floor
)

// Symmetry mirrors every painted cell about the centre of the map
type Symmetry int

const (
	SymmetryNone Symmetry = iota
	SymmetryHorizontal
	SymmetryVertical
	SymmetryBoth
)

// String returns the string representation of a Symmetry
func (s Symmetry) String() string {
	switch s {
	case SymmetryNone:
		return "none"
	case SymmetryHorizontal:
		return "horizontal"
	case SymmetryVertical:
		return "vertical"
	case SymmetryBoth:
		return "both"
	default:
		return "unknown"
	}
}

const (
	DefaultMaxDiggers   = 10000
	DefaultMaxWalkSteps = 50000
)

// Settings configures the builders that take parameters.
// Nil fields are unset; builders ignore fields they do not use.
type Settings struct {
	SpawnMode    *SpawnMode
	Lifetime     *int
	FloorPercent *float64
	Algorithm    *DLAAlgorithm
	Symmetry     *Symmetry
	BrushSize    *int

	// MaxDiggers caps how many walkers the drunkard and DLA builders release
	// before giving up on the floor target.
	MaxDiggers *int

	// MaxWalkSteps caps how far a single DLA walker may stagger.
	MaxWalkSteps *int
}

// Ptr returns a pointer to v, for filling in Settings
func Ptr[T any](v T) *T {
	return &v
}

func missing(builder, field string) error {
	return fmt.Errorf("%w: %s needs %s", ErrMissingSetting, builder, field)
}

func invalid(builder, field string, value any) error {
	return fmt.Errorf("%w: %s %s = %v", ErrInvalidSetting, builder, field, value)
}

// painter holds the shared brush settings of the walker builders
type painter struct {
	symmetry  Symmetry
	brushSize int
}

// resolvePainter reads the optional brush settings, defaulting to no symmetry and a 1 cell brush
func resolvePainter(name string, s Settings) (painter, error) {
	p := painter{symmetry: SymmetryNone, brushSize: 1}
	if s.Symmetry != nil {
		if *s.Symmetry < SymmetryNone || *s.Symmetry > SymmetryBoth {
			return p, invalid(name, "symmetry", *s.Symmetry)
		}
		p.symmetry = *s.Symmetry
	}
	if s.BrushSize != nil {
		if *s.BrushSize < 1 {
			return p, invalid(name, "brush size", *s.BrushSize)
		}
		p.brushSize = *s.BrushSize
	}
	return p, nil
}

// resolveCaps reads the optional loop caps
func resolveCaps(name string, s Settings) (int, int, error) {
	diggers, steps := DefaultMaxDiggers, DefaultMaxWalkSteps
	if s.MaxDiggers != nil {
		if *s.MaxDiggers < 1 {
			return 0, 0, invalid(name, "max diggers", *s.MaxDiggers)
		}
		diggers = *s.MaxDiggers
	}
	if s.MaxWalkSteps != nil {
		if *s.MaxWalkSteps < 1 {
			return 0, 0, invalid(name, "max walk steps", *s.MaxWalkSteps)
		}
		steps = *s.MaxWalkSteps
	}
	return diggers, steps, nil
}

func validFloorPercent(f float64) bool {
	return f > 0 && f < 1
}
