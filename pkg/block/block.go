package block

import (
	"fmt"
	"slices"

	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
)

// Unset is the Left sentinel of a block that has not been laid out yet.
const Unset = -1.0

// Block is one time interval with its layout state.
//
// The zero value is not laid out; use [New] so Left starts at [Unset].
type Block struct {
	ID      string         // Caller-supplied identifier (section number, event id)
	Title   string         // Display label
	Start   int            // Minutes since midnight, inclusive
	End     int            // Minutes since midnight, exclusive
	Payload map[string]any // Opaque consumer data, never read by the engine

	Depth     int     // Assigned column (room index)
	PathDepth int     // Columns needed by the longest descending chain through this block
	Left      float64 // Fraction of the day width where the box begins
	Width     float64 // Fraction of the day width the box occupies
	Fixed     bool    // Left/Width are final after depth analysis
	Visited   bool    // Traversal scratch flag
	Neighbors []int   // Indices of conflicting blocks in the same weekday
	Idx       int     // Stable position in the weekday sequence
}

// New creates a block with its layout fields at their defaults.
func New(id string, start, end int) Block {
	return Block{ID: id, Start: start, End: end, Left: Unset}
}

// Duration returns the interval length in minutes.
func (b Block) Duration() int { return b.End - b.Start }

// Right returns Left+Width.
func (b Block) Right() float64 { return b.Left + b.Width }

// Overlaps reports whether the half-open intervals [Start, End) intersect.
// Touching endpoints do not overlap.
func (b Block) Overlaps(o Block) bool {
	return b.Start < o.End && o.Start < b.End
}

// LaidOut reports whether the block has been placed by a layout pass.
func (b Block) LaidOut() bool { return b.Left != Unset && b.Width > 0 }

// Validate rejects a malformed interval.
func (b Block) Validate() error {
	if err := bwerrors.ValidateInterval(b.Start, b.End); err != nil {
		return bwerrors.Wrap(bwerrors.ErrCodeInvalidInterval, err, "block %q", b.ID)
	}
	return nil
}

// ValidateAll validates every block and returns the first failure.
func ValidateAll(blocks []Block) error {
	for i := range blocks {
		if err := blocks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Reset prepares blocks for a fresh layout pass: Idx is renumbered to the
// slice position and every layout field returns to its default.
func Reset(blocks []Block) {
	for i := range blocks {
		b := &blocks[i]
		b.Idx = i
		b.Depth = 0
		b.PathDepth = 0
		b.Left = Unset
		b.Width = 0
		b.Fixed = false
		b.Visited = false
		b.Neighbors = b.Neighbors[:0]
	}
}

// ClearVisited resets the traversal scratch flag on every block.
func ClearVisited(blocks []Block) {
	for i := range blocks {
		blocks[i].Visited = false
	}
}

// Clone returns a deep copy of blocks. Neighbors slices are copied; Payload
// maps are shared since the engine never writes them.
func Clone(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b.Neighbors = slices.Clone(b.Neighbors)
		out[i] = b
	}
	return out
}

// Columns returns the number of distinct Depth values in use.
func Columns(blocks []Block) int {
	seen := make(map[int]struct{}, len(blocks))
	for _, b := range blocks {
		seen[b.Depth] = struct{}{}
	}
	return len(seen)
}

// CheckLayout verifies that every laid-out block lies inside [0, 1] and
// that conflicting blocks occupy disjoint horizontal ranges, within
// tolerance eps. Neighbors must be populated.
func CheckLayout(blocks []Block, eps float64) error {
	for i := range blocks {
		a := &blocks[i]
		if a.Left < -eps || a.Width <= 0 || a.Right() > 1+eps {
			return fmt.Errorf("block %d (%s) outside day: left=%.4f width=%.4f", i, a.ID, a.Left, a.Width)
		}
		for _, j := range a.Neighbors {
			if j <= i {
				continue
			}
			b := &blocks[j]
			if a.Left < b.Right()-eps && b.Left < a.Right()-eps {
				return fmt.Errorf("blocks %d (%s) and %d (%s) overlap horizontally", i, a.ID, j, b.ID)
			}
		}
	}
	return nil
}
