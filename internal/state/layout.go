// Package state owns the estimator state model for the pose sensor:
// block identifiers, the error-state layout table, the nominal state
// vector and the quaternion helpers shared by the filter hooks.
//
// Key types: BlockID, Layout, Vector.
//
// No filter recursion lives here. FilterCore owns predict/update; this
// package only describes what the state looks like.
package state

import "fmt"

// BlockID identifies one block of the estimator state.
type BlockID int

const (
	P   BlockID = iota // position
	V                  // velocity
	Q                  // orientation
	BW                 // gyro bias
	BA                 // accel bias
	L                  // scale
	QWV                // vision-world drift rotation
	QCI                // sensor-IMU extrinsic rotation
	PCI                // sensor-IMU extrinsic translation
	numBlocks
)

var blockNames = [numBlocks]string{
	P:   "p",
	V:   "v",
	Q:   "q",
	BW:  "b_w",
	BA:  "b_a",
	L:   "L",
	QWV: "q_wv",
	QCI: "q_ci",
	PCI: "p_ci",
}

func (b BlockID) String() string {
	if b < 0 || b >= numBlocks {
		return fmt.Sprintf("BlockID(%d)", int(b))
	}
	return blockNames[b]
}

// Block is one entry of the layout table.
type Block struct {
	ID     BlockID
	Dim    int // error-state dimension (orientations contribute 3)
	Offset int
}

// Layout is the fixed, contiguous error-state index layout. Offsets are
// the prefix sum of the block dimensions in declaration order.
type Layout struct {
	blocks []Block
	index  map[BlockID]int
	dim    int
}

// NewLayout builds a layout from ordered (id, dim) pairs. It panics on a
// duplicate block or a non-positive dimension; layouts are static.
func NewLayout(entries ...Block) *Layout {
	l := &Layout{
		blocks: make([]Block, 0, len(entries)),
		index:  make(map[BlockID]int, len(entries)),
	}
	for _, e := range entries {
		if e.Dim <= 0 {
			panic(fmt.Sprintf("state: block %s has non-positive dimension %d", e.ID, e.Dim))
		}
		if _, dup := l.index[e.ID]; dup {
			panic(fmt.Sprintf("state: duplicate block %s", e.ID))
		}
		l.index[e.ID] = len(l.blocks)
		l.blocks = append(l.blocks, Block{ID: e.ID, Dim: e.Dim, Offset: l.dim})
		l.dim += e.Dim
	}
	return l
}

// PoseLayout is the error-state layout of the single pose sensor filter.
var PoseLayout = NewLayout(
	Block{ID: P, Dim: 3},
	Block{ID: V, Dim: 3},
	Block{ID: Q, Dim: 3},
	Block{ID: BW, Dim: 3},
	Block{ID: BA, Dim: 3},
	Block{ID: L, Dim: 1},
	Block{ID: QWV, Dim: 3},
	Block{ID: QCI, Dim: 3},
	Block{ID: PCI, Dim: 3},
)

// Dim returns the total error-state dimension.
func (l *Layout) Dim() int { return l.dim }

// Blocks returns a copy of the layout table.
func (l *Layout) Blocks() []Block {
	out := make([]Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Range returns the error-state offset and length of a block. ok is false
// when the block is not part of this layout.
func (l *Layout) Range(id BlockID) (offset, length int, ok bool) {
	i, ok := l.index[id]
	if !ok {
		return 0, 0, false
	}
	b := l.blocks[i]
	return b.Offset, b.Dim, true
}

// MustRange is Range for blocks known to be in the layout.
func (l *Layout) MustRange(id BlockID) (offset, length int) {
	offset, length, ok := l.Range(id)
	if !ok {
		panic(fmt.Sprintf("state: block %s not in layout", id))
	}
	return offset, length
}
