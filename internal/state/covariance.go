package state

import "gonum.org/v1/gonum/mat"

// NewCovariance returns an all-zero error-state covariance for l. A zero
// covariance tells FilterCore to apply its own default initialisation.
func NewCovariance(l *Layout) *mat.SymDense {
	return mat.NewSymDense(l.Dim(), nil)
}

// IsZeroCovariance reports whether p is nil or the all-zero sentinel.
func IsZeroCovariance(p mat.Symmetric) bool {
	if p == nil {
		return true
	}
	n, _ := p.Dims()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if p.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

// SetBlock writes the n×n symmetric block b into dst at the error-state
// offset of block id, replacing every entry inside the block, off-diagonal
// ones included. Entries outside the block are untouched.
func SetBlock(dst *mat.SymDense, l *Layout, id BlockID, b mat.Matrix) {
	off, n := l.MustRange(id)
	if r, c := b.Dims(); r != n || c != n {
		panic("state: block size mismatch")
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			dst.SetSym(off+i, off+j, b.At(i, j))
		}
	}
}
