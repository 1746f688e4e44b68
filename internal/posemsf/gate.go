package posemsf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/posefuse/internal/state"
)

type span struct {
	off, n int
}

// CorrectionGate zeroes the correction entries of frozen blocks. A frozen
// block stays in the state but is never moved by a measurement update.
type CorrectionGate struct {
	dim   int
	scale []span
	calib []span
}

// NewCorrectionGate derives the frozen index ranges from l once.
func NewCorrectionGate(l *state.Layout) *CorrectionGate {
	g := &CorrectionGate{dim: l.Dim()}
	if off, n, ok := l.Range(state.L); ok {
		g.scale = append(g.scale, span{off, n})
	}
	for _, id := range []state.BlockID{state.QCI, state.PCI} {
		if off, n, ok := l.Range(id); ok {
			g.calib = append(g.calib, span{off, n})
		}
	}
	return g
}

// Gate returns a copy of correction with the scale block zeroed when
// fixedScale is set and both extrinsic blocks zeroed when fixedCalib is
// set. The input is not modified. A vector of the wrong length is passed
// through unchanged.
func (g *CorrectionGate) Gate(correction *mat.VecDense, fixedScale, fixedCalib bool) *mat.VecDense {
	out := mat.VecDenseCopyOf(correction)
	if out.Len() != g.dim {
		opsf("Correction vector has length %d, expected %d - not gated", out.Len(), g.dim)
		return out
	}
	if fixedScale {
		zero(out, g.scale)
	}
	if fixedCalib {
		zero(out, g.calib)
	}
	return out
}

func zero(v *mat.VecDense, spans []span) {
	for _, s := range spans {
		for i := s.off; i < s.off+s.n; i++ {
			v.SetVec(i, 0)
		}
	}
}
