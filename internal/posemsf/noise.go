package posemsf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/posefuse/internal/config"
	"github.com/banshee-data/posefuse/internal/state"
)

// AuxNoise holds the discretized process noise of the auxiliary blocks.
// Blocks are uncoupled; each is dt·diag(σ²).
type AuxNoise struct {
	L   *mat.DiagDense
	QWV *mat.DiagDense
	QCI *mat.DiagDense
	PCI *mat.DiagDense
}

// ProcessNoise computes the auxiliary-block noise for one predict step of
// length dt from the densities in cfg.
func ProcessNoise(cfg *config.PoseSensorConfig, dt float64) AuxNoise {
	return AuxNoise{
		L:   blockNoise(cfg.GetNoiseScale(), 1, dt),
		QWV: blockNoise(cfg.GetNoiseQWV(), 3, dt),
		QCI: blockNoise(cfg.GetNoiseQCI(), 3, dt),
		PCI: blockNoise(cfg.GetNoisePCI(), 3, dt),
	}
}

func blockNoise(sigma float64, n int, dt float64) *mat.DiagDense {
	d := make([]float64, n)
	for i := range d {
		d[i] = dt * sigma * sigma
	}
	return mat.NewDiagDense(n, d)
}

// Block returns the noise of block id, or nil for blocks this model does
// not cover.
func (a AuxNoise) Block(id state.BlockID) *mat.DiagDense {
	switch id {
	case state.L:
		return a.L
	case state.QWV:
		return a.QWV
	case state.QCI:
		return a.QCI
	case state.PCI:
		return a.PCI
	}
	return nil
}

// Embed writes every auxiliary block into qd at its offset in l. Each
// block is replaced whole, so stale cross terms inside a block are
// cleared. Entries outside the auxiliary blocks are left as they are.
func (a AuxNoise) Embed(qd *mat.SymDense, l *state.Layout) {
	for _, id := range []state.BlockID{state.L, state.QWV, state.QCI, state.PCI} {
		if b := a.Block(id); b != nil {
			state.SetBlock(qd, l, id, b)
		}
	}
}
