package posemsf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/posefuse/internal/config"
	"github.com/banshee-data/posefuse/internal/state"
)

func f64(v float64) *float64 { return &v }
func boolp(v bool) *bool     { return &v }

func noiseConfig() *config.PoseSensorConfig {
	return &config.PoseSensorConfig{
		NoiseScale: f64(0.1),
		NoiseQWV:   f64(0.2),
		NoiseQCI:   f64(0.3),
		NoisePCI:   f64(0.4),
	}
}

func TestProcessNoise_Values(t *testing.T) {
	t.Parallel()

	q := ProcessNoise(noiseConfig(), 0.5)

	cases := []struct {
		id    state.BlockID
		n     int
		sigma float64
	}{
		{state.L, 1, 0.1},
		{state.QWV, 3, 0.2},
		{state.QCI, 3, 0.3},
		{state.PCI, 3, 0.4},
	}
	for _, c := range cases {
		b := q.Block(c.id)
		require.NotNil(t, b, "block %s", c.id)
		r, cols := b.Dims()
		require.Equal(t, c.n, r)
		require.Equal(t, c.n, cols)
		for i := 0; i < c.n; i++ {
			for j := 0; j < c.n; j++ {
				want := 0.0
				if i == j {
					want = 0.5 * c.sigma * c.sigma
				}
				assert.InDelta(t, want, b.At(i, j), 1e-15, "block %s (%d,%d)", c.id, i, j)
			}
		}
	}
	assert.Nil(t, q.Block(state.P))
}

func TestProcessNoise_Additive(t *testing.T) {
	t.Parallel()

	cfg := noiseConfig()
	for _, dts := range [][2]float64{{0.01, 0.02}, {0.005, 0.5}, {1, 3}} {
		a := ProcessNoise(cfg, dts[0])
		b := ProcessNoise(cfg, dts[1])
		sum := ProcessNoise(cfg, dts[0]+dts[1])

		for _, id := range []state.BlockID{state.L, state.QWV, state.QCI, state.PCI} {
			var got mat.Dense
			got.Add(a.Block(id), b.Block(id))
			assert.True(t, mat.EqualApprox(&got, sum.Block(id), 1e-15), "block %s dt=%v", id, dts)
		}
	}
}

func TestProcessNoise_Defaults(t *testing.T) {
	t.Parallel()

	// Unset densities produce zero noise.
	q := ProcessNoise(config.EmptyPoseSensorConfig(), 1)
	for _, id := range []state.BlockID{state.L, state.QWV, state.QCI, state.PCI} {
		r, _ := q.Block(id).Dims()
		for i := 0; i < r; i++ {
			assert.Zero(t, q.Block(id).At(i, i))
		}
	}
}

func TestAuxNoise_Embed(t *testing.T) {
	t.Parallel()

	q := ProcessNoise(noiseConfig(), 1)
	n := state.PoseLayout.Dim()
	qd := mat.NewSymDense(n, nil)
	qd.SetSym(0, 0, 7) // core-owned entry

	q.Embed(qd, state.PoseLayout)

	assert.Equal(t, 7.0, qd.At(0, 0))
	assert.InDelta(t, 0.01, qd.At(15, 15), 1e-15)
	for i := 16; i < 19; i++ {
		assert.InDelta(t, 0.04, qd.At(i, i), 1e-15)
	}
	for i := 19; i < 22; i++ {
		assert.InDelta(t, 0.09, qd.At(i, i), 1e-15)
	}
	for i := 22; i < 25; i++ {
		assert.InDelta(t, 0.16, qd.At(i, i), 1e-15)
	}
	// No cross terms.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				assert.Zero(t, qd.At(i, j))
			}
		}
	}
}

func TestAuxNoise_EmbedClearsStaleCrossTerms(t *testing.T) {
	t.Parallel()

	n := state.PoseLayout.Dim()
	qd := mat.NewSymDense(n, nil)
	qd.SetSym(19, 20, 0.5) // left over inside q_ci
	qd.SetSym(15, 15, 9)   // stale scale noise
	qd.SetSym(23, 24, -1)  // left over inside p_ci

	cfg := config.EmptyPoseSensorConfig()
	cfg.NoiseQCI = f64(0.3)
	ProcessNoise(cfg, 1).Embed(qd, state.PoseLayout)

	assert.Equal(t, 0.0, qd.At(19, 20))
	assert.Equal(t, 0.0, qd.At(20, 19))
	assert.Equal(t, 0.0, qd.At(23, 24))
	assert.Equal(t, 0.0, qd.At(15, 15))
	assert.InDelta(t, 0.09, qd.At(19, 19), 1e-15)
}
