package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	orig := []float32{0.0, 1.5, -2.25, 3.75}

	decoded, err := Decode(Encode(orig))
	require.NoError(t, err)
	assert.Equal(t, orig, decoded)

	empty, err := Decode(Encode(nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecode_InvalidLength(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	sim, err := CosineSimilarity(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	dist, err := CosineDistance(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, dist, 1e-9)

	_, err = CosineSimilarity(a, []float32{1, 0, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = CosineSimilarity(a, []float32{0, 0})
	assert.ErrorIs(t, err, ErrZeroMagnitude)
}

func TestL2Distance(t *testing.T) {
	d, err := L2Distance([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	Normalize(v)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := []float32{0, 0}
	Normalize(zero)
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestMean(t *testing.T) {
	m, err := Mean([][]float32{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3}, m)

	m, err = Mean(nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0}, m)

	_, err = Mean([][]float32{{1}}, 2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.False(t, math.IsNaN(float64(m[0])))
}
