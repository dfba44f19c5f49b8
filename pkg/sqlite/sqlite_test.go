package sqlite

import (
	"testing"

	"intentbot/pkg/vector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderByCosineDistance(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE docs (id TEXT PRIMARY KEY, embedding BLOB)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO docs(id, embedding) VALUES ('x', ?), ('y', ?), ('zero', ?)`,
		vector.Encode([]float32{1, 0}), vector.Encode([]float32{0, 1}), vector.Encode([]float32{0, 0}))
	require.NoError(t, err)

	query := vector.Encode([]float32{0.1, 0.9})
	rows, err := db.Query(`SELECT id FROM docs ORDER BY vec_cosine_distance(embedding, ?) IS NULL, vec_cosine_distance(embedding, ?) ASC`, query, query)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		got = append(got, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"y", "x", "zero"}, got)
}

func TestL2Function(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var d float64
	err = db.QueryRow(`SELECT vec_l2(?, ?)`, vector.Encode([]float32{0, 0}), vector.Encode([]float32{3, 4})).Scan(&d)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)
}

func TestCosineDistance_DimensionMismatchFails(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var d float64
	err = db.QueryRow(`SELECT vec_cosine_distance(?, ?)`, vector.Encode([]float32{1, 0}), vector.Encode([]float32{1, 0, 0})).Scan(&d)
	assert.Error(t, err)
}
