// Package sqlite opens embedded SQLite databases with the vector distance
// functions registered, so nearest-neighbour lookups can run in SQL.
package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"intentbot/pkg/vector"

	sqlite "modernc.org/sqlite"
)

const (
	FuncCosineDistance = "vec_cosine_distance"
	FuncL2             = "vec_l2"
)

var registerOnce sync.Once

// RegisterVectorFunctions makes vec_cosine_distance and vec_l2 available to
// connections opened after the call. Safe to call repeatedly.
func RegisterVectorFunctions() {
	registerOnce.Do(func() {
		_ = sqlite.RegisterDeterministicScalarFunction(FuncCosineDistance, 2, cosineDistanceImpl)
		_ = sqlite.RegisterDeterministicScalarFunction(FuncL2, 2, l2Impl)
	})
}

// Open opens path with the pure-Go driver. ":memory:" and "file::memory:"
// databases are limited to one connection since each connection would
// otherwise see its own empty database.
func Open(path string) (*sql.DB, error) {
	RegisterVectorFunctions()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

func blobArgs(name string, args []driver.Value) (a, b []float32, err error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	vecs := make([][]float32, 2)
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
			return nil, nil, nil
		case []byte:
			if vecs[i], err = vector.Decode(v); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, fmt.Errorf("%s: unsupported argument type %T; want BLOB", name, arg)
		}
	}
	return vecs[0], vecs[1], nil
}

func cosineDistanceImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := blobArgs(FuncCosineDistance, args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	d, err := vector.CosineDistance(a, b)
	if err == vector.ErrZeroMagnitude {
		// pgvector yields NaN here; NULL sorts last in ORDER BY ASC
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func l2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := blobArgs(FuncL2, args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	d, err := vector.L2Distance(a, b)
	if err != nil {
		return nil, err
	}
	return d, nil
}
