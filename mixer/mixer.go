// Package mixer builds and evaluates the cached mixer matrix: coefficient
// scaling, the tilt-rotor row transform, and the hot-path matrix-vector
// multiply that turns a desired-command vector into per-channel output.
package mixer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"actuatorcore/objects"
)

// Cache is the derived mixer: a row-major matrix of coefficient/MixerScale
// values plus the parallel row-type array. It is rebuilt only when
// MixerSettings (or the airframe type) changes; the hot path only ever
// calls Multiply.
type Cache struct {
	matrix    *mat.Dense
	rowTypes  []objects.MixerRowType
	rowCount  int
}

// Build recomputes the mixer cache from settings, applying the tilt-rotor
// transform to Motor rows when the airframe is a tilt-rotor configuration.
// rotorTiltValue is the live channel value feeding the tilt angle,
// consulted only when settings.RotorTiltChannel is configured.
func Build(settings objects.MixerSettings, airframe objects.AirframeType, rotorTiltValue float64) *Cache {
	n := len(settings.Rows)
	c := &Cache{
		matrix:   mat.NewDense(n, objects.V, nil),
		rowTypes: make([]objects.MixerRowType, n),
		rowCount: n,
	}

	theta := rotorTiltRadians(settings.RotorTiltChannel, rotorTiltValue)

	row := make([]float64, objects.V)
	for i, mixRow := range settings.Rows {
		c.rowTypes[i] = mixRow.Type

		for j := 0; j < objects.V; j++ {
			row[j] = 0
		}
		if mixRow.Type.IsMixed() {
			for j := 0; j < objects.V; j++ {
				row[j] = float64(mixRow.Coefficients[j]) / objects.MixerScale
			}
		}

		if mixRow.Type == objects.RowMotor && airframe.IsTiltRotor() {
			transformRow(row, theta)
		}

		c.matrix.SetRow(i, row)
	}

	return c
}

// RowType returns the cached row type for channel i.
func (c *Cache) RowType(i int) objects.MixerRowType {
	return c.rowTypes[i]
}

// RowCount returns the number of mixer rows (never more than the channel count).
func (c *Cache) RowCount() int { return c.rowCount }

// Multiply computes motor_vect = M . desired_vect: a pure linear
// matrix-vector product over the cached mixer matrix.
func (c *Cache) Multiply(desired [objects.V]float64) []float64 {
	dv := mat.NewVecDense(objects.V, desired[:])
	out := mat.NewVecDense(c.rowCount, nil)
	out.MulVec(c.matrix, dv)

	result := make([]float64, c.rowCount)
	for i := 0; i < c.rowCount; i++ {
		result[i] = out.AtVec(i)
	}
	return result
}

// String renders the cache for debug/MixerStatus-style inspection.
func (c *Cache) String() string {
	return fmt.Sprintf("mixer.Cache{rows=%d}", c.rowCount)
}
