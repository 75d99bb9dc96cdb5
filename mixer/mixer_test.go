package mixer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"actuatorcore/mixer"
	"actuatorcore/objects"
)

func quadSettings() objects.MixerSettings {
	full := [objects.V]int16{objects.MixerScale, 0, objects.MixerScale, 0, objects.MixerScale, 0, 0, 0}
	return objects.MixerSettings{
		Rows: []objects.MixerRow{
			{Type: objects.RowMotor, Coefficients: full},
			{Type: objects.RowDisabled},
		},
	}
}

func TestBuildScalesCoefficients(t *testing.T) {
	c := mixer.Build(quadSettings(), objects.AirframeMultirotor, 0)
	assert.Equal(t, 2, c.RowCount())
	assert.Equal(t, objects.RowMotor, c.RowType(0))
	assert.Equal(t, objects.RowDisabled, c.RowType(1))

	var desired [objects.V]float64
	desired[objects.AxisThrottleCurve1] = 1.0
	desired[objects.AxisRoll] = 1.0
	desired[objects.AxisYaw] = 1.0
	out := c.Multiply(desired)
	assert.InDelta(t, 3.0, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-9)
}

func TestBuildZeroFillsUnmixedRows(t *testing.T) {
	settings := objects.MixerSettings{
		Rows: []objects.MixerRow{
			{Type: objects.RowCameraYaw, Coefficients: [objects.V]int16{objects.MixerScale}},
		},
	}
	c := mixer.Build(settings, objects.AirframeMultirotor, 0)
	var desired [objects.V]float64
	desired[objects.AxisThrottleCurve1] = 1.0
	out := c.Multiply(desired)
	assert.InDelta(t, 0.0, out[0], 1e-9)
}

func TestMultiplyIsLinear(t *testing.T) {
	c := mixer.Build(quadSettings(), objects.AirframeMultirotor, 0)
	var a, b [objects.V]float64
	a[objects.AxisRoll] = 0.3
	b[objects.AxisRoll] = 0.7
	outA := c.Multiply(a)
	outB := c.Multiply(b)

	var sum [objects.V]float64
	sum[objects.AxisRoll] = 1.0
	outSum := c.Multiply(sum)

	assert.InDelta(t, outA[0]+outB[0], outSum[0], 1e-9)
}

func tiltRow() objects.MixerRow {
	var coeffs [objects.V]int16
	coeffs[objects.AxisThrottleCurve1] = objects.MixerScale
	coeffs[objects.AxisRoll] = objects.MixerScale / 4
	coeffs[objects.AxisPitch] = objects.MixerScale / 4
	coeffs[objects.AxisYaw] = objects.MixerScale / 8
	return objects.MixerRow{Type: objects.RowMotor, Coefficients: coeffs}
}

func TestTiltRotorAtZeroTiltMatchesUntilted(t *testing.T) {
	settings := objects.MixerSettings{Rows: []objects.MixerRow{tiltRow()}, RotorTiltChannel: -1}
	plain := mixer.Build(settings, objects.AirframeMultirotor, 0)
	tilted := mixer.Build(settings, objects.AirframeTiltQuad, 0)

	var desired [objects.V]float64
	desired[objects.AxisThrottleCurve1] = 1.0
	desired[objects.AxisRoll] = 0.2
	desired[objects.AxisPitch] = 0.1
	desired[objects.AxisYaw] = 0.05

	plainOut := plain.Multiply(desired)
	tiltedOut := tilted.Multiply(desired)
	// RotorTiltChannel is unset (-1), so theta is always 0 and the rotation
	// collapses to identity -- the transform is exercised but has no effect.
	assert.InDelta(t, plainOut[0], tiltedOut[0], 1e-6)
}

func TestTiltRotorSkipsTransformWhenThrustCoefficientIsZero(t *testing.T) {
	var coeffs [objects.V]int16
	coeffs[objects.AxisYaw] = objects.MixerScale
	row := objects.MixerRow{Type: objects.RowMotor, Coefficients: coeffs}
	settings := objects.MixerSettings{Rows: []objects.MixerRow{row}, RotorTiltChannel: -1}

	plain := mixer.Build(settings, objects.AirframeMultirotor, 0)
	tilted := mixer.Build(settings, objects.AirframeTiltQuad, 0)

	var desired [objects.V]float64
	desired[objects.AxisYaw] = 1.0
	assert.InDelta(t, plain.Multiply(desired)[0], tilted.Multiply(desired)[0], 1e-9)
}
