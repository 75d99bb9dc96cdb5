package mixer

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/orsinium-labs/tinymath"

	"actuatorcore/objects"
)

// rotorTiltRadians resolves the tilt angle from an optional live channel.
// With no tilt channel configured it stays at 0.0; once one is wired up,
// full scale on that channel sweeps the rotor from vertical to horizontal.
func rotorTiltRadians(rotorTiltChannel int, channelValue float64) float64 {
	if rotorTiltChannel < 0 {
		return 0.0
	}
	// channelValue spans [-1,1] across full scale, mapped to [0,90deg] of tilt.
	degrees := (channelValue + 1.0) / 2.0 * 90.0
	return float64(degrees) * (tinymath.Pi / 180.0)
}

// transformRow applies the tilt-rotor row transform: it recomputes a
// tilting motor's thrust and torque contribution after rotating it by theta
// about the body Y axis. row is indexed by objects.Axis; only
// ThrottleCurve1, Roll, Pitch, Yaw are read/written.
func transformRow(row []float64, theta float64) {
	c1 := row[int(objects.AxisThrottleCurve1)]
	rollMix := row[int(objects.AxisRoll)]
	pitchMix := row[int(objects.AxisPitch)]
	yawMix := row[int(objects.AxisYaw)]

	if c1 == 0 {
		// Pure-torque row: the position vector d is undefined (division by
		// zero), so the transform is skipped.
		return
	}

	f := mgl64.Vec3{0, 0, -c1}
	tau := mgl64.Vec3{0, 0, yawMix}
	d := mgl64.Vec3{pitchMix / c1, -rollMix / c1, 0}

	cosT := float64(tinymath.Cos(float32(theta)))
	sinT := float64(tinymath.Sin(float32(theta)))
	ry := mgl64.Mat3FromRows(
		mgl64.Vec3{cosT, 0, sinT},
		mgl64.Vec3{0, 1, 0},
		mgl64.Vec3{-sinT, 0, cosT},
	)

	fRotated := ry.Mul3x1(f)
	tauRotated := ry.Mul3x1(tau)
	mRotated := d.Cross(fRotated).Add(tauRotated)

	// f points along -Z, so the thrust coefficient is the negated Z component.
	row[int(objects.AxisThrottleCurve1)] = -fRotated[2]
	row[int(objects.AxisRoll)] = mRotated[0]
	row[int(objects.AxisPitch)] = mRotated[1]
	row[int(objects.AxisYaw)] = mRotated[2]
}
