// Package clip implements the post-process / clip-management policy:
// per-row dispatch, motor-only clip statistics, and the gain/offset
// redistribution that preserves attitude authority under saturation.
package clip

import (
	"math"

	"github.com/orsinium-labs/tinymath"

	"actuatorcore/objects"
)

// Stats are the motor-only statistics gathered while dispatching each row.
type Stats struct {
	MinChan   float64
	MaxChan   float64
	NegClip   float64
	NumMotors int
}

// Dispatch applies the per-type row action, mutating motorVect in place,
// and returns the motor-only clip statistics.
func Dispatch(motorVect []float64, rowTypes []objects.MixerRowType, camera *objects.CameraDesired) Stats {
	stats := Stats{MinChan: math.Inf(1), MaxChan: math.Inf(-1)}

	for i, t := range rowTypes {
		switch t {
		case objects.RowDisabled:
			motorVect[i] = -1

		case objects.RowServo:
			// leave value as mixer output

		case objects.RowMotor:
			v := motorVect[i]
			stats.MinChan = math.Min(stats.MinChan, v)
			stats.MaxChan = math.Max(stats.MaxChan, v)
			if v < 0 {
				stats.NegClip += v
			}
			stats.NumMotors++

		case objects.RowCameraPitch:
			if camera != nil {
				motorVect[i] = camera.Pitch
			} else {
				motorVect[i] = -1
			}

		case objects.RowCameraRoll:
			if camera != nil {
				motorVect[i] = camera.Roll
			} else {
				motorVect[i] = -1
			}

		case objects.RowCameraYaw:
			if camera != nil {
				motorVect[i] = camera.Yaw
			} else {
				motorVect[i] = -1
			}
		}
	}

	return stats
}

// GainOffset computes the motor-only clip redistribution policy: compress
// the spread between motors back within a unit span when it overflows, then
// pick an offset that clips the top or floors the bottom of that spread.
func GainOffset(stats Stats, lowPowerMaxAdd float64) (gain, offset float64) {
	gain, offset = 1.0, 0.0

	minChan, maxChan := stats.MinChan, stats.MaxChan
	if stats.NumMotors == 0 {
		return gain, offset
	}

	if (maxChan - minChan) > 1.0 {
		gain = 1.0 / (maxChan - minChan)
		maxChan *= gain
		minChan *= gain
	}

	if maxChan > 1.0 {
		offset = 1.0 - maxChan
	} else if minChan < 0.0 {
		avgNeg := stats.NegClip / float64(stats.NumMotors)
		offset = math.Min(-minChan, avgNeg+lowPowerMaxAdd)
	}

	return gain, offset
}

// ApplyMotorPolicy applies the arm/stabilize gating and curve-fit to every
// Motor row. Non-motor rows are left untouched.
func ApplyMotorPolicy(motorVect []float64, rowTypes []objects.MixerRowType, gain, offset float64, armed, stabilizeNow, spinWhileArmed bool, curveFit float64) {
	for i, t := range rowTypes {
		if t != objects.RowMotor {
			continue
		}

		switch {
		case !armed:
			motorVect[i] = -1
		case !stabilizeNow:
			if spinWhileArmed {
				motorVect[i] = 0
			} else {
				motorVect[i] = -1
			}
		default:
			v := motorVect[i]*gain + offset
			if v > 0 {
				motorVect[i] = float64(tinymath.Pow(float32(v), float32(curveFit)))
			} else {
				motorVect[i] = 0
			}
		}
	}
}
