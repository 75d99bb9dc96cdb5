package actuator

import (
	"time"

	"actuatorcore/curve"
	"actuatorcore/objects"
)

// Normalizer assembles the desired vector and the armed/spin/stabilize
// booleans each tick. It holds the small amount of state that must survive
// across ticks: the cached manual-control throttle/accessories (only
// refreshed when ManualControlCommand actually changes) and the low-power
// hang-time window.
type Normalizer struct {
	cachedManualThrottle float64
	cachedAccessory      [3]float64

	lastPosThrottleTime time.Time
	hasLastPos          bool
}

// Inputs bundles everything Normalize needs for one tick.
type Inputs struct {
	Now           time.Time
	ManualChanged bool
	Desired       objects.ActuatorDesired
	Manual        objects.ManualControlCommand
	Flight        objects.FlightStatus
	Airframe      objects.AirframeType
	Actuator      objects.ActuatorSettings
	Mixer         objects.MixerSettings
}

// Result is the normalized desired vector plus the booleans that gate
// post-processing.
type Result struct {
	Vect           [objects.V]float64
	Armed          bool
	SpinWhileArmed bool
	StabilizeNow   bool
}

// Normalize builds the per-row desired vector and the armed/spin/stabilize
// flags for one tick, applying manual-control overrides and throttle
// curves along the way.
func (n *Normalizer) Normalize(in Inputs) Result {
	if in.ManualChanged {
		n.cachedManualThrottle = in.Manual.Throttle
		for i := 0; i < len(n.cachedAccessory) && i < len(in.Manual.Accessory); i++ {
			n.cachedAccessory[i] = in.Manual.Accessory[i]
		}
	}

	throttle := n.throttleSource(in)

	armed := in.Flight.Armed == objects.Armed
	spinWhileArmed := in.Actuator.MotorsSpinWhileArmed
	stabilizeNow := armed && throttle > 0.0

	if stabilizeNow {
		if in.Actuator.LowPowerStabilizationMaxTime > 0 {
			n.lastPosThrottleTime = in.Now
			n.hasLastPos = true
		}
	} else if n.hasLastPos {
		window := time.Duration(in.Actuator.LowPowerStabilizationMaxTime * float64(time.Second))
		if in.Now.Sub(n.lastPosThrottleTime) < window {
			stabilizeNow = true
			throttle = 0.0
		} else {
			n.hasLastPos = false
		}
	}

	val1 := curve.Throttle(throttle, in.Mixer.ThrottleCurve1)
	val2 := curve.Collective(n.curve2Source(in), in.Mixer.ThrottleCurve2)

	var vect [objects.V]float64
	vect[objects.AxisThrottleCurve1] = val1
	vect[objects.AxisThrottleCurve2] = val2
	vect[objects.AxisRoll] = in.Desired.Roll
	vect[objects.AxisPitch] = in.Desired.Pitch
	vect[objects.AxisYaw] = in.Desired.Yaw
	vect[objects.AxisAccessory0] = n.cachedAccessory[0]
	vect[objects.AxisAccessory1] = n.cachedAccessory[1]
	vect[objects.AxisAccessory2] = n.cachedAccessory[2]

	return Result{
		Vect:           vect,
		Armed:          armed,
		SpinWhileArmed: spinWhileArmed,
		StabilizeNow:   stabilizeNow,
	}
}

// throttleSource implements the throttle-sourcing rule: HeliCP airframes
// take throttle from manual control (forced to failsafe-neutral in
// Failsafe flight mode); everything else takes it from Thrust.
func (n *Normalizer) throttleSource(in Inputs) float64 {
	if in.Airframe.IsHeliCP() {
		if in.Flight.FlightMode == objects.FlightModeFailsafe {
			return -1.0
		}
		return n.cachedManualThrottle
	}
	return in.Desired.Thrust
}

// curve2Source resolves which live signal drives the second throttle
// curve. Collective and the Accessory sources are read straight from the
// live ManualControlCommand snapshot every tick; only the Throttle source
// uses the cached manual throttle.
func (n *Normalizer) curve2Source(in Inputs) float64 {
	switch in.Mixer.Curve2Source {
	case objects.Curve2Throttle:
		if in.Airframe.IsHeliCP() {
			return n.cachedManualThrottle
		}
		return in.Desired.Thrust
	case objects.Curve2Roll:
		return in.Desired.Roll
	case objects.Curve2Pitch:
		return in.Desired.Pitch
	case objects.Curve2Yaw:
		return in.Desired.Yaw
	case objects.Curve2Collective:
		if in.Airframe.IsHeliCP() {
			return in.Desired.Thrust
		}
		return in.Manual.Collective
	case objects.Curve2Accessory0, objects.Curve2Accessory1, objects.Curve2Accessory2:
		idx := int(in.Mixer.Curve2Source - objects.Curve2Accessory0)
		if idx < 0 || idx >= len(in.Manual.Accessory) {
			return 0
		}
		return in.Manual.Accessory[idx]
	}
	return 0
}
