// Package objects defines the data model the actuator core consumes and
// produces, and the pub/sub-style store that keeps these objects
// coherent across the callback-context writers and the single task reader.
package objects

// Axis indexes the desired-command vector fed into the mixer every tick.
// V is the fixed width of a mixer row's coefficient vector.
type Axis int

const (
	AxisThrottleCurve1 Axis = iota
	AxisThrottleCurve2
	AxisRoll
	AxisPitch
	AxisYaw
	AxisAccessory0
	AxisAccessory1
	AxisAccessory2
	AxisCount
)

// V is the width of a mixer row and of the desired-command vector.
const V = int(AxisCount)

// MixerScale is the fixed-point divisor mixer coefficients are stored under.
const MixerScale = 128

// MixerRowType selects how a mixer row's raw value is produced and post-processed.
type MixerRowType int

const (
	RowDisabled MixerRowType = iota
	RowMotor
	RowServo
	RowCameraRoll
	RowCameraPitch
	RowCameraYaw
)

func (t MixerRowType) String() string {
	switch t {
	case RowDisabled:
		return "Disabled"
	case RowMotor:
		return "Motor"
	case RowServo:
		return "Servo"
	case RowCameraRoll:
		return "CameraRoll"
	case RowCameraPitch:
		return "CameraPitch"
	case RowCameraYaw:
		return "CameraYaw"
	default:
		return "Unknown"
	}
}

// IsMixed reports whether this row type carries real coefficients in the
// cache, vs. being zero-filled.
func (t MixerRowType) IsMixed() bool {
	return t == RowMotor || t == RowServo
}

// AirframeType is the only setting whose value changes mixer-cache behavior
// beyond the row coefficients themselves.
type AirframeType string

const (
	AirframeMultirotor AirframeType = "Multirotor"
	AirframeFixedWing  AirframeType = "FixedWing"
	AirframeHeliCP     AirframeType = "HeliCP"
	AirframeTiltTri    AirframeType = "TiltTricopter"
	AirframeTiltQuad   AirframeType = "TiltQuadrotor"
)

// IsHeliCP reports whether throttle/curve2 sourcing follows the
// collective-pitch helicopter rules.
func (a AirframeType) IsHeliCP() bool { return a == AirframeHeliCP }

// IsTiltRotor reports whether Motor rows get the tilt transform applied
// during cache build.
func (a AirframeType) IsTiltRotor() bool {
	return a == AirframeTiltTri || a == AirframeTiltQuad
}

// Curve2Source names which signal drives the second throttle curve.
type Curve2Source int

const (
	Curve2Throttle Curve2Source = iota
	Curve2Roll
	Curve2Pitch
	Curve2Yaw
	Curve2Collective
	Curve2Accessory0
	Curve2Accessory1
	Curve2Accessory2
)

// ArmedState mirrors FlightStatus.Armed.
type ArmedState int

const (
	Disarmed ArmedState = iota
	Arming
	Armed
)

// FlightMode is consulted only for its Failsafe value.
type FlightMode int

const (
	FlightModeOther FlightMode = iota
	FlightModeFailsafe
)

// CurvePoint is one (x, y) sample of a throttle or collective curve table.
type CurvePoint struct {
	X, Y float64
}

// MixerRow is one row of MixerSettings: a type plus its V-wide coefficient vector.
type MixerRow struct {
	Type         MixerRowType
	Coefficients [V]int16 // scaled by 1/MixerScale when cached
}

// MixerSettings is the full mixer configuration.
type MixerSettings struct {
	Rows               []MixerRow
	ThrottleCurve1     []CurvePoint
	ThrottleCurve2     []CurvePoint
	Curve2Source       Curve2Source
	RotorTiltChannel   int // -1 = unset; no live channel feeds the tilt angle
}

// ActuatorSettings is per-channel calibration plus the global actuator behavior knobs.
type ActuatorSettings struct {
	ChannelMin     []float64 // microseconds, indexed by channel
	ChannelNeutral []float64
	ChannelMax     []float64
	TimerUpdateFreq []int

	MotorsSpinWhileArmed          bool
	MotorInputOutputCurveFit      float64
	LowPowerStabilizationMaxPowerAdd float64 // fraction, e.g. 0.10
	LowPowerStabilizationMaxTime     float64 // seconds
}

// ChannelCount returns the configured channel count, derived from ChannelMin's length.
func (s ActuatorSettings) ChannelCount() int { return len(s.ChannelMin) }

// SystemSettings carries the one field the core distinguishes.
type SystemSettings struct {
	AirframeType AirframeType
}

// ActuatorDesired is the primary periodic input.
type ActuatorDesired struct {
	Roll, Pitch, Yaw, Thrust float64
}

// ManualControlCommand is the secondary input feeding throttle-source and
// accessory channels.
type ManualControlCommand struct {
	Throttle   float64
	Collective float64
	Accessory  []float64
}

// FlightStatus carries arming state and flight mode.
type FlightStatus struct {
	Armed      ArmedState
	FlightMode FlightMode
}

// CameraDesired is the optional input for camera-gimbal mixer rows.
type CameraDesired struct {
	Roll, Pitch, Yaw float64
}

// ActuatorCommand is the per-tick output.
type ActuatorCommand struct {
	Channel        []float64 // microseconds
	UpdateTime     float64   // milliseconds
	MaxUpdateTime  float64   // milliseconds, high-water mark
	ReadOnly       bool      // true while an external tool owns the channel values
}

// AlarmSeverity mirrors SystemAlarms.Actuator.
type AlarmSeverity int

const (
	AlarmCleared AlarmSeverity = iota
	AlarmCritical
)

// InterlockState is the three-state motor-stop handshake.
type InterlockState int

const (
	InterlockOk InterlockState = iota
	InterlockStopRequest
	InterlockStopped
)

func (s InterlockState) String() string {
	switch s {
	case InterlockOk:
		return "Ok"
	case InterlockStopRequest:
		return "StopRequest"
	case InterlockStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
