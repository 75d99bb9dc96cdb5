package actuator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"actuatorcore/objects"
)

func failsafeSettings() objects.ActuatorSettings {
	return objects.ActuatorSettings{
		ChannelMin:     []float64{1000, 1000, 1000, 1000},
		ChannelNeutral: []float64{1500, 1500, 1500, 1500},
		ChannelMax:     []float64{2000, 2000, 2000, 2000},
	}
}

func TestFailsafeValuesByRowType(t *testing.T) {
	rowTypes := []objects.MixerRowType{
		objects.RowMotor,
		objects.RowServo,
		objects.RowDisabled,
		objects.RowCameraYaw,
	}
	out := Values(rowTypes, failsafeSettings())

	assert.InDelta(t, 1000.0, out[0], 1e-9) // Motor: raw ChannelMin
	assert.InDelta(t, 1500.0, out[1], 1e-9) // Servo: raw ChannelNeutral
	assert.InDelta(t, 1000.0, out[2], 1e-9) // Disabled: scale.Channel(-1, ...) == ChannelMin
	assert.InDelta(t, 0.0, out[3], 1e-9)    // Camera/other: literal zero
}

func TestFailsafeValuesDefaultsUnmixedChannelsToNeutral(t *testing.T) {
	out := Values([]objects.MixerRowType{objects.RowMotor}, failsafeSettings())
	assert.Len(t, out, 4)
	assert.InDelta(t, 1500.0, out[1], 1e-9)
	assert.InDelta(t, 1500.0, out[2], 1e-9)
	assert.InDelta(t, 1500.0, out[3], 1e-9)
}
