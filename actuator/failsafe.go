package actuator

import (
	"actuatorcore/objects"
	"actuatorcore/scale"
)

// Values computes the failsafe channel microseconds for every mixer row.
// This runs instead of the normal tick whenever the desired-vector wait
// times out or the interlock handshake is holding outputs.
//
// Motor rows go to their calibrated minimum and Servo rows to neutral, both
// taken directly as microseconds. Disabled rows run their -1 setpoint
// through scale.Channel like a live tick would. Any other row type (camera
// gimbals) gets a literal zero; see DESIGN.md for why Disabled is treated
// differently from Motor/Servo here.
func Values(rowTypes []objects.MixerRowType, settings objects.ActuatorSettings) []float64 {
	n := settings.ChannelCount()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		out[i] = settings.ChannelNeutral[i]
	}

	for i, t := range rowTypes {
		if i >= n {
			break
		}
		switch t {
		case objects.RowMotor:
			out[i] = settings.ChannelMin[i]
		case objects.RowServo:
			out[i] = settings.ChannelNeutral[i]
		case objects.RowDisabled:
			out[i] = scale.Channel(-1, settings.ChannelMin[i], settings.ChannelNeutral[i], settings.ChannelMax[i])
		default:
			out[i] = 0
		}
	}

	return out
}
