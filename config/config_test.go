package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"actuatorcore/config"
	"actuatorcore/objects"
)

func validSettings() (objects.ActuatorSettings, objects.MixerSettings) {
	a := objects.ActuatorSettings{
		ChannelMin:      []float64{1000, 1000, 1000, 1000},
		ChannelNeutral:  []float64{1500, 1500, 1500, 1500},
		ChannelMax:      []float64{2000, 2000, 2000, 2000},
		TimerUpdateFreq: []int{400, 400},
	}
	m := objects.MixerSettings{
		Rows: []objects.MixerRow{{Type: objects.RowMotor}, {Type: objects.RowMotor}},
	}
	return a, m
}

func TestValidateAcceptsConsistentSettings(t *testing.T) {
	a, m := validSettings()
	assert.NoError(t, config.Validate(a, m))
}

func TestValidateRejectsTooManyMixerRows(t *testing.T) {
	a, m := validSettings()
	m.Rows = append(m.Rows, objects.MixerRow{}, objects.MixerRow{}, objects.MixerRow{})
	assert.Error(t, config.Validate(a, m))
}

func TestValidateRejectsMismatchedChannelArrayLengths(t *testing.T) {
	a, m := validSettings()
	a.ChannelNeutral = a.ChannelNeutral[:2]
	assert.Error(t, config.Validate(a, m))
}

func TestValidateRejectsTooManyTimerBanks(t *testing.T) {
	a, m := validSettings()
	a.TimerUpdateFreq = []int{1, 2, 3, 4, 5}
	assert.Error(t, config.Validate(a, m))
}
