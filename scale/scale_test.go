package scale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"actuatorcore/scale"
)

func TestChannelNormalRange(t *testing.T) {
	// min=1000, neutral=1500, max=2000
	assert.InDelta(t, 1500.0, scale.Channel(0, 1000, 1500, 2000), 1e-9)
	assert.InDelta(t, 2000.0, scale.Channel(1, 1000, 1500, 2000), 1e-9)
	assert.InDelta(t, 1000.0, scale.Channel(-1, 1000, 1500, 2000), 1e-9)
	assert.InDelta(t, 1750.0, scale.Channel(0.5, 1000, 1500, 2000), 1e-9)
	assert.InDelta(t, 1250.0, scale.Channel(-0.5, 1000, 1500, 2000), 1e-9)
}

func TestChannelClampsOutOfRangeInput(t *testing.T) {
	assert.InDelta(t, 2000.0, scale.Channel(5, 1000, 1500, 2000), 1e-9)
	assert.InDelta(t, 1000.0, scale.Channel(-5, 1000, 1500, 2000), 1e-9)
}

func TestChannelInversionPreserved(t *testing.T) {
	// Reversed servo: min=2000, max=1000.
	assert.InDelta(t, 2000.0, scale.Channel(-1, 2000, 1500, 1000), 1e-9)
	assert.InDelta(t, 1000.0, scale.Channel(1, 2000, 1500, 1000), 1e-9)
	assert.InDelta(t, 1500.0, scale.Channel(0, 2000, 1500, 1000), 1e-9)

	// Still clamps to the calibrated bounds even when reversed.
	assert.InDelta(t, 1000.0, scale.Channel(5, 2000, 1500, 1000), 1e-9)
	assert.InDelta(t, 2000.0, scale.Channel(-5, 2000, 1500, 1000), 1e-9)
}
