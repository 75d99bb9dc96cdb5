package curve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"actuatorcore/curve"
	"actuatorcore/objects"
)

func TestLinearInterpolate(t *testing.T) {
	table := []objects.CurvePoint{{X: 0, Y: 0}, {X: 0.5, Y: 1}, {X: 1, Y: 0}}

	t.Run("below domain clamps", func(t *testing.T) {
		assert.Equal(t, 0.0, curve.LinearInterpolate(-1, table, 0, 1))
	})
	t.Run("above domain clamps", func(t *testing.T) {
		assert.Equal(t, 0.0, curve.LinearInterpolate(2, table, 0, 1))
	})
	t.Run("midpoint of first segment", func(t *testing.T) {
		assert.InDelta(t, 0.5, curve.LinearInterpolate(0.25, table, 0, 1), 1e-9)
	})
	t.Run("exact sample point", func(t *testing.T) {
		assert.InDelta(t, 1.0, curve.LinearInterpolate(0.5, table, 0, 1), 1e-9)
	})
	t.Run("empty table returns clamped input", func(t *testing.T) {
		assert.Equal(t, 0.3, curve.LinearInterpolate(0.3, nil, 0, 1))
	})
	t.Run("single point table returns that y", func(t *testing.T) {
		single := []objects.CurvePoint{{X: 0.2, Y: 0.9}}
		assert.Equal(t, 0.9, curve.LinearInterpolate(0.7, single, 0, 1))
	})
}

func TestThrottleAndCollectiveDomains(t *testing.T) {
	identity := curve.IdentityTable(0, 1, 5)
	assert.InDelta(t, 0.4, curve.Throttle(0.4, identity), 1e-9)
	assert.InDelta(t, 0.0, curve.Throttle(-5, identity), 1e-9)
	assert.InDelta(t, 1.0, curve.Throttle(5, identity), 1e-9)

	collectiveIdentity := curve.IdentityTable(-1, 1, 5)
	assert.InDelta(t, -0.3, curve.Collective(-0.3, collectiveIdentity), 1e-9)
	assert.InDelta(t, -1.0, curve.Collective(-5, collectiveIdentity), 1e-9)
	assert.InDelta(t, 1.0, curve.Collective(5, collectiveIdentity), 1e-9)
}

func TestIdentityTableRoundTrip(t *testing.T) {
	table := curve.IdentityTable(0, 1, 11)
	for x := 0.0; x <= 1.0; x += 0.1 {
		assert.InDelta(t, x, curve.LinearInterpolate(x, table, 0, 1), 1e-9)
	}
}
