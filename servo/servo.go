// Package servo defines the hardware boundary: a PWM/servo timer peripheral
// that the actuator task programs every tick. The actuator core never talks
// to hardware directly; it only ever calls this interface, so a simulated
// Driver is enough to exercise the full task loop in tests.
package servo

// Driver is the servo/PWM timer peripheral boundary.
type Driver interface {
	// SetMode programs each timer bank's update frequency plus each
	// channel's min/max pulse bounds, ahead of any Set calls.
	SetMode(freqsPerBank []int, max, min []float64) error

	// Set stages a channel's pulse width in microseconds for the next Update.
	Set(channel int, microseconds float64)

	// Update commits all staged channel values atomically for this tick.
	Update() error
}

// Fake is an in-memory Driver used in tests and as the default backend for
// the cmd entrypoint when no real hardware is attached.
type Fake struct {
	Channels     []float64
	FreqsPerBank []int
	Max, Min     []float64
	UpdateCount  int
	ModeCount    int
}

// NewFake creates a Fake with n channels.
func NewFake(n int) *Fake {
	return &Fake{Channels: make([]float64, n)}
}

func (f *Fake) SetMode(freqsPerBank []int, max, min []float64) error {
	f.FreqsPerBank = append([]int(nil), freqsPerBank...)
	f.Max = append([]float64(nil), max...)
	f.Min = append([]float64(nil), min...)
	f.ModeCount++
	return nil
}

func (f *Fake) Set(channel int, microseconds float64) {
	if channel < 0 || channel >= len(f.Channels) {
		return
	}
	f.Channels[channel] = microseconds
}

func (f *Fake) Update() error {
	f.UpdateCount++
	return nil
}
