// Package metrics exposes the optional, debug-only mixer status as
// Prometheus gauges, so the same per-tick numbers a ground-control-station
// tool would display can be scraped over HTTP in a headless deployment.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// MixerStatus mirrors the debug-only mixer status fields of a tick.
type MixerStatus struct {
	UpdateTimeMs    prometheus.Gauge
	MaxUpdateTimeMs prometheus.Gauge
	ClipGain        prometheus.Gauge
	ClipOffset      prometheus.Gauge
	AlarmState      prometheus.Gauge
	InterlockState  prometheus.Gauge
}

// NewMixerStatus registers the gauges against reg (pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// global registry).
func NewMixerStatus(reg prometheus.Registerer) *MixerStatus {
	m := &MixerStatus{
		UpdateTimeMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actuator_update_time_ms",
			Help: "Milliseconds since the previous accepted actuator tick.",
		}),
		MaxUpdateTimeMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actuator_max_update_time_ms",
			Help: "High-water mark of actuator_update_time_ms.",
		}),
		ClipGain: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actuator_clip_gain",
			Help: "Clip-management gain applied to motor channels this tick.",
		}),
		ClipOffset: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actuator_clip_offset",
			Help: "Clip-management throttle offset applied this tick.",
		}),
		AlarmState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actuator_alarm_state",
			Help: "0 = cleared, 1 = critical.",
		}),
		InterlockState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actuator_interlock_state",
			Help: "0 = Ok, 1 = StopRequest, 2 = Stopped.",
		}),
	}

	reg.MustRegister(
		m.UpdateTimeMs,
		m.MaxUpdateTimeMs,
		m.ClipGain,
		m.ClipOffset,
		m.AlarmState,
		m.InterlockState,
	)

	return m
}
