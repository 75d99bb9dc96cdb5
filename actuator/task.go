// Package actuator wires objects.Store, curve, mixer, clip, and scale into
// the periodic task driver: refresh caches, wait for a desired vector, mix,
// post-process, scale to microseconds, and commit to the servo driver -- or
// fall back to failsafe values when the input stalls or an interlock stop
// is in effect.
package actuator

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"actuatorcore/clip"
	"actuatorcore/metrics"
	"actuatorcore/mixer"
	"actuatorcore/objects"
	"actuatorcore/scale"
	"actuatorcore/servo"
	"actuatorcore/watchdog"
)

// FailsafeTimeout is how long the task waits for a new ActuatorDesired
// before treating the input as stalled and committing failsafe values.
const FailsafeTimeout = 100 * time.Millisecond

// InterlockReapplyInterval is how often the interlock hold loop re-commits
// failsafe values and checks for external resume while a stop is held.
const InterlockReapplyInterval = 3 * time.Millisecond

// InterlockHoldInterval is how long a StopRequest must be held before the
// hold loop marks the handshake Stopped. It is independent of
// InterlockReapplyInterval: failsafe values are re-applied continuously
// from the moment the stop is observed, but the state transition itself
// only fires once this much time has genuinely elapsed.
const InterlockHoldInterval = 100 * time.Millisecond

const watchdogFlagName = "actuator"

// Task is the periodic actuator driver.
type Task struct {
	store    *objects.Store
	servo    servo.Driver
	watchdog watchdog.Watchdog
	metrics  *metrics.MixerStatus
	logger   *zap.SugaredLogger

	normalizer Normalizer
	mixerCache *mixer.Cache

	lastTick      time.Time
	maxUpdateTime float64
}

// NewTask builds a Task around its collaborators. servoDriver and wd may be
// *servo.Fake / *watchdog.Fake for tests or a headless deployment; met may
// be nil to skip metrics entirely.
func NewTask(store *objects.Store, servoDriver servo.Driver, wd watchdog.Watchdog, met *metrics.MixerStatus, logger *zap.SugaredLogger) *Task {
	return &Task{
		store:    store,
		servo:    servoDriver,
		watchdog: wd,
		metrics:  met,
		logger:   logger,
	}
}

// Run drives the task loop until ctx is canceled. At the top of every
// iteration, settings caches are refreshed from whatever changed since the
// last pass; the interlock handshake is checked before anything is allowed
// to reach the servos; and the iteration otherwise blocks on either a new
// desired vector or the failsafe timeout.
func (t *Task) Run(ctx context.Context) error {
	if err := t.watchdog.RegisterFlag(watchdogFlagName); err != nil {
		return errors.Wrap(err, "registering actuator watchdog flag")
	}
	t.lastTick = time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t.refreshSettings()

		if t.store.Interlock() == objects.InterlockStopRequest {
			if err := t.holdInterlock(ctx); err != nil {
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case desired := <-t.store.DesiredChannel():
			t.tick(desired)
		case <-time.After(FailsafeTimeout):
			t.logger.Warnw("actuator desired input stalled, applying failsafe values",
				"timeout", FailsafeTimeout)
			t.applyFailsafe()
		}
	}
}

// refreshSettings rebuilds the mixer cache and reprograms the servo driver's
// mode whenever ActuatorSettings, MixerSettings, or the airframe type have
// changed since the last tick. The cache is also (re)built on the very
// first pass, since NewStore starts every update flag set true.
func (t *Task) refreshSettings() {
	actuatorChanged := t.store.ConsumeActuatorSettingsChanged()
	mixerChanged := t.store.ConsumeMixerSettingsChanged()

	if !actuatorChanged && !mixerChanged && t.mixerCache != nil {
		return
	}

	mixerSettings := t.store.MixerSettings()
	airframe := t.store.SystemSettings().AirframeType

	// No live rotor-tilt channel source is wired in; see
	// mixer.rotorTiltRadians.
	t.mixerCache = mixer.Build(mixerSettings, airframe, 0.0)

	if err := t.programServoMode(); err != nil {
		t.logger.Errorw("failed to program servo mode", "error", err)
	}
}

func (t *Task) programServoMode() error {
	actuatorSettings := t.store.ActuatorSettings()
	return t.servo.SetMode(actuatorSettings.TimerUpdateFreq, actuatorSettings.ChannelMax, actuatorSettings.ChannelMin)
}

// rowTypes snapshots the current mixer cache's row-type array for the clip
// and failsafe stages, which both dispatch per row type.
func (t *Task) rowTypes() []objects.MixerRowType {
	n := t.mixerCache.RowCount()
	out := make([]objects.MixerRowType, n)
	for i := 0; i < n; i++ {
		out[i] = t.mixerCache.RowType(i)
	}
	return out
}

// tick runs one full normalize -> mix -> post-process -> commit pass for a
// freshly-arrived desired vector.
func (t *Task) tick(desired objects.ActuatorDesired) {
	manualChanged := t.store.ConsumeManualControlChanged()
	manual := t.store.ManualControl()
	flight := t.store.FlightStatus()
	actuatorSettings := t.store.ActuatorSettings()
	mixerSettings := t.store.MixerSettings()
	airframe := t.store.SystemSettings().AirframeType

	result := t.normalizer.Normalize(Inputs{
		Now:           time.Now(),
		ManualChanged: manualChanged,
		Desired:       desired,
		Manual:        manual,
		Flight:        flight,
		Airframe:      airframe,
		Actuator:      actuatorSettings,
		Mixer:         mixerSettings,
	})

	motorVect := t.mixerCache.Multiply(result.Vect)
	rowTypes := t.rowTypes()

	camera := t.store.CameraDesired()
	stats := clip.Dispatch(motorVect, rowTypes, camera)
	gain, offset := clip.GainOffset(stats, actuatorSettings.LowPowerStabilizationMaxPowerAdd)
	clip.ApplyMotorPolicy(motorVect, rowTypes, gain, offset, result.Armed, result.StabilizeNow, result.SpinWhileArmed, actuatorSettings.MotorInputOutputCurveFit)

	channelValues := make([]float64, len(motorVect))
	for i, v := range motorVect {
		channelValues[i] = scale.Channel(v, actuatorSettings.ChannelMin[i], actuatorSettings.ChannelNeutral[i], actuatorSettings.ChannelMax[i])
	}

	for i, v := range channelValues {
		t.servo.Set(i, v)
	}
	if err := t.servo.Update(); err != nil {
		t.logger.Errorw("servo update failed", "error", err)
	}

	now := time.Now()
	updateMs := float64(now.Sub(t.lastTick)) / float64(time.Millisecond)
	t.lastTick = now
	if updateMs > t.maxUpdateTime {
		t.maxUpdateTime = updateMs
	}

	t.store.PublishCommand(objects.ActuatorCommand{
		Channel:       channelValues,
		UpdateTime:    updateMs,
		MaxUpdateTime: t.maxUpdateTime,
	})
	t.store.SetAlarm(objects.AlarmCleared)
	t.watchdog.UpdateFlag(watchdogFlagName)

	if t.metrics != nil {
		t.metrics.UpdateTimeMs.Set(updateMs)
		t.metrics.MaxUpdateTimeMs.Set(t.maxUpdateTime)
		t.metrics.ClipGain.Set(gain)
		t.metrics.ClipOffset.Set(offset)
		t.metrics.AlarmState.Set(float64(objects.AlarmCleared))
		t.metrics.InterlockState.Set(float64(t.store.Interlock()))
	}
}

// applyFailsafe commits failsafe channel values directly, bypassing
// normalize/mix/clip entirely, and raises the actuator alarm.
func (t *Task) applyFailsafe() {
	actuatorSettings := t.store.ActuatorSettings()
	channelValues := Values(t.rowTypes(), actuatorSettings)

	for i, v := range channelValues {
		t.servo.Set(i, v)
	}
	if err := t.servo.Update(); err != nil {
		t.logger.Errorw("servo update failed during failsafe", "error", err)
	}

	t.store.SetAlarm(objects.AlarmCritical)
	// No normal tick occurred, so the timing fields keep their last values.
	t.store.PublishCommand(objects.ActuatorCommand{
		Channel:       channelValues,
		UpdateTime:    t.store.Command().UpdateTime,
		MaxUpdateTime: t.maxUpdateTime,
	})
	t.watchdog.UpdateFlag(watchdogFlagName)

	if t.metrics != nil {
		t.metrics.AlarmState.Set(float64(objects.AlarmCritical))
		t.metrics.InterlockState.Set(float64(t.store.Interlock()))
	}
}

// holdInterlock is the StopRequest hold loop: failsafe values are committed
// immediately on entry and re-applied on InterlockReapplyInterval so the
// servos never keep driving a stale live-tick command while the stop is in
// effect. The StopRequest -> Stopped transition (a core-owned transition)
// only fires once InterlockHoldInterval has genuinely elapsed since entry;
// until then the loop keeps reapplying failsafe without marking Stopped.
// The loop exits once an external caller transitions Stopped -> Ok via
// Resume.
func (t *Task) holdInterlock(ctx context.Context) error {
	t.logger.Infow("interlock stop requested, holding failsafe outputs")

	start := time.Now()
	t.applyFailsafe()

	ticker := time.NewTicker(InterlockReapplyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.applyFailsafe()

			if time.Since(start) >= InterlockHoldInterval {
				t.store.MarkStopped()
			}

			if t.store.Interlock() == objects.InterlockOk {
				if err := t.programServoMode(); err != nil {
					t.logger.Errorw("failed to reprogram servo mode on interlock resume", "error", err)
				}
				t.logger.Infow("interlock resumed")
				return nil
			}
		}
	}
}
