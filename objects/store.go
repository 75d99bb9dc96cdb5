package objects

import (
	"sync"
	"sync/atomic"
)

// UpdateFlags are four single-writer/single-reader booleans: each is set by
// a settings-change callback (running on some other context) and cleared
// only by the task at the top of a tick. No locks are needed because each
// is a single word with atomic store/load semantics.
type UpdateFlags struct {
	flightStatus     atomic.Bool
	manualControl    atomic.Bool
	actuatorSettings atomic.Bool
	mixerSettings    atomic.Bool
}

// Store holds the settings snapshots, live inputs, and the published output
// object. It is the pub/sub boundary between the rest of the system and the
// actuator task: external configuration writers call the Set* methods (from
// arbitrary goroutines), the actuator task calls the getters and Consume*
// flag checks once per tick. Desired-vector arrival is a queued channel
// rather than a flag, matching its role as the primary trigger event that
// drives every tick.
type Store struct {
	flags UpdateFlags

	mu               sync.RWMutex
	actuatorSettings ActuatorSettings
	mixerSettings    MixerSettings
	systemSettings   SystemSettings
	flightStatus     FlightStatus
	manualControl    ManualControlCommand
	cameraDesired    *CameraDesired

	cmdMu   sync.Mutex
	command ActuatorCommand

	alarm atomic.Int32

	interlock atomic.Int32

	desiredCh chan ActuatorDesired
}

// desiredQueueSize bounds the desired-vector queue depth, matching a small
// fixed-depth hardware FIFO rather than an unbounded buffer.
const desiredQueueSize = 2

// NewStore creates a store with all update flags set so the first tick
// always refreshes caches from whatever defaults are loaded, matching the
// "set true to ensure they're fetched on first run" behavior of the
// original implementation.
func NewStore() *Store {
	s := &Store{
		desiredCh: make(chan ActuatorDesired, desiredQueueSize),
	}
	s.flags.flightStatus.Store(true)
	s.flags.manualControl.Store(true)
	s.flags.actuatorSettings.Store(true)
	s.flags.mixerSettings.Store(true)
	s.interlock.Store(int32(InterlockOk))
	return s
}

// --- ActuatorSettings ---

func (s *Store) SetActuatorSettings(v ActuatorSettings) {
	s.mu.Lock()
	s.actuatorSettings = v
	s.mu.Unlock()
	s.flags.actuatorSettings.Store(true)
}

func (s *Store) ActuatorSettings() ActuatorSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actuatorSettings
}

// ConsumeActuatorSettingsChanged returns true (once) if ActuatorSettings
// changed since the last call.
func (s *Store) ConsumeActuatorSettingsChanged() bool {
	return s.flags.actuatorSettings.Swap(false)
}

// --- MixerSettings ---

func (s *Store) SetMixerSettings(v MixerSettings) {
	s.mu.Lock()
	s.mixerSettings = v
	s.mu.Unlock()
	s.flags.mixerSettings.Store(true)
}

func (s *Store) MixerSettings() MixerSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mixerSettings
}

func (s *Store) ConsumeMixerSettingsChanged() bool {
	return s.flags.mixerSettings.Swap(false)
}

// --- SystemSettings ---

func (s *Store) SetSystemSettings(v SystemSettings) {
	s.mu.Lock()
	s.systemSettings = v
	s.mu.Unlock()
	// Airframe type is re-read alongside the mixer cache rebuild, so
	// changing it alone is enough to trigger a rebuild too.
	s.flags.mixerSettings.Store(true)
}

func (s *Store) SystemSettings() SystemSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.systemSettings
}

// --- FlightStatus ---

func (s *Store) SetFlightStatus(v FlightStatus) {
	s.mu.Lock()
	s.flightStatus = v
	s.mu.Unlock()
	s.flags.flightStatus.Store(true)
}

func (s *Store) FlightStatus() FlightStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flightStatus
}

func (s *Store) ConsumeFlightStatusChanged() bool {
	return s.flags.flightStatus.Swap(false)
}

// --- ManualControlCommand ---

func (s *Store) SetManualControl(v ManualControlCommand) {
	s.mu.Lock()
	s.manualControl = v
	s.mu.Unlock()
	s.flags.manualControl.Store(true)
}

func (s *Store) ManualControl() ManualControlCommand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manualControl
}

func (s *Store) ConsumeManualControlChanged() bool {
	return s.flags.manualControl.Swap(false)
}

// --- CameraDesired (optional) ---

func (s *Store) SetCameraDesired(v *CameraDesired) {
	s.mu.Lock()
	s.cameraDesired = v
	s.mu.Unlock()
}

func (s *Store) CameraDesired() *CameraDesired {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cameraDesired
}

// --- ActuatorDesired (queued, primary trigger) ---

// PublishDesired enqueues a new desired command. If the queue is full the
// oldest entry is dropped, matching a bounded-depth-2 hardware queue rather
// than blocking the producer.
func (s *Store) PublishDesired(v ActuatorDesired) {
	for {
		select {
		case s.desiredCh <- v:
			return
		default:
			select {
			case <-s.desiredCh:
			default:
			}
		}
	}
}

// DesiredChannel exposes the queue for the task's receive-with-timeout wait.
func (s *Store) DesiredChannel() <-chan ActuatorDesired {
	return s.desiredCh
}

// --- ActuatorCommand (output) ---

// PublishCommand writes the output object unless it is flagged read-only by
// an external servo-configuration tool, in which case the external value
// takes precedence and is returned instead.
func (s *Store) PublishCommand(v ActuatorCommand) ActuatorCommand {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	if s.command.ReadOnly {
		return s.command
	}
	s.command = v
	return v
}

func (s *Store) Command() ActuatorCommand {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.command
}

// SetCommandReadOnly is called by an external servo-configuration tool.
func (s *Store) SetCommandReadOnly(ro bool) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	s.command.ReadOnly = ro
}

// --- SystemAlarms.Actuator ---

func (s *Store) SetAlarm(v AlarmSeverity) {
	s.alarm.Store(int32(v))
}

func (s *Store) Alarm() AlarmSeverity {
	return AlarmSeverity(s.alarm.Load())
}

// --- Interlock (motor-stop handshake) ---

// RequestStop is called by an external party; never called by the task.
func (s *Store) RequestStop() {
	s.interlock.Store(int32(InterlockStopRequest))
}

// Resume transitions Stopped -> Ok; only the external requester may call
// this. Calling it while the flag is still StopRequest is a caller bug (the
// handshake requires waiting for Stopped first) and is a no-op.
func (s *Store) Resume() {
	s.interlock.CompareAndSwap(int32(InterlockStopped), int32(InterlockOk))
}

// MarkStopped is the task-owned StopRequest -> Stopped transition. Only the
// actuator task should call this; everyone else uses RequestStop/Resume.
func (s *Store) MarkStopped() {
	s.interlock.CompareAndSwap(int32(InterlockStopRequest), int32(InterlockStopped))
}

func (s *Store) Interlock() InterlockState {
	return InterlockState(s.interlock.Load())
}
