// Package config loads ActuatorSettings, MixerSettings, and
// SystemSettings.AirframeType from a YAML settings file and keeps the
// objects.Store in sync with it. A file write is this core's only external
// configuration writer: Loader watches the file with fsnotify (via
// viper.WatchConfig) and re-applies it, which flips the same UpdateFlags
// the task already polls at the top of every tick -- it never reaches into
// the cached mixer mid-tick.
package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"actuatorcore/objects"
)

// fileSettings is the on-disk shape; Loader converts it into the
// objects.* structs the rest of the core operates on.
type fileSettings struct {
	Actuator struct {
		ChannelMin                       []float64 `mapstructure:"channel_min_us"`
		ChannelNeutral                   []float64 `mapstructure:"channel_neutral_us"`
		ChannelMax                       []float64 `mapstructure:"channel_max_us"`
		TimerUpdateFreq                  []int     `mapstructure:"timer_update_freq_hz"`
		MotorsSpinWhileArmed             bool      `mapstructure:"motors_spin_while_armed"`
		MotorInputOutputCurveFit         float64   `mapstructure:"motor_input_output_curve_fit"`
		LowPowerStabilizationMaxPowerAdd float64   `mapstructure:"low_power_stabilization_max_power_add"`
		LowPowerStabilizationMaxTime     float64   `mapstructure:"low_power_stabilization_max_time_s"`
	} `mapstructure:"actuator"`

	System struct {
		AirframeType string `mapstructure:"airframe_type"`
	} `mapstructure:"system"`

	Mixer struct {
		RotorTiltChannel int `mapstructure:"rotor_tilt_channel"`
		Curve2Source     string `mapstructure:"curve2_source"`
		ThrottleCurve1   []point `mapstructure:"throttle_curve1"`
		ThrottleCurve2   []point `mapstructure:"throttle_curve2"`
		Rows             []row   `mapstructure:"rows"`
	} `mapstructure:"mixer"`
}

type point struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

type row struct {
	Type         string   `mapstructure:"type"`
	Coefficients []int16  `mapstructure:"coefficients"`
}

var curve2SourceNames = map[string]objects.Curve2Source{
	"Throttle":    objects.Curve2Throttle,
	"Roll":        objects.Curve2Roll,
	"Pitch":       objects.Curve2Pitch,
	"Yaw":         objects.Curve2Yaw,
	"Collective":  objects.Curve2Collective,
	"Accessory0":  objects.Curve2Accessory0,
	"Accessory1":  objects.Curve2Accessory1,
	"Accessory2":  objects.Curve2Accessory2,
}

var rowTypeNames = map[string]objects.MixerRowType{
	"Disabled":    objects.RowDisabled,
	"Motor":       objects.RowMotor,
	"Servo":       objects.RowServo,
	"CameraRoll":  objects.RowCameraRoll,
	"CameraPitch": objects.RowCameraPitch,
	"CameraYaw":   objects.RowCameraYaw,
}

// Loader owns the viper instance and keeps an objects.Store synced to a
// settings file on disk.
type Loader struct {
	v      *viper.Viper
	store  *objects.Store
	logger *zap.SugaredLogger
}

// NewLoader reads path once, applies it to store, and starts watching for
// further changes. path's extension selects viper's decoder (".yaml",
// ".yml", ".json", ... are all supported).
func NewLoader(path string, store *objects.Store, logger *zap.SugaredLogger) (*Loader, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading actuator settings from %s", path)
	}

	l := &Loader{v: v, store: store, logger: logger}
	if err := l.apply(); err != nil {
		return nil, errors.Wrap(err, "applying initial actuator settings")
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := l.apply(); err != nil {
			l.logger.Errorw("failed to apply changed settings, keeping previous cache",
				"path", e.Name, "error", err)
		}
	})
	v.WatchConfig()

	return l, nil
}

func (l *Loader) apply() error {
	var fs fileSettings
	if err := l.v.Unmarshal(&fs); err != nil {
		return errors.Wrap(err, "decoding settings file")
	}

	actuatorSettings := objects.ActuatorSettings{
		ChannelMin:                       fs.Actuator.ChannelMin,
		ChannelNeutral:                   fs.Actuator.ChannelNeutral,
		ChannelMax:                       fs.Actuator.ChannelMax,
		TimerUpdateFreq:                  fs.Actuator.TimerUpdateFreq,
		MotorsSpinWhileArmed:             fs.Actuator.MotorsSpinWhileArmed,
		MotorInputOutputCurveFit:         fs.Actuator.MotorInputOutputCurveFit,
		LowPowerStabilizationMaxPowerAdd: fs.Actuator.LowPowerStabilizationMaxPowerAdd,
		LowPowerStabilizationMaxTime:     fs.Actuator.LowPowerStabilizationMaxTime,
	}

	rows := make([]objects.MixerRow, len(fs.Mixer.Rows))
	for i, r := range fs.Mixer.Rows {
		t, ok := rowTypeNames[r.Type]
		if !ok {
			return errors.Errorf("mixer row %d: unknown type %q", i, r.Type)
		}
		var coeffs [objects.V]int16
		copy(coeffs[:], r.Coefficients)
		rows[i] = objects.MixerRow{Type: t, Coefficients: coeffs}
	}

	curve2src := objects.Curve2Throttle
	if fs.Mixer.Curve2Source != "" {
		c, ok := curve2SourceNames[fs.Mixer.Curve2Source]
		if !ok {
			return errors.Errorf("unknown curve2_source %q", fs.Mixer.Curve2Source)
		}
		curve2src = c
	}

	mixerSettings := objects.MixerSettings{
		Rows:             rows,
		ThrottleCurve1:   toCurvePoints(fs.Mixer.ThrottleCurve1),
		ThrottleCurve2:   toCurvePoints(fs.Mixer.ThrottleCurve2),
		Curve2Source:     curve2src,
		RotorTiltChannel: fs.Mixer.RotorTiltChannel,
	}
	if mixerSettings.RotorTiltChannel == 0 {
		mixerSettings.RotorTiltChannel = -1
	}

	systemSettings := objects.SystemSettings{
		AirframeType: objects.AirframeType(fs.System.AirframeType),
	}

	if err := Validate(actuatorSettings, mixerSettings); err != nil {
		return err
	}

	l.store.SetActuatorSettings(actuatorSettings)
	l.store.SetMixerSettings(mixerSettings)
	l.store.SetSystemSettings(systemSettings)

	return nil
}

func toCurvePoints(pts []point) []objects.CurvePoint {
	out := make([]objects.CurvePoint, len(pts))
	for i, p := range pts {
		out[i] = objects.CurvePoint{X: p.X, Y: p.Y}
	}
	return out
}

// Validate checks the cross-struct invariants that would otherwise be
// compile-time assertions, since the channel/mixer/timer-bank counts are
// only known once a settings file is loaded.
func Validate(a objects.ActuatorSettings, m objects.MixerSettings) error {
	channelCount := a.ChannelCount()
	if len(m.Rows) > channelCount {
		return fmt.Errorf("mixer row count %d exceeds channel count %d", len(m.Rows), channelCount)
	}
	if len(a.TimerUpdateFreq) > channelCount {
		return fmt.Errorf("timer bank count %d exceeds channel count %d", len(a.TimerUpdateFreq), channelCount)
	}
	if len(a.ChannelNeutral) != channelCount || len(a.ChannelMax) != channelCount {
		return fmt.Errorf("channel_min/neutral/max must all have length %d", channelCount)
	}
	return nil
}
