// File: internal/config/gesture_config.go
// This file defines GestureConfig, the tunable timing for synthesized pointer
// gestures. Zoom is not configurable: it always uses two pointers, ten steps
// and no delays.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// GestureConfig controls drags, swipes and taps.
type GestureConfig struct {
	// DragSteps is the number of move frames for screen drags when the caller
	// does not choose one.
	DragSteps int           `mapstructure:"drag_steps" yaml:"drag_steps"`
	DownDelay time.Duration `mapstructure:"down_delay" yaml:"down_delay"`
	MoveDelay time.Duration `mapstructure:"move_delay" yaml:"move_delay"`
	UpDelay   time.Duration `mapstructure:"up_delay" yaml:"up_delay"`
	// TapHold is the pause between the down and up frames of a tap.
	TapHold time.Duration `mapstructure:"tap_hold" yaml:"tap_hold"`
}

func setGestureDefaults(v *viper.Viper) {
	v.SetDefault("gesture.drag_steps", 20)
	v.SetDefault("gesture.down_delay", "0s")
	v.SetDefault("gesture.move_delay", "10ms")
	v.SetDefault("gesture.up_delay", "0s")
	v.SetDefault("gesture.tap_hold", "50ms")
}

// Validate checks the gesture timing settings.
func (g *GestureConfig) Validate() error {
	if g.DragSteps < 1 {
		return fmt.Errorf("drag_steps must be at least 1")
	}
	if g.DownDelay < 0 || g.MoveDelay < 0 || g.UpDelay < 0 || g.TapHold < 0 {
		return fmt.Errorf("gesture delays must not be negative")
	}
	return nil
}
