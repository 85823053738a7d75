package config

import "time"

// SchedulerConfig defines configuration for scheduler
type SchedulerConfig struct {
	IntervalSecs int `json:"interval_secs,omitempty" yaml:"interval_secs,omitempty" validate:"min=1"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		IntervalSecs: DefaultSchedulerIntervalSecs,
	}
}

// Interval returns the pause between the end of one cycle and the start of
// the next.
func (c SchedulerConfig) Interval() time.Duration {
	return secs(c.IntervalSecs)
}
