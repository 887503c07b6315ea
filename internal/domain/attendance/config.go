package attendance

import (
	"github.com/ANOSkdy/ai-nippo-sub000/internal/config"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/timeutil"
)

// CalcConfig is the subset of configuration the time-calculation engine
// consumes. Carried as a value so the engine stays a pure computation.
type CalcConfig struct {
	RoundEnabled     bool
	RoundStepMinutes int
	RoundMode        timeutil.RoundMode

	// FixedBreakMinutes > 0 replaces the tiered standard-break rule.
	FixedBreakMinutes int
}

// CalcConfigFrom extracts the engine knobs from the loaded configuration.
func CalcConfigFrom(cfg config.AttendanceConfig) CalcConfig {
	return CalcConfig{
		RoundEnabled:      cfg.RoundEnabled,
		RoundStepMinutes:  cfg.RoundStepMinutes,
		RoundMode:         timeutil.ParseRoundMode(cfg.RoundMode),
		FixedBreakMinutes: cfg.FixedBreakMinutes,
	}
}

// Round applies the configured rounding to a minute value.
func (c CalcConfig) Round(minutes float64) int {
	if !c.RoundEnabled {
		return timeutil.RoundToStep(minutes, 0, c.RoundMode)
	}
	return timeutil.RoundToStep(minutes, c.RoundStepMinutes, c.RoundMode)
}
