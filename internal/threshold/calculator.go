package threshold

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

var (
	// ErrZeroDaylight indicates sunrise and sunset share a time of day, so the
	// intraday curve has no period
	ErrZeroDaylight = errors.New("daylight period is zero")

	// ErrMissingSunEvent indicates sunrise or sunset was not supplied
	ErrMissingSunEvent = errors.New("sunrise and sunset are required")
)

// Config holds the brightness envelope settings
type Config struct {
	// Floor is the seasonal minimum, reached half a year from the solstice
	Floor int
	// Cap is the seasonal maximum, reached at the summer solstice
	Cap int
	// Buffer is the nighttime output and the trough of the intraday curve
	Buffer int
}

// DefaultConfig returns the stock envelope: 10000 lx floor, 70000 lx cap,
// 10000 lx buffer
func DefaultConfig() Config {
	return Config{
		Floor:  10000,
		Cap:    70000,
		Buffer: 10000,
	}
}

// Result is one computed threshold together with the inputs of the curve
type Result struct {
	Value          float64
	DayBrightness  int
	Daytime        bool
	PeriodMinutes  float64
	ElapsedMinutes float64
}

// Calculator computes the brightness threshold for a moment in time.
// Configuration is repaired once at construction and read-only afterwards,
// so a Calculator is safe for concurrent use.
type Calculator struct {
	cfg    Config
	logger *slog.Logger
}

// NewCalculator creates a calculator, correcting any configuration that
// violates floor >= 0, floor < cap or buffer >= 0
func NewCalculator(cfg Config, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Calculator{logger: logger}
	c.cfg = c.repair(cfg)
	return c
}

// repair applies the envelope invariants, logging each correction
func (c *Calculator) repair(cfg Config) Config {
	if cfg.Floor < 0 {
		c.logger.Warn("Floor must not be negative, clamping to 0", "floor", cfg.Floor)
		cfg.Floor = 0
	}

	if cfg.Floor >= cfg.Cap {
		c.logger.Warn("Floor has to be lower than cap, setting cap to floor",
			"floor", cfg.Floor,
			"cap", cfg.Cap)
		cfg.Cap = cfg.Floor
	}

	if cfg.Buffer < 0 {
		c.logger.Warn("Buffer should not be negative, clamping to 0", "buffer", cfg.Buffer)
		cfg.Buffer = 0
	}

	return cfg
}

// Config returns the effective configuration after repair
func (c *Calculator) Config() Config {
	return c.cfg
}

// SeasonalPeak returns the day brightness for now's date
func (c *Calculator) SeasonalPeak(now time.Time) int {
	cfg := c.Config()
	brightness := SeasonalPeak(now, cfg.Floor, cfg.Cap)

	c.logger.Debug("Day brightness threshold",
		"date", now.Format(time.DateOnly),
		"days_to_solstice", DaysUntilSolstice(now),
		"brightness", brightness)

	return brightness
}

// InstantThreshold computes the threshold for now given the next sunrise and
// sunset. Only the time-of-day parts are compared: the feed always carries
// the next occurrence of each event, which may fall on tomorrow's date.
func (c *Calculator) InstantThreshold(now, sunrise, sunset time.Time) (Result, error) {
	if sunrise.IsZero() || sunset.IsZero() {
		return Result{}, ErrMissingSunEvent
	}

	cfg := c.Config()
	now = now.In(sunrise.Location())

	result := Result{
		DayBrightness: c.SeasonalPeak(now),
	}

	riseMinutes := minutesOfDay(sunrise)
	setMinutes := minutesOfDay(sunset)
	nowMinutes := minutesOfDay(now)

	if riseMinutes > nowMinutes || nowMinutes > setMinutes {
		result.Value = float64(cfg.Buffer)
		return result, nil
	}

	period := setMinutes - riseMinutes
	if period == 0 {
		return Result{}, fmt.Errorf("sunrise and sunset both at %s: %w",
			sunrise.Format(time.TimeOnly), ErrZeroDaylight)
	}

	x := nowMinutes - riseMinutes
	result.Daytime = true
	result.PeriodMinutes = period
	result.ElapsedMinutes = x
	result.Value = sineProfile(x, period, result.DayBrightness, cfg.Buffer)

	return result, nil
}

// sineProfile places one sine period over the daylight window, shifted a
// quarter period so the curve starts and ends at buffer and peaks at
// dayBrightness halfway through
func sineProfile(x, period float64, dayBrightness, buffer int) float64 {
	a := float64(dayBrightness-buffer) / 2
	b := 2 * math.Pi / period
	c := period / 4
	d := float64(dayBrightness-buffer)/2 + float64(buffer)

	return math.RoundToEven(a*math.Sin(b*(x-c)) + d)
}

// minutesOfDay returns the wall-clock time of t in minutes since midnight,
// including the fractional part
func minutesOfDay(t time.Time) float64 {
	h, m, s := t.Clock()
	seconds := float64(h*3600+m*60+s) + float64(t.Nanosecond())/1e9
	return seconds / 60
}
