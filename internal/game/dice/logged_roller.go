package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged random draws.
// All draws are logged at debug level with label, bounds and value.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced by a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Uniform draws a float in [lo, hi] and logs it under label.
//
// Precondition: lo <= hi.
// Postcondition: lo <= result <= hi; the draw is logged.
func (r *Roller) Uniform(label string, lo, hi float64) float64 {
	d := Draw{Label: label, Lo: lo, Hi: hi, Value: FRandRange(r.src, lo, hi)}
	r.log(d)
	return d.Value
}

// IntRange draws an int in [lo, hi] inclusive and logs it under label.
//
// Precondition: lo <= hi.
// Postcondition: lo <= result <= hi; the draw is logged.
func (r *Roller) IntRange(label string, lo, hi int) int {
	v := RandRange(r.src, lo, hi)
	r.log(Draw{Label: label, Lo: float64(lo), Hi: float64(hi), Value: float64(v)})
	return v
}

func (r *Roller) log(d Draw) {
	r.logger.Debug("random draw",
		zap.String("label", d.Label),
		zap.Float64("lo", d.Lo),
		zap.Float64("hi", d.Hi),
		zap.Float64("value", d.Value),
	)
}
