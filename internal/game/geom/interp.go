package geom

import "math"

// InterpTo eases current toward target at speed per second, frame-rate
// independent for small dt.
//
// Postcondition: returns target when speed <= 0 or the remaining distance is
// negligible; otherwise a value strictly between current and target (inclusive
// of target when the step overshoots).
func InterpTo(current, target, dt, speed float64) float64 {
	if speed <= 0 {
		return target
	}
	dist := target - current
	if dist*dist < 1e-8 {
		return target
	}
	step := dist * clamp(dt*speed, 0, 1)
	return current + step
}

// MapRangeClamped linearly maps v from [inLo, inHi] to [outLo, outHi],
// clamping to the output range.
//
// Precondition: inLo != inHi.
func MapRangeClamped(v, inLo, inHi, outLo, outHi float64) float64 {
	t := clamp((v-inLo)/(inHi-inLo), 0, 1)
	return outLo + t*(outHi-outLo)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
