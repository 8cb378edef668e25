package resolution

import "math"

// roundHalfAway rounds half away from zero, the policy for every
// intermediate pixel value produced by the mode calculators.
func roundHalfAway(v float64) int {
	return int(math.Round(v))
}

// SnapToDivisor snaps v to the nearest multiple of divisor using round half
// to even (banker's rounding). Divisibility snapping itself belongs to the
// caller, but any preview of it must use this exact rounding mode to stay
// numerically identical to the authoritative backend computation.
func SnapToDivisor(v, divisor int) int {
	if divisor <= 0 {
		return v
	}
	return int(math.RoundToEven(float64(v)/float64(divisor))) * divisor
}

// gcd returns the greatest common divisor of two positive integers.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// reduceRatio reduces w:h to lowest terms. Ratios computed from concrete
// width/height pairs are always reported reduced.
func reduceRatio(w, h int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	d := gcd(w, h)
	return w / d, h / d
}

// derivedRatio builds a GCD-reduced ResolvedAspectRatio from concrete pixel
// dimensions.
func derivedRatio(w, h int, source RatioSource) ResolvedAspectRatio {
	rw, rh := reduceRatio(w, h)
	return ResolvedAspectRatio{
		Ratio:   float64(w) / float64(h),
		AspectW: float64(rw),
		AspectH: float64(rh),
		Source:  source,
	}
}
