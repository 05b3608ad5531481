package common

// PPM is the number of pixels per physics meter.
const PPM = 40.0

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// ToMeters converts pixels to meters.
func ToMeters(px float64) float64 {
	return px / PPM
}

// ToPixels converts meters to pixels.
func ToPixels(m float64) float64 {
	return m * PPM
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
