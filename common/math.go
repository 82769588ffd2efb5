package common

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func AbsInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// OffsetFloor rounds n down to a multiple of to, shifted by offset.
func OffsetFloor(n, to, offset int) int {
	return FloorDiv(n, to)*to + AbsInt(offset)%to
}

// OffsetCeil rounds n up to a multiple of to, shifted by offset.
func OffsetCeil(n, to, offset int) int {
	return CeilDiv(n, to)*to - AbsInt(offset)%to
}

func Ceil(n, to int) int {
	return CeilDiv(n, to) * to
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CeilDiv divides rounding toward positive infinity.
func CeilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// Mod returns a modulo b with the sign of b, so tile coordinates wrap
// cleanly on looping worlds.
func Mod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
