package core

// Interleave writes left and right as alternating frames into dst and
// returns the number of frames written. It stops at the shortest input or
// when dst is full.
func Interleave(dst, left, right []float64) int {
	frames := min(len(left), len(right), len(dst)/2)
	for i := range frames {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
	return frames
}

// Peak returns the largest absolute sample value in buf.
func Peak(buf []float64) float64 {
	var peak float64
	for _, v := range buf {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}
